package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/model"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSessions         = errors.New("该学期暂无已导入的课程")
	ErrExportNoTimeSlots        = errors.New("课程节次缺少对应的作息时间")
	ErrExportGenerateFail       = errors.New("生成导出文件失败")
	ErrExportInvalidFirstMonday = errors.New("first_monday 必须是 YYYY-MM-DD 格式的周一日期")
)

const (
	shanghaiTimezone = "Asia/Shanghai"
	icsProductID     = "-//shiguang//kb//CN"
	gridSheet        = "课表"
	detailSheet      = "明细"
)

var weekdayNames = []string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出以字节返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 作息时间优先使用用户已保存的节次时间，未保存时使用默认作息方案
type ExportService interface {
	// ExportSessionsXLSX 导出课表为 Excel：节次 × 星期网格 + 明细表
	ExportSessionsXLSX(ctx context.Context, ownerID string, q *dto.TermQuery) (*bytes.Buffer, string, error)
	// ExportSessionsICS 导出课表为 iCalendar：每门课每个上课周一个 VEVENT
	ExportSessionsICS(ctx context.Context, ownerID string, req *dto.ExportICSRequest) ([]byte, string, error)
}

type exportService struct {
	repo          *repository.Repository
	defaultRegime TimeSlotRegime
	logger        *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, defaultRegime TimeSlotRegime, logger *zap.Logger) ExportService {
	if !defaultRegime.Valid() {
		defaultRegime = RegimeStandard
	}
	return &exportService{repo: repo, defaultRegime: defaultRegime, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSessionsXLSX
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "课表"：行为节次（含时间），列为周一 ~ 周日，
//     单元格为 "课程名 / 地点 / 教师 / 周次"，同一格多门课以空行分隔
//   - Sheet "明细"：每门课一行，保持导入顺序

func (s *exportService) ExportSessionsXLSX(ctx context.Context, ownerID string, q *dto.TermQuery) (*bytes.Buffer, string, error) {
	code, sessions, err := s.loadSessions(ctx, ownerID, q)
	if err != nil {
		return nil, "", err
	}
	slots, err := s.loadSlots(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}

	maxSection := lo.Max(lo.Map(sessions, func(cs model.CourseSession, _ int) int { return cs.EndSection }))
	if n := len(slots); n > maxSection {
		maxSection = n
	}

	// (星期, 节次) → 单元格文本
	grid := make(map[[2]int][]string)
	for _, cs := range sessions {
		text := strings.Join([]string{cs.Name, cs.Position, cs.Teacher, FormatWeeks(cs.Weeks)}, "\n")
		for sec := cs.StartSection; sec <= cs.EndSection; sec++ {
			k := [2]int{cs.DayOfWeek, sec}
			grid[k] = append(grid[k], text)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(gridSheet)
	if err != nil {
		return nil, "", s.generateFailed(err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, "", s.generateFailed(err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// ── 网格 ──
	f.SetColWidth(gridSheet, "A", "A", 8)
	f.SetColWidth(gridSheet, "B", "B", 14)
	f.SetColWidth(gridSheet, "C", "I", 24)

	f.SetCellValue(gridSheet, "A1", "节次")
	f.SetCellValue(gridSheet, "B1", "时间")
	for day := 1; day <= 7; day++ {
		f.SetCellValue(gridSheet, cell(colName(1+day), 1), weekdayNames[day])
	}
	f.SetCellStyle(gridSheet, "A1", "I1", headerStyle)

	for sec := 1; sec <= maxSection; sec++ {
		row := sec + 1
		f.SetCellValue(gridSheet, cell("A", row), sec)
		if slot, ok := slots[sec]; ok {
			f.SetCellValue(gridSheet, cell("B", row), slot.StartTime+"-"+slot.EndTime)
		}
		for day := 1; day <= 7; day++ {
			if texts, ok := grid[[2]int{day, sec}]; ok {
				f.SetCellValue(gridSheet, cell(colName(1+day), row), strings.Join(texts, "\n\n"))
			}
		}
	}
	f.SetCellStyle(gridSheet, "C2", cell("I", maxSection+1), cellStyle)

	// ── 明细 ──
	headers := []string{"课程", "教师", "地点", "星期", "开始节次", "结束节次", "周次"}
	for i, h := range headers {
		f.SetCellValue(detailSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(detailSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(detailSheet, "A", "C", 20)
	f.SetColWidth(detailSheet, "G", "G", 28)

	for i, cs := range sessions {
		row := i + 2
		values := []interface{}{cs.Name, cs.Teacher, cs.Position, weekdayNames[cs.DayOfWeek], cs.StartSection, cs.EndSection, FormatWeeks(cs.Weeks)}
		for j, v := range values {
			f.SetCellValue(detailSheet, cell(colName(j), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFailed(err)
	}

	filename := fmt.Sprintf("课表_%s_%s.xlsx", q.AcademicYear, code)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportSessionsICS
// ═══════════════════════════════════════════════════════════
//
// 第 w 周星期 d 的日期 = first_monday + (w-1)*7 + (d-1) 天，
// 开始时间取开始节次的 startTime，结束时间取结束节次的 endTime。

func (s *exportService) ExportSessionsICS(ctx context.Context, ownerID string, req *dto.ExportICSRequest) ([]byte, string, error) {
	loc := shanghaiLocation()
	firstMonday, err := time.ParseInLocation("2006-01-02", req.FirstMonday, loc)
	if err != nil || firstMonday.Weekday() != time.Monday {
		return nil, "", ErrExportInvalidFirstMonday
	}

	code, sessions, err := s.loadSessions(ctx, ownerID, &req.TermQuery)
	if err != nil {
		return nil, "", err
	}
	slots, err := s.loadSlots(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("课表 %s-%s", req.AcademicYear, code))
	cal.SetXWRTimezone(shanghaiTimezone)

	stamp := time.Now().UTC()
	events := 0
	for _, cs := range sessions {
		startSlot, ok1 := slots[cs.StartSection]
		endSlot, ok2 := slots[cs.EndSection]
		if !ok1 || !ok2 {
			s.logger.Warn("节次缺少作息时间",
				zap.String("course", cs.Name),
				zap.Int("start_section", cs.StartSection),
				zap.Int("end_section", cs.EndSection),
			)
			return nil, "", ErrExportNoTimeSlots
		}

		for _, week := range cs.Weeks {
			day := firstMonday.AddDate(0, 0, (week-1)*7+cs.DayOfWeek-1)
			start, err := atClock(day, startSlot.StartTime)
			if err != nil {
				return nil, "", s.generateFailed(err)
			}
			end, err := atClock(day, endSlot.EndTime)
			if err != nil {
				return nil, "", s.generateFailed(err)
			}

			evt := cal.AddEvent(fmt.Sprintf("%s-w%d@shiguang", cs.CourseSessionID, week))
			evt.SetDtStampTime(stamp)
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(cs.Name)
			evt.SetLocation(cs.Position)
			evt.SetDescription(fmt.Sprintf("教师：%s\n第%d周 %s 第%d-%d节", cs.Teacher, week, weekdayNames[cs.DayOfWeek], cs.StartSection, cs.EndSection))
			events++
		}
	}

	s.logger.Info("导出 ICS",
		zap.String("owner_id", ownerID),
		zap.Int("sessions", len(sessions)),
		zap.Int("events", events),
	)

	filename := fmt.Sprintf("课表_%s_%s.ics", req.AcademicYear, code)
	return []byte(cal.Serialize()), filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) loadSessions(ctx context.Context, ownerID string, q *dto.TermQuery) (string, []model.CourseSession, error) {
	code, err := resolveTerm(q.AcademicYear, q.Semester)
	if err != nil {
		return "", nil, err
	}
	sessions, err := s.repo.CourseSession.ListByOwnerAndTerm(ctx, ownerID, q.AcademicYear, code)
	if err != nil {
		s.logger.Error("查询课程失败", zap.String("owner_id", ownerID), zap.Error(err))
		return "", nil, err
	}
	if len(sessions) == 0 {
		return "", nil, ErrExportNoSessions
	}
	return code, sessions, nil
}

// loadSlots 节次号 → 作息时间；用户未保存时使用默认作息方案
func (s *exportService) loadSlots(ctx context.Context, ownerID string) (map[int]dto.PresetTimeSlot, error) {
	rows, err := s.repo.PresetTimeSlot.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("查询作息时间失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	slots := toPresetSlots(rows)
	if len(slots) == 0 {
		slots, _ = PresetTimeSlots(s.defaultRegime)
	}
	return lo.KeyBy(slots, func(slot dto.PresetTimeSlot) int { return slot.Number }), nil
}

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("生成导出文件失败", zap.Error(err))
	return ErrExportGenerateFail
}

// atClock 将 "HH:MM" 应用到指定日期
func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("非法时间 %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func shanghaiLocation() *time.Location {
	loc, err := time.LoadLocation(shanghaiTimezone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
