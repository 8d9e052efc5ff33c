package service

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
)

// ── kbList 记录规范化 ──────────────────────────────────────
//
// 职责：将教务系统返回的原始记录过滤、解析为 SessionEntry 列表。
//
// 单条记录按以下顺序校验，任一步失败即跳过该记录：
//   1. kcmc / xm / cdmc / xqj / jcs / zcd 均存在且非空
//   2. zcd 解析出至少一个周次
//   3. jcs 按 "-" 拆分，首尾两段均为整数
//   4. xqj 为整数
//   5. 星期 ∈ [1,7]，1 ≤ 开始节次 ≤ 结束节次
//
// 输出按 (星期, 开始节次, 课程名) 稳定排序；键完全相同的记录保持输入顺序。
// 跳过记录不是错误，仅在 debug 级别记录原因。
// ─────────────────────────────────────────────────────────────

// 跳过原因，仅用于日志
const (
	skipMissingField = "missing_field"
	skipNoWeeks      = "no_weeks"
	skipBadSections  = "bad_sections"
	skipBadDay       = "bad_day"
	skipOutOfRange   = "out_of_range"
)

const (
	minDayOfWeek       = 1
	maxDayOfWeek       = 7
	sectionRangeMarker = "-"
)

// NormalizeResult 规范化结果及统计
type NormalizeResult struct {
	Sessions []dto.SessionEntry
	RawCount int
	Skipped  int
}

// NormalizeCourses 规范化 kbList 记录，从不返回错误
// 空输入返回空列表（非 nil）
func NormalizeCourses(records []dto.RawCourseRecord) []dto.SessionEntry {
	return normalizeCourses(records, nil).Sessions
}

// NormalizeCoursesWithLogger 同 NormalizeCourses，并在 debug 级别记录被跳过的记录
func NormalizeCoursesWithLogger(records []dto.RawCourseRecord, logger *zap.Logger) NormalizeResult {
	return normalizeCourses(records, logger)
}

func normalizeCourses(records []dto.RawCourseRecord, logger *zap.Logger) NormalizeResult {
	sessions := make([]dto.SessionEntry, 0, len(records))
	skipped := 0

	for i := range records {
		entry, reason := normalizeRecord(&records[i])
		if reason != "" {
			skipped++
			if logger != nil {
				logger.Debug("跳过课程记录",
					zap.Int("index", i),
					zap.String("reason", reason),
					zap.String("kcmc", records[i].Kcmc.String()),
					zap.String("xqj", records[i].Xqj.String()),
					zap.String("jcs", records[i].Jcs.String()),
					zap.String("zcd", records[i].Zcd.String()),
				)
			}
			continue
		}
		sessions = append(sessions, entry)
	}

	sortSessions(sessions)

	if logger != nil && skipped > 0 {
		logger.Debug("课程记录规范化完成",
			zap.Int("raw", len(records)),
			zap.Int("sessions", len(sessions)),
			zap.Int("skipped", skipped),
		)
	}

	return NormalizeResult{Sessions: sessions, RawCount: len(records), Skipped: skipped}
}

// normalizeRecord 校验并转换单条记录；reason 非空表示跳过
func normalizeRecord(r *dto.RawCourseRecord) (dto.SessionEntry, string) {
	// 1. 必填字段（纯空白视为存在，之后再裁剪）
	for _, v := range []dto.FlexString{r.Kcmc, r.Xm, r.Cdmc, r.Xqj, r.Jcs, r.Zcd} {
		if v == "" {
			return dto.SessionEntry{}, skipMissingField
		}
	}

	// 2. 周次
	weeks := ParseWeeks(r.Zcd.String())
	if len(weeks) == 0 {
		return dto.SessionEntry{}, skipNoWeeks
	}

	// 3. 节次
	start, end, ok := parseSections(r.Jcs.String())
	if !ok {
		return dto.SessionEntry{}, skipBadSections
	}

	// 4. 星期
	day, err := strconv.Atoi(strings.TrimSpace(r.Xqj.String()))
	if err != nil {
		return dto.SessionEntry{}, skipBadDay
	}

	// 5. 取值范围
	if day < minDayOfWeek || day > maxDayOfWeek || start < 1 || start > end {
		return dto.SessionEntry{}, skipOutOfRange
	}

	return dto.SessionEntry{
		Name:         strings.TrimSpace(r.Kcmc.String()),
		Teacher:      strings.TrimSpace(r.Xm.String()),
		Position:     strings.TrimSpace(r.Cdmc.String()),
		Day:          day,
		StartSection: start,
		EndSection:   end,
		Weeks:        weeks,
	}, ""
}

// parseSections 解析 "1-2" / "4"：首段为开始节次，末段为结束节次
func parseSections(jcs string) (start, end int, ok bool) {
	parts := strings.Split(jcs, sectionRangeMarker)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// sortSessions 按 (星期, 开始节次, 课程名) 稳定排序，课程名按字节序比较
func sortSessions(sessions []dto.SessionEntry) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.StartSection != b.StartSection {
			return a.StartSection < b.StartSection
		}
		return a.Name < b.Name
	})
}
