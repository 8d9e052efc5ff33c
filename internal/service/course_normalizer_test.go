package service

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
)

// ── 测试辅助 ──

func rawRecord(name, teacher, room, day, jcs, zcd string) dto.RawCourseRecord {
	return dto.RawCourseRecord{
		Kcmc: dto.FlexString(name),
		Xm:   dto.FlexString(teacher),
		Cdmc: dto.FlexString(room),
		Xqj:  dto.FlexString(day),
		Jcs:  dto.FlexString(jcs),
		Zcd:  dto.FlexString(zcd),
	}
}

func sessionNames(sessions []dto.SessionEntry) []string {
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Name)
	}
	return names
}

// ════════════════════════════════════════════════════════════
// NormalizeCourses
// ════════════════════════════════════════════════════════════

func TestNormalizeCourses_Empty(t *testing.T) {
	for _, in := range [][]dto.RawCourseRecord{nil, {}} {
		got := NormalizeCourses(in)
		if got == nil || len(got) != 0 {
			t.Errorf("NormalizeCourses(%v) = %v, 期望空列表", in, got)
		}
	}
}

func TestNormalizeCourses_SingleRecord(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("  高等数学 ", " 张三 ", " 教1-101 ", "2", "3-4", "1-16周"),
	})
	if len(got) != 1 {
		t.Fatalf("期望 1 条, 实际 %d", len(got))
	}
	want := dto.SessionEntry{
		Name:         "高等数学",
		Teacher:      "张三",
		Position:     "教1-101",
		Day:          2,
		StartSection: 3,
		EndSection:   4,
		Weeks:        []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("got %+v, 期望 %+v", got[0], want)
	}
}

func TestNormalizeCourses_Discards(t *testing.T) {
	tests := []struct {
		name   string
		record dto.RawCourseRecord
	}{
		{"缺课程名", rawRecord("", "张三", "A101", "1", "1-2", "1-16周")},
		{"缺教师", rawRecord("数学", "", "A101", "1", "1-2", "1-16周")},
		{"缺地点", rawRecord("数学", "张三", "", "1", "1-2", "1-16周")},
		{"缺星期", rawRecord("数学", "张三", "A101", "", "1-2", "1-16周")},
		{"缺节次", rawRecord("数学", "张三", "A101", "1", "", "1-16周")},
		{"缺周次", rawRecord("数学", "张三", "A101", "1", "1-2", "")},
		{"周次无法解析", rawRecord("数学", "张三", "A101", "1", "1-2", "第一周")},
		{"周次起止倒置", rawRecord("数学", "张三", "A101", "1", "1-2", "5-3周")},
		{"星期为 8", rawRecord("数学", "张三", "A101", "8", "1-2", "1-16周")},
		{"星期为 0", rawRecord("数学", "张三", "A101", "0", "1-2", "1-16周")},
		{"星期非数字", rawRecord("数学", "张三", "A101", "一", "1-2", "1-16周")},
		{"节次非数字", rawRecord("数学", "张三", "A101", "1", "a-b", "1-16周")},
		{"节次倒置", rawRecord("数学", "张三", "A101", "1", "4-2", "1-16周")},
		{"节次为 0", rawRecord("数学", "张三", "A101", "1", "0-2", "1-16周")},
		{"节次尾段为空", rawRecord("数学", "张三", "A101", "1", "1-", "1-16周")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCourses([]dto.RawCourseRecord{tt.record})
			if len(got) != 0 {
				t.Errorf("期望记录被丢弃, 实际 %+v", got)
			}
		})
	}
}

func TestNormalizeCourses_MissingLocationKeepsOthers(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("物理", "李四", "B201", "3", "1-2", "1-8周"),
		rawRecord("化学", "王五", "", "1", "1-2", "1-8周"),
		rawRecord("英语", "赵六", "C301", "1", "5-6", "1-8周"),
	})
	if names := sessionNames(got); !reflect.DeepEqual(names, []string{"英语", "物理"}) {
		t.Errorf("期望 [英语 物理], 实际 %v", names)
	}
}

func TestNormalizeCourses_Sections(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("A", "t", "r", "1", "1-2", "1周"),
		rawRecord("B", "t", "r", "2", "4", "1周"),
		rawRecord("C", "t", "r", "3", " 5 - 7 ", "1周"),
		rawRecord("D", "t", "r", "4", "1-2-3", "1周"),
	})
	want := [][2]int{{1, 2}, {4, 4}, {5, 7}, {1, 3}}
	if len(got) != len(want) {
		t.Fatalf("期望 %d 条, 实际 %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].StartSection != w[0] || got[i].EndSection != w[1] {
			t.Errorf("%s: 节次 = %d-%d, 期望 %d-%d", got[i].Name, got[i].StartSection, got[i].EndSection, w[0], w[1])
		}
	}
}

func TestNormalizeCourses_Ordering(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("B", "t", "r", "1", "1-2", "1周"),
		rawRecord("A", "t", "r", "1", "1-2", "1周"),
		rawRecord("Z", "t", "r", "1", "3-4", "1周"),
		rawRecord("C", "t", "r", "7", "1-2", "1周"),
		rawRecord("Y", "t", "r", "2", "9-10", "1周"),
		rawRecord("X", "t", "r", "2", "1", "1周"),
	})
	want := []string{"A", "B", "Z", "X", "Y", "C"}
	if names := sessionNames(got); !reflect.DeepEqual(names, want) {
		t.Errorf("排序结果 %v, 期望 %v", names, want)
	}
}

func TestNormalizeCourses_StableForEqualKeys(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("数学", "甲", "r1", "1", "1-2", "1周"),
		rawRecord("数学", "乙", "r2", "1", "1-2", "1周"),
		rawRecord("数学", "丙", "r3", "1", "1-2", "1周"),
	})
	var teachers []string
	for _, s := range got {
		teachers = append(teachers, s.Teacher)
	}
	if !reflect.DeepEqual(teachers, []string{"甲", "乙", "丙"}) {
		t.Errorf("键相同的记录应保持输入顺序, 实际 %v", teachers)
	}
}

func TestNormalizeCourses_NumericDay(t *testing.T) {
	var records []dto.RawCourseRecord
	payload := `[{"kcmc":"数学","xm":"张三","cdmc":"A101","xqj":5,"jcs":"1-2","zcd":"1-2周"}]`
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	got := NormalizeCourses(records)
	if len(got) != 1 || got[0].Day != 5 {
		t.Errorf("数字形式的 xqj 应被接受, 实际 %+v", got)
	}
}

func TestNormalizeCourses_WeeksBeyondSixty(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("毕业设计", "张三", "实验楼", "2", "1-4", "1-64周"),
	})
	if len(got) != 1 || len(got[0].Weeks) != 64 || got[0].Weeks[63] != 64 {
		t.Errorf("长周次课程应保留, 实际 %+v", got)
	}
}

func TestNormalizeCourses_WhitespaceOnlyCountsAsPresent(t *testing.T) {
	got := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("数学", "  ", "A101", "1", "1-2", "1周"),
	})
	if len(got) != 1 || got[0].Teacher != "" {
		t.Errorf("纯空白教师名应保留并裁剪为空, 实际 %+v", got)
	}
}

func TestNormalizeCourses_Idempotent(t *testing.T) {
	first := NormalizeCourses([]dto.RawCourseRecord{
		rawRecord("线性代数", "张三", "A101", "3", "5-6", "1-15周(单)"),
		rawRecord(" 体育 ", "李四", "操场", "1", "3", "2-16周(双)"),
		rawRecord("大学英语", "王五", "B202", "1", "1-2", "1-8周,10-17周"),
		rawRecord("坏记录", "x", "y", "9", "1-2", "1周"),
	})

	raw := make([]dto.RawCourseRecord, 0, len(first))
	for _, s := range first {
		raw = append(raw, s.ToRawRecord(FormatWeeks(s.Weeks)))
	}
	second := NormalizeCourses(raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("二次规范化结果不一致:\n第一次 %+v\n第二次 %+v", first, second)
	}
}

func TestNormalizeCourses_ConcurrentCallers(t *testing.T) {
	records := []dto.RawCourseRecord{
		rawRecord("B", "t", "r", "1", "1-2", "1-4周"),
		rawRecord("A", "t", "r", "1", "1-2", "1-4周(单)"),
	}
	want := NormalizeCourses(records)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := NormalizeCourses(records); !reflect.DeepEqual(got, want) {
				t.Errorf("并发调用结果不一致: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeCoursesWithLogger_CountsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	result := NormalizeCoursesWithLogger([]dto.RawCourseRecord{
		rawRecord("数学", "张三", "A101", "1", "1-2", "1周"),
		rawRecord("数学", "张三", "A101", "8", "1-2", "1周"),
		rawRecord("数学", "张三", "", "1", "1-2", "1周"),
	}, logger)

	if result.RawCount != 3 || result.Skipped != 2 || len(result.Sessions) != 1 {
		t.Errorf("统计错误: raw=%d skipped=%d sessions=%d", result.RawCount, result.Skipped, len(result.Sessions))
	}

	reasons := map[string]bool{}
	for _, entry := range logs.FilterMessage("跳过课程记录").All() {
		reasons[entry.ContextMap()["reason"].(string)] = true
	}
	if !reasons[skipOutOfRange] || !reasons[skipMissingField] {
		t.Errorf("期望记录 out_of_range 与 missing_field, 实际 %v", reasons)
	}
}
