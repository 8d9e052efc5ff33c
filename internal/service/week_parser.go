package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/width"
)

// ── 周次描述解析器 ──────────────────────────────────────────
//
// 职责：将正方教务 zcd 字段（如 "1-16周"、"1-15周(单)"、"3周,5-8周"）
// 解析为升序、去重的周次列表。
//
// 规则：
//   - 按逗号拆分子句，逐句匹配：先范围 "<a>-<b>周"，再单周 "<n>周"
//   - 均不匹配的子句静默忽略（描述中可能夹带说明文字）
//   - "(单)" 只保留奇数周，"(双)" 只保留偶数周；标记只影响过滤，不影响匹配
//   - 各子句取并集，结果升序去重，与子句顺序、重复无关
//   - 任何输入都不会报错，最坏结果为空列表
// ─────────────────────────────────────────────────────────────

const (
	oddWeekMarker  = "(单)"
	evenWeekMarker = "(双)"

	// maxWeekNumber 单个子句展开的上限，只用于限制 "1-99999999周" 这类输入的展开量
	maxWeekNumber = 1000
)

// weekClauseMatcher 周次子句匹配器：判定 + 提取
//
// 范围与单周各是一个独立的匹配器，可单独测试；
// 子句依次交给 weekClauseMatchers，第一个命中者生效。
type weekClauseMatcher struct {
	name    string
	pattern *regexp.Regexp
	extract func(groups []string) (start, end int, ok bool)
}

// match 判定子句是否符合该形式，并提取闭区间 [start, end]
func (m weekClauseMatcher) match(clause string) (start, end int, ok bool) {
	groups := m.pattern.FindStringSubmatch(clause)
	if groups == nil {
		return 0, 0, false
	}
	return m.extract(groups)
}

var (
	// rangeWeekMatcher "1-16周"：子句中包含 "<a>-<b>周" 即可，
	// "第1-5周"、"1-5周上课" 都取 1-5
	rangeWeekMatcher = weekClauseMatcher{
		name:    "range",
		pattern: regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*周`),
		extract: func(groups []string) (int, int, bool) {
			start, err := strconv.Atoi(groups[1])
			if err != nil {
				return 0, 0, false
			}
			end, err := strconv.Atoi(groups[2])
			if err != nil {
				return 0, 0, false
			}
			return start, end, true
		},
	}

	// singleWeekMatcher "6周"：整句只能是一个数字加 "周"，
	// "6周abc" 之类带尾随内容的子句直接丢弃，不做部分解析
	singleWeekMatcher = weekClauseMatcher{
		name:    "single",
		pattern: regexp.MustCompile(`^(\d+)\s*周$`),
		extract: func(groups []string) (int, int, bool) {
			n, err := strconv.Atoi(groups[1])
			if err != nil {
				return 0, 0, false
			}
			return n, n, true
		},
	}

	weekClauseMatchers = []weekClauseMatcher{rangeWeekMatcher, singleWeekMatcher}
)

// weekParity 单双周过滤
type weekParity int

const (
	parityAll weekParity = iota
	parityOdd
	parityEven
	parityNone // 同时标注单、双周：不产生任何周次
)

func (p weekParity) accept(week int) bool {
	switch p {
	case parityOdd:
		return week%2 == 1
	case parityEven:
		return week%2 == 0
	case parityNone:
		return false
	default:
		return true
	}
}

// splitParity 识别并剥离子句中的单双周标记
func splitParity(clause string) (string, weekParity) {
	odd := strings.Contains(clause, oddWeekMarker)
	even := strings.Contains(clause, evenWeekMarker)
	body := strings.TrimSpace(strings.NewReplacer(oddWeekMarker, "", evenWeekMarker, "").Replace(clause))

	switch {
	case odd && even:
		return body, parityNone
	case odd:
		return body, parityOdd
	case even:
		return body, parityEven
	default:
		return body, parityAll
	}
}

// parseWeekClause 解析单个子句，返回该子句贡献的周次（未排序）
func parseWeekClause(clause string) []int {
	// 部分学校返回全角括号、数字或连字符，统一为半角后再匹配
	body, parity := splitParity(width.Narrow.String(strings.TrimSpace(clause)))
	if body == "" {
		return nil
	}

	for _, m := range weekClauseMatchers {
		start, end, ok := m.match(body)
		if !ok {
			continue
		}
		// start > end 时循环不执行，该子句不贡献任何周次
		if end > maxWeekNumber {
			return nil
		}
		var weeks []int
		for w := start; w <= end; w++ {
			if w >= 1 && parity.accept(w) {
				weeks = append(weeks, w)
			}
		}
		return weeks
	}
	return nil
}

// ParseWeeks 解析周次描述，返回升序、去重的周次列表
// 空描述或无法识别的描述返回空列表（非 nil）
func ParseWeeks(descriptor string) []int {
	weeks := []int{}
	if strings.TrimSpace(descriptor) == "" {
		return weeks
	}

	for _, clause := range strings.Split(descriptor, ",") {
		weeks = append(weeks, parseWeekClause(clause)...)
	}

	weeks = lo.Uniq(weeks)
	sort.Ints(weeks)
	return weeks
}

// FormatWeeks 将周次列表压缩为 zcd 形式的描述（ParseWeeks 的逆运算）
// 连续周次合并为 "a-b周"，孤立周次写作 "n周"，子句以逗号连接
func FormatWeeks(weeks []int) string {
	sorted := lo.Uniq(lo.Filter(weeks, func(w int, _ int) bool { return w >= 1 }))
	sort.Ints(sorted)

	var clauses []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		if i == j {
			clauses = append(clauses, strconv.Itoa(sorted[i])+"周")
		} else {
			clauses = append(clauses, strconv.Itoa(sorted[i])+"-"+strconv.Itoa(sorted[j])+"周")
		}
		i = j + 1
	}
	return strings.Join(clauses, ",")
}

// deriveWeekType 根据 weeks 数组推导 week_type 冗余字段
func deriveWeekType(weeks []int) string {
	if len(weeks) == 0 {
		return "all"
	}
	allOdd, allEven := true, true
	for _, w := range weeks {
		if w%2 == 0 {
			allOdd = false
		} else {
			allEven = false
		}
	}
	if allOdd {
		return "odd"
	}
	if allEven {
		return "even"
	}
	return "all"
}
