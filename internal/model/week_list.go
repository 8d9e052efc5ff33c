package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekList 上课周次，落库为 PostgreSQL int[]（文本形式 {1,3,5}）。
// 写入方保证升序去重，读取时不再排序。
type WeekList []int

// Scan 实现 sql.Scanner
func (w *WeekList) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return fmt.Errorf("week list: cannot scan %T", src)
	}

	body, ok := strings.CutPrefix(strings.TrimSpace(text), "{")
	if ok {
		body, ok = strings.CutSuffix(body, "}")
	}
	if !ok {
		return fmt.Errorf("week list: malformed array literal %q", text)
	}

	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ' ' })
	weeks := make(WeekList, len(fields))
	for i, f := range fields {
		if strings.EqualFold(f, "NULL") {
			return fmt.Errorf("week list: NULL element at %d", i)
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("week list: element %q: %w", f, err)
		}
		weeks[i] = n
	}
	*w = weeks
	return nil
}

// Value 实现 driver.Valuer；nil 写为 SQL NULL，空切片写为 {}
func (w WeekList) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	buf := make([]byte, 0, 2+len(w)*3)
	buf = append(buf, '{')
	for i, n := range w {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	buf = append(buf, '}')
	return string(buf), nil
}

// Timestamps 创建/更新时间，嵌入各表模型
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
