package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ── 正方教务 kbList 原始记录 ──

// FlexString 兼容字符串与数字的 JSON 字段
//
// 正方接口的 xqj 等字段在不同学校、不同版本中可能以 "1" 或 1 返回；
// null、对象、数组、布尔值一律视为缺失（空字符串），不报错，
// 以保证单条畸形记录不会导致整批解析失败。
// 布尔值有意不按 true=1 转换：xqj=true 的记录按缺少星期丢弃。
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(n.String())
	default:
		*f = ""
	}
	return nil
}

// String 返回原始文本
func (f FlexString) String() string { return string(f) }

// RawCourseRecord kbList 中的单条课程记录（字段名为正方接口固定词汇，不可更改）
type RawCourseRecord struct {
	Kcmc FlexString `json:"kcmc"` // 课程名称
	Xm   FlexString `json:"xm"`   // 教师姓名
	Cdmc FlexString `json:"cdmc"` // 场地（教室）名称
	Xqj  FlexString `json:"xqj"`  // 星期几：1=周一 … 7=周日
	Jcs  FlexString `json:"jcs"`  // 节次范围，如 "1-2" 或 "4"
	Zcd  FlexString `json:"zcd"`  // 周次描述，如 "1-16周" / "1-15周(单)"
}

// ── 规范化结果 ──

// SessionEntry 规范化后的课程会话，字段名与课表存储约定一致
type SessionEntry struct {
	Name         string `json:"name"`
	Teacher      string `json:"teacher"`
	Position     string `json:"position"`
	Day          int    `json:"day"`
	StartSection int    `json:"startSection"`
	EndSection   int    `json:"endSection"`
	Weeks        []int  `json:"weeks"`
}

// ToRawRecord 以 kbList 字段名还原为原始记录形态
// weeksDescriptor 由调用方提供（见 service.FormatWeeks）
func (e SessionEntry) ToRawRecord(weeksDescriptor string) RawCourseRecord {
	jcs := strconv.Itoa(e.StartSection)
	if e.EndSection != e.StartSection {
		jcs += "-" + strconv.Itoa(e.EndSection)
	}
	return RawCourseRecord{
		Kcmc: FlexString(e.Name),
		Xm:   FlexString(e.Teacher),
		Cdmc: FlexString(e.Position),
		Xqj:  FlexString(strconv.Itoa(e.Day)),
		Jcs:  FlexString(jcs),
		Zcd:  FlexString(weeksDescriptor),
	}
}
