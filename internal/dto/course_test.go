package dto

import (
	"encoding/json"
	"testing"
)

func TestRawCourseRecord_UnmarshalMixedTypes(t *testing.T) {
	raw := `{"kcmc":"高等数学","xm":"张三","cdmc":"A101","xqj":3,"jcs":"1-2","zcd":"1-16周"}`
	var r RawCourseRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal 失败: %v", err)
	}
	if r.Xqj != "3" {
		t.Errorf("数字 xqj 应转为 \"3\", 实际 %q", r.Xqj)
	}
	if r.Kcmc != "高等数学" || r.Zcd != "1-16周" {
		t.Errorf("字符串字段解析错误: %+v", r)
	}
}

func TestFlexString_NonScalarTreatedAsMissing(t *testing.T) {
	raw := `{"kcmc":null,"xm":{"a":1},"cdmc":["x"],"xqj":true,"jcs":"1"}`
	var r RawCourseRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("非标量字段不应导致解析失败: %v", err)
	}
	if r.Kcmc != "" || r.Xm != "" || r.Cdmc != "" || r.Xqj != "" || r.Zcd != "" {
		t.Errorf("非标量字段应视为缺失: %+v", r)
	}
	if r.Jcs != "1" {
		t.Errorf("jcs = %q", r.Jcs)
	}
}

func TestSessionEntry_ToRawRecord(t *testing.T) {
	e := SessionEntry{Name: "体育", Teacher: "李四", Position: "操场", Day: 5, StartSection: 4, EndSection: 4, Weeks: []int{1}}
	r := e.ToRawRecord("1周")
	if r.Jcs != "4" {
		t.Errorf("单节次应还原为 \"4\", 实际 %q", r.Jcs)
	}
	if r.Xqj != "5" || r.Zcd != "1周" || r.Cdmc != "操场" {
		t.Errorf("还原结果错误: %+v", r)
	}

	e.EndSection = 5
	if got := e.ToRawRecord("1周").Jcs; got != "4-5" {
		t.Errorf("节次范围应还原为 \"4-5\", 实际 %q", got)
	}
}
