package model

import (
	"reflect"
	"testing"
)

func TestWeekList_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    WeekList
		wantErr bool
	}{
		{"字节切片", []byte("{1,3,5}"), WeekList{1, 3, 5}, false},
		{"带空格", " {2, 4} ", WeekList{2, 4}, false},
		{"空数组", "{}", WeekList{}, false},
		{"SQL NULL", nil, nil, false},
		{"NULL 元素", "{1,NULL}", nil, true},
		{"非法元素", "{1,x}", nil, true},
		{"缺少花括号", "1,2", nil, true},
		{"不支持的类型", 42, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w WeekList
			err := w.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(w, tt.want) {
				t.Errorf("Scan() = %#v, 期望 %#v", w, tt.want)
			}
		})
	}
}

func TestWeekList_Value(t *testing.T) {
	tests := []struct {
		name string
		in   WeekList
		want any
	}{
		{"多个周次", WeekList{1, 2, 16}, "{1,2,16}"},
		{"空切片", WeekList{}, "{}"},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Value()
			if err != nil {
				t.Fatalf("Value 失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("Value() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestWeekList_RoundTrip(t *testing.T) {
	in := WeekList{1, 3, 5, 17}
	v, _ := in.Value()
	var out WeekList
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("往返结果 %v, 期望 %v", out, in)
	}
}
