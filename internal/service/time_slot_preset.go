package service

import (
	"github.com/Kredenk/shiguang-warehouse/internal/dto"
)

// TimeSlotRegime 作息方案
type TimeSlotRegime string

const (
	RegimeStandard TimeSlotRegime = "standard" // 非夏季作息
	RegimeSummer   TimeSlotRegime = "summer"   // 夏季作息
)

// Regimes 全部作息方案，顺序与界面选项下标一致
var Regimes = []TimeSlotRegime{RegimeStandard, RegimeSummer}

var regimeLabels = map[TimeSlotRegime]string{
	RegimeStandard: "非夏季作息",
	RegimeSummer:   "夏季作息",
}

// 两张节次时间表，只读；对外一律返回副本
var presetTables = map[TimeSlotRegime][]dto.PresetTimeSlot{
	RegimeStandard: {
		{Number: 1, StartTime: "10:05", EndTime: "10:50"},
		{Number: 2, StartTime: "11:00", EndTime: "11:45"},
		{Number: 3, StartTime: "12:10", EndTime: "12:55"},
		{Number: 4, StartTime: "13:05", EndTime: "13:50"},
		{Number: 5, StartTime: "16:05", EndTime: "16:50"},
		{Number: 6, StartTime: "17:00", EndTime: "17:45"},
		{Number: 7, StartTime: "18:10", EndTime: "18:55"},
		{Number: 8, StartTime: "19:05", EndTime: "19:50"},
		{Number: 9, StartTime: "21:00", EndTime: "21:45"},
		{Number: 10, StartTime: "21:55", EndTime: "22:40"},
	},
	RegimeSummer: {
		{Number: 1, StartTime: "09:35", EndTime: "10:20"},
		{Number: 2, StartTime: "10:30", EndTime: "11:15"},
		{Number: 3, StartTime: "11:40", EndTime: "12:25"},
		{Number: 4, StartTime: "12:35", EndTime: "13:20"},
		{Number: 5, StartTime: "16:35", EndTime: "17:20"},
		{Number: 6, StartTime: "17:30", EndTime: "18:15"},
		{Number: 7, StartTime: "18:40", EndTime: "19:25"},
		{Number: 8, StartTime: "19:35", EndTime: "20:20"},
		{Number: 9, StartTime: "21:30", EndTime: "22:15"},
		{Number: 10, StartTime: "22:25", EndTime: "23:10"},
	},
}

// Valid 是否为已知作息方案
func (r TimeSlotRegime) Valid() bool {
	_, ok := presetTables[r]
	return ok
}

// Label 作息方案显示名称
func (r TimeSlotRegime) Label() string {
	return regimeLabels[r]
}

// PresetTimeSlots 返回指定作息方案的节次时间副本
func PresetTimeSlots(regime TimeSlotRegime) ([]dto.PresetTimeSlot, bool) {
	table, ok := presetTables[regime]
	if !ok {
		return nil, false
	}
	out := make([]dto.PresetTimeSlot, len(table))
	copy(out, table)
	return out, true
}

// RegimeFromIndex 将界面选项下标映射为作息方案
// 0=非夏季 1=夏季；取消选择（-1）或越界时回退为非夏季，fallback=true
func RegimeFromIndex(index int) (regime TimeSlotRegime, fallback bool) {
	if index >= 0 && index < len(Regimes) {
		return Regimes[index], false
	}
	return RegimeStandard, true
}
