package dto

// PresetTimeSlot 节次时间，字段名与课表存储约定一致
type PresetTimeSlot struct {
	Number    int    `json:"number"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// PresetResponse 作息方案
type PresetResponse struct {
	Regime string           `json:"regime"` // standard | summer
	Label  string           `json:"label"`
	Slots  []PresetTimeSlot `json:"slots"`
}

// ApplyPresetRequest 选择作息方案
// Regime 与 Index 二选一；Index 对应界面上的选项下标（0=非夏季作息 1=夏季作息）
type ApplyPresetRequest struct {
	Regime string `json:"regime" binding:"omitempty,oneof=standard summer"`
	Index  *int   `json:"index"`
}

// MyTimeSlotsResponse 当前用户已保存的作息时间
type MyTimeSlotsResponse struct {
	Regime string           `json:"regime"`
	Slots  []PresetTimeSlot `json:"slots"`
}
