package model

// PresetTimeSlot 预设作息时间表，对应 preset_time_slots
type PresetTimeSlot struct {
	OwnerID   string `gorm:"type:varchar(64);primaryKey"  json:"owner_id"`
	Number    int    `gorm:"type:smallint;primaryKey"     json:"number"` // 节次 1-10
	Regime    string `gorm:"type:varchar(10);not null"    json:"regime"` // standard | summer
	StartTime string `gorm:"type:varchar(5);not null"     json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null"     json:"end_time"`
	Timestamps
}

// TableName 指定表名
func (PresetTimeSlot) TableName() string { return "preset_time_slots" }
