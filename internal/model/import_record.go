package model

import "time"

// ImportRecord 导入记录表，对应 import_records（纯审计）
type ImportRecord struct {
	ImportID     string    `gorm:"type:uuid;primaryKey"               json:"import_id"`
	OwnerID      string    `gorm:"type:varchar(64);not null"          json:"owner_id"`
	AcademicYear string    `gorm:"type:varchar(4);not null"           json:"academic_year"`
	Semester     string    `gorm:"type:varchar(4);not null"           json:"semester"`
	Source       string    `gorm:"type:varchar(20);not null"          json:"source"`
	RawCount     int       `gorm:"not null;default:0"                 json:"raw_count"`
	SessionCount int       `gorm:"not null;default:0"                 json:"session_count"`
	SkippedCount int       `gorm:"not null;default:0"                 json:"skipped_count"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (ImportRecord) TableName() string { return "import_records" }
