package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	CourseSession  CourseSessionRepository
	PresetTimeSlot PresetTimeSlotRepository
	ImportRecord   ImportRecordRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CourseSession:  NewCourseSessionRepo(db),
		PresetTimeSlot: NewPresetTimeSlotRepo(db),
		ImportRecord:   NewImportRecordRepo(db),
	}
}
