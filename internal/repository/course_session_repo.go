package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kredenk/shiguang-warehouse/internal/model"
)

// CourseSessionRepository 课程会话数据访问接口
type CourseSessionRepository interface {
	// ListByOwnerAndTerm 按导入顺序（seq）返回某学年学期的课程
	ListByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string) ([]model.CourseSession, error)
	CountByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string) (int64, error)
	// ReplaceByOwnerAndTerm 在事务中全量替换课程：删除旧数据 → 批量插入 → 写入导入记录
	ReplaceByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string, sessions []model.CourseSession, record *model.ImportRecord) error
}

type courseSessionRepo struct {
	db *gorm.DB
}

// NewCourseSessionRepo 创建 CourseSessionRepository 实例
func NewCourseSessionRepo(db *gorm.DB) CourseSessionRepository {
	return &courseSessionRepo{db: db}
}

func (r *courseSessionRepo) ListByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND academic_year = ? AND semester = ?", ownerID, academicYear, semester).
		Order("seq ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *courseSessionRepo) CountByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseSession{}).
		Where("owner_id = ? AND academic_year = ? AND semester = ?", ownerID, academicYear, semester).
		Count(&count).Error
	return count, err
}

func (r *courseSessionRepo) ReplaceByOwnerAndTerm(ctx context.Context, ownerID, academicYear, semester string, sessions []model.CourseSession, record *model.ImportRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 替换场景直接硬删除
		if err := tx.Where("owner_id = ? AND academic_year = ? AND semester = ?", ownerID, academicYear, semester).
			Delete(&model.CourseSession{}).Error; err != nil {
			return err
		}
		if len(sessions) > 0 {
			if err := tx.CreateInBatches(&sessions, 200).Error; err != nil {
				return err
			}
		}
		if record != nil {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
