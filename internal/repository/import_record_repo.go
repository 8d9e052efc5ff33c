package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Kredenk/shiguang-warehouse/internal/model"
)

// ImportRecordRepository 导入记录数据访问接口
type ImportRecordRepository interface {
	// ListByOwner 分页查询导入历史，最新的在前
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.ImportRecord, int64, error)
	// DeleteSupersededBefore 删除早于 before 且已没有课程引用的导入记录，返回删除条数
	DeleteSupersededBefore(ctx context.Context, before time.Time) (int64, error)
}

type importRecordRepo struct {
	db *gorm.DB
}

// NewImportRecordRepo 创建 ImportRecordRepository 实例
func NewImportRecordRepo(db *gorm.DB) ImportRecordRepository {
	return &importRecordRepo{db: db}
}

func (r *importRecordRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.ImportRecord, int64, error) {
	var records []model.ImportRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ImportRecord{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

func (r *importRecordRepo) DeleteSupersededBefore(ctx context.Context, before time.Time) (int64, error) {
	live := r.db.Model(&model.CourseSession{}).Select("import_id")
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Where("import_id NOT IN (?)", live).
		Delete(&model.ImportRecord{})
	return result.RowsAffected, result.Error
}
