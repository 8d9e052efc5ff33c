package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kredenk/shiguang-warehouse/internal/model"
)

// PresetTimeSlotRepository 用户作息时间数据访问接口
type PresetTimeSlotRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.PresetTimeSlot, error)
	// ReplaceByOwner 在事务中整体替换用户的节次时间
	ReplaceByOwner(ctx context.Context, ownerID string, slots []model.PresetTimeSlot) error
}

type presetTimeSlotRepo struct {
	db *gorm.DB
}

// NewPresetTimeSlotRepo 创建 PresetTimeSlotRepository 实例
func NewPresetTimeSlotRepo(db *gorm.DB) PresetTimeSlotRepository {
	return &presetTimeSlotRepo{db: db}
}

func (r *presetTimeSlotRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.PresetTimeSlot, error) {
	var slots []model.PresetTimeSlot
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *presetTimeSlotRepo) ReplaceByOwner(ctx context.Context, ownerID string, slots []model.PresetTimeSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).Delete(&model.PresetTimeSlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}
