package service

import (
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Import   ImportService
	TimeSlot TimeSlotService
	Export   ExportService
}

// NewService 创建 Service 聚合
// cache 为 nil 时教务抓取不走缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwxt JwxtClient,
	cache PayloadCache,
	logger *zap.Logger,
) *Service {
	regime := TimeSlotRegime(cfg.Import.DefaultRegime)
	return &Service{
		Import:   NewImportService(repo, jwxt, cache, cfg.Redis.PayloadTTL, logger),
		TimeSlot: NewTimeSlotService(repo, regime, logger),
		Export:   NewExportService(repo, regime, logger),
	}
}
