package handler

import "github.com/Kredenk/shiguang-warehouse/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Import   *ImportHandler
	TimeSlot *TimeSlotHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Import:   NewImportHandler(svc.Import),
		TimeSlot: NewTimeSlotHandler(svc.TimeSlot),
		Export:   NewExportHandler(svc.Export),
	}
}
