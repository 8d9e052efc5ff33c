package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	"github.com/Kredenk/shiguang-warehouse/pkg/response"
)

// TimeSlotHandler 作息时间模块 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// ListPresets 内置作息方案
// GET /api/v1/time-slots/presets
func (h *TimeSlotHandler) ListPresets(c *gin.Context) {
	response.OK(c, gin.H{"list": h.timeSlotSvc.ListPresets()})
}

// GetPreset 指定作息方案
// GET /api/v1/time-slots/presets/:regime
func (h *TimeSlotHandler) GetPreset(c *gin.Context) {
	preset, err := h.timeSlotSvc.GetPreset(c.Param("regime"))
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}
	response.OK(c, preset)
}

// ApplyPreset 保存作息方案为当前用户的节次时间
// PUT /api/v1/time-slots
func (h *TimeSlotHandler) ApplyPreset(c *gin.Context) {
	var req dto.ApplyPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	resp, err := h.timeSlotSvc.ApplyPreset(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// GetMyTimeSlots 当前用户的节次时间
// GET /api/v1/time-slots
func (h *TimeSlotHandler) GetMyTimeSlots(c *gin.Context) {
	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	resp, err := h.timeSlotSvc.GetMyTimeSlots(c.Request.Context(), ownerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleTimeSlotError 统一处理作息时间模块业务错误
func (h *TimeSlotHandler) handleTimeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeSlotRegimeNotFound):
		response.NotFound(c, 18001, "作息方案不存在")
	case errors.Is(err, service.ErrTimeSlotEmpty):
		response.BadRequest(c, 18002, "警告：时间段为空，未导入时间段信息")
	default:
		response.InternalError(c)
	}
}
