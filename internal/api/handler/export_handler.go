package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	"github.com/Kredenk/shiguang-warehouse/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 导出课表 Excel
// GET /api/v1/export/xlsx?academic_year=2024&semester=0
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	var q dto.TermQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSessionsXLSX(c.Request.Context(), ownerID, &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportICS 导出课表 iCalendar
// GET /api/v1/export/ics?academic_year=2024&semester=0&first_monday=2024-09-02
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.ExportICSRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportSessionsICS(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, contentTypeICS, filename, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSessions):
		response.NotFound(c, 19001, service.ErrExportNoSessions.Error())
	case errors.Is(err, service.ErrExportNoTimeSlots):
		response.BadRequest(c, 19002, service.ErrExportNoTimeSlots.Error())
	case errors.Is(err, service.ErrExportInvalidFirstMonday):
		response.BadRequest(c, 19003, service.ErrExportInvalidFirstMonday.Error())
	case errors.Is(err, service.ErrInvalidAcademicYear), errors.Is(err, service.ErrInvalidSemester):
		handleImportError(c, err)
	default:
		response.InternalError(c)
	}
}
