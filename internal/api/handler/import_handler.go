package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	"github.com/Kredenk/shiguang-warehouse/pkg/response"
)

// ImportHandler 课表导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// Preview 解析 kbList JSON 但不入库
// POST /api/v1/imports/preview  (body: 教务系统原始响应)
func (h *ImportHandler) Preview(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, response.CodeValidation, "读取请求体失败")
		return
	}

	resp, err := h.importSvc.Preview(c.Request.Context(), raw)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.OK(c, resp)
}

// ImportPayload 导入上传的 kbList JSON
// POST /api/v1/imports
func (h *ImportHandler) ImportPayload(c *gin.Context) {
	var req dto.ImportPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	resp, err := h.importSvc.ImportPayload(c.Request.Context(), ownerID, &req)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Created(c, resp)
}

// ImportFromJwxt 使用教务会话抓取并导入
// POST /api/v1/imports/jwxt
func (h *ImportHandler) ImportFromJwxt(c *gin.Context) {
	var req dto.JwxtImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	resp, err := h.importSvc.ImportFromJwxt(c.Request.Context(), ownerID, &req)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Created(c, resp)
}

// ListImports 导入历史
// GET /api/v1/imports
func (h *ImportHandler) ListImports(c *gin.Context) {
	var req dto.ImportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, "参数校验失败")
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	items, total, err := h.importSvc.ListImports(c.Request.Context(), ownerID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// ListSessions 已导入课程
// GET /api/v1/sessions?academic_year=2024&semester=0
func (h *ImportHandler) ListSessions(c *gin.Context) {
	var q dto.TermQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Invalid(c, err)
		return
	}

	ownerID, ok := MustGetOwnerID(c)
	if !ok {
		return
	}

	resp, err := h.importSvc.ListSessions(c.Request.Context(), ownerID, &q)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleImportError 统一处理导入模块业务错误
func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAcademicYear):
		response.BadRequest(c, 17001, service.ErrInvalidAcademicYear.Error())
	case errors.Is(err, service.ErrInvalidSemester):
		response.BadRequest(c, 17002, service.ErrInvalidSemester.Error())
	case errors.Is(err, service.ErrKbPayloadNotJSON):
		response.Unprocessable(c, 17003, service.ErrKbPayloadNotJSON.Error())
	case errors.Is(err, service.ErrImportNoCourses):
		response.Unprocessable(c, 17004, service.ErrImportNoCourses.Error())
	case errors.Is(err, service.ErrJwxtLoginRequired):
		response.Unprocessable(c, 17005, service.ErrJwxtLoginRequired.Error())
	case errors.Is(err, service.ErrJwxtRequestFailed):
		response.BadGateway(c, 17006, "请求或解析失败", err.Error())
	default:
		response.InternalError(c)
	}
}
