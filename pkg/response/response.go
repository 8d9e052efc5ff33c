package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// 通用业务码；各模块的业务码在 handler 层定义
const (
	CodeSuccess    = 0
	CodeValidation = 10001
	CodeInternal   = 50000
)

// requestIDKey 与 middleware.RequestID 写入的上下文键一致
const requestIDKey = "request_id"

// Envelope 所有 JSON 接口的外层结构
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页列表
type PageData struct {
	List       any        `json:"list"`
	Pagination Pagination `json:"pagination"`
}

func write(c *gin.Context, status int, env Envelope) {
	env.RequestID = c.GetString(requestIDKey)
	c.JSON(status, env)
}

// ── 成功 ──

// OK 200
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Envelope{Code: CodeSuccess, Message: "success", Data: data})
}

// Created 201，导入落库成功时使用
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Envelope{Code: CodeSuccess, Message: "success", Data: data})
}

// OKPage 200 分页列表；pageSize 由 dto.PaginationRequest 保证为正
func OKPage(c *gin.Context, list any, total int64, page, pageSize int) {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	OK(c, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: pages,
		},
	})
}

// ── 失败 ──

// Error 指定 HTTP 状态与业务码
func Error(c *gin.Context, status, code int, message string) {
	write(c, status, Envelope{Code: code, Message: message})
}

// ErrorWithDetails 附带排查信息（如上游错误、校验失败字段）
func ErrorWithDetails(c *gin.Context, status, code int, message, details string) {
	write(c, status, Envelope{Code: code, Message: message, Details: details})
}

// Invalid 400 参数校验失败，details 为绑定错误
func Invalid(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "参数校验失败", err.Error())
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Unprocessable 422 请求格式正确但课表内容无法使用
func Unprocessable(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnprocessableEntity, code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, code int, message string) {
	Error(c, http.StatusTooManyRequests, code, message)
}

// BadGateway 502 教务系统请求失败
func BadGateway(c *gin.Context, code int, message, details string) {
	ErrorWithDetails(c, http.StatusBadGateway, code, message, details)
}

// InternalError 500，不向客户端暴露内部错误
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}

// ── 文件下载 ──

// Attachment 以附件返回文件；文件名按 RFC 5987 编码以支持中文
func Attachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}
