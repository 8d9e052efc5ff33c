package dto

// ExportICSRequest ICS 导出参数
type ExportICSRequest struct {
	TermQuery
	FirstMonday string `form:"first_monday" binding:"required"` // 第 1 周周一日期 YYYY-MM-DD
}
