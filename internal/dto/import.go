package dto

import (
	"encoding/json"
	"time"
)

// ── 导入 ──

// ImportPayloadRequest 直接上传 kbList JSON 导入
type ImportPayloadRequest struct {
	AcademicYear string          `json:"academic_year" binding:"required"`
	Semester     *int            `json:"semester"      binding:"required,min=0,max=1"` // 0=第一学期 1=第二学期
	Payload      json.RawMessage `json:"payload"       binding:"required"`
}

// JwxtImportRequest 从教务系统抓取并导入
type JwxtImportRequest struct {
	AcademicYear string `json:"academic_year" binding:"required"`
	Semester     *int   `json:"semester"      binding:"required,min=0,max=1"`
	Cookie       string `json:"cookie"        binding:"required"` // 已登录教务系统的会话 Cookie
	Refresh      bool   `json:"refresh"`                          // true 时忽略缓存重新抓取
}

// ImportResponse 导入结果
type ImportResponse struct {
	ImportID     string         `json:"import_id"`
	AcademicYear string         `json:"academic_year"`
	Semester     string         `json:"semester"` // 学期码 3 | 12
	Source       string         `json:"source"`
	RawCount     int            `json:"raw_count"`
	SessionCount int            `json:"session_count"`
	SkippedCount int            `json:"skipped_count"`
	Sessions     []SessionEntry `json:"sessions"`
}

// PreviewResponse 仅解析不入库的预览结果
type PreviewResponse struct {
	RawCount     int            `json:"raw_count"`
	SessionCount int            `json:"session_count"`
	SkippedCount int            `json:"skipped_count"`
	Sessions     []SessionEntry `json:"sessions"`
}

// ImportRecordResponse 导入历史条目
type ImportRecordResponse struct {
	ImportID     string    `json:"import_id"`
	AcademicYear string    `json:"academic_year"`
	Semester     string    `json:"semester"`
	Source       string    `json:"source"`
	RawCount     int       `json:"raw_count"`
	SessionCount int       `json:"session_count"`
	SkippedCount int       `json:"skipped_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ImportListRequest 导入历史分页参数
type ImportListRequest struct {
	PaginationRequest
}

// ── 已导入课程 ──

// TermQuery 学年 + 学期查询参数
type TermQuery struct {
	AcademicYear string `form:"academic_year" binding:"required"`
	Semester     *int   `form:"semester"      binding:"required,min=0,max=1"`
}

// SessionResponse 已入库课程条目
type SessionResponse struct {
	ID string `json:"id"`
	SessionEntry
	WeekType string `json:"week_type"`
	Source   string `json:"source"`
}

// SessionListResponse 已入库课程列表
type SessionListResponse struct {
	AcademicYear string            `json:"academic_year"`
	Semester     string            `json:"semester"`
	Sessions     []SessionResponse `json:"sessions"`
}
