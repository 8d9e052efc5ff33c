package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
)

// ── 教务系统接口错误 ──

var (
	ErrJwxtRequestFailed   = errors.New("教务系统请求失败")
	ErrJwxtLoginRequired   = errors.New("导入失败：请先登录教务系统！")
	ErrInvalidSemester     = errors.New("学期选择无效")
	ErrInvalidAcademicYear = errors.New("请输入四位数字的学年！")
)

// 学期下标 → 正方学期码
var semesterCodes = []string{"3", "12"}

const defaultJwxtMaxBody = 2 << 20

var academicYearPattern = regexp.MustCompile(`^\d{4}$`)

// SemesterCode 学期下标转学期码：0 → "3"（第一学期），1 → "12"（第二学期）
func SemesterCode(index int) (string, error) {
	if index < 0 || index >= len(semesterCodes) {
		return "", ErrInvalidSemester
	}
	return semesterCodes[index], nil
}

// ValidateAcademicYear 学年必须恰好是四位数字，如 "2024"
func ValidateAcademicYear(year string) error {
	if !academicYearPattern.MatchString(year) {
		return ErrInvalidAcademicYear
	}
	return nil
}

// JwxtFetchRequest 个人课表查询参数
type JwxtFetchRequest struct {
	AcademicYear string // xnm
	SemesterCode string // xqm
	Cookie       string // 已登录会话的 Cookie 原文
}

// JwxtClient 正方教务系统客户端
//
// 不负责登录：调用方提供已登录会话的 Cookie。
type JwxtClient interface {
	// FetchTimetable 查询个人课表，返回响应原文（期望为含 kbList 的 JSON）
	FetchTimetable(ctx context.Context, req JwxtFetchRequest) ([]byte, error)
	// IsLoginPage 判断 URL 是否为登录页
	IsLoginPage(rawURL string) bool
}

type jwxtClient struct {
	cfg    *config.JwxtConfig
	http   *http.Client
	logger *zap.Logger
}

// NewJwxtClient 创建教务系统客户端
func NewJwxtClient(cfg *config.JwxtConfig, logger *zap.Logger) JwxtClient {
	return &jwxtClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// IsLoginPage 与配置的登录页地址精确比较
func (c *jwxtClient) IsLoginPage(rawURL string) bool {
	return rawURL == c.cfg.LoginURL()
}

// FetchTimetable POST xnm=<学年>&xqm=<学期码> 到课表查询接口
//
// 会话失效时教务系统会重定向到登录页，此时返回 ErrJwxtLoginRequired；
// 非 2xx 状态码返回 ErrJwxtRequestFailed。响应体超过 max_body_bytes 时返回 ErrJwxtRequestFailed。
func (c *jwxtClient) FetchTimetable(ctx context.Context, req JwxtFetchRequest) ([]byte, error) {
	form := url.Values{}
	form.Set("xnm", req.AcademicYear)
	form.Set("xqm", req.SemesterCode)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TimetableURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJwxtRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if req.Cookie != "" {
		httpReq.Header.Set("Cookie", req.Cookie)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("教务系统请求失败", zap.String("url", c.cfg.TimetableURL()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrJwxtRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.Request != nil && resp.Request.URL != nil && c.IsLoginPage(stripQuery(resp.Request.URL)) {
		return nil, ErrJwxtLoginRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("教务系统返回异常状态码", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: 状态码 %d", ErrJwxtRequestFailed, resp.StatusCode)
	}

	limit := c.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = defaultJwxtMaxBody
	}
	// 多读 1 字节以识别超限响应
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应失败: %v", ErrJwxtRequestFailed, err)
	}
	if int64(len(body)) > limit {
		c.logger.Warn("教务系统响应超过上限", zap.Int64("limit", limit))
		return nil, fmt.Errorf("%w: 响应过大（超过 %d 字节）", ErrJwxtRequestFailed, limit)
	}

	c.logger.Debug("教务系统课表响应",
		zap.String("xnm", req.AcademicYear),
		zap.String("xqm", req.SemesterCode),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// stripQuery 去掉查询串与片段，登录页重定向常带 ?language=zh_CN 等参数
func stripQuery(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.Fragment = ""
	return clean.String()
}
