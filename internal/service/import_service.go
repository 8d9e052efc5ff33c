package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/model"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
	"github.com/Kredenk/shiguang-warehouse/pkg/redis"
)

// ── 导入模块业务错误 ──

var (
	ErrImportNoCourses = errors.New("未找到任何课程数据，请检查所选学年学期是否正确或本学期无课，或教务系统需要二次登录")
)

// 课程来源
const (
	SourceUpload = "upload"
	SourceJwxt   = "jwxt"
)

// PayloadCache 教务原始响应缓存，由 pkg/redis.Client 实现
type PayloadCache interface {
	GetPayload(ctx context.Context, key string) ([]byte, bool, error)
	CachePayload(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// ── ImportService 接口 ─────────────────────────────────────
//
// 设计说明：
//   - 解析与规范化是纯函数（ParseWeeks / NormalizeCourses），本服务只负责编排
//   - 入库采用全量替换策略：同一用户、同一学年学期的课程在单个事务中
//     "删除旧数据 → 按规范化顺序插入 → 写入导入记录"
//   - 教务抓取结果按 (用户, 学年, 学期) 缓存到 Redis，refresh=true 时强制重新抓取
//   - Redis 不可用时（cache 为 nil）直接抓取
// ─────────────────────────────────────────────────────────────

// ImportService 课表导入业务接口
type ImportService interface {
	// Preview 仅解析，不入库
	Preview(ctx context.Context, raw []byte) (*dto.PreviewResponse, error)
	// ImportPayload 导入调用方上传的 kbList JSON
	ImportPayload(ctx context.Context, ownerID string, req *dto.ImportPayloadRequest) (*dto.ImportResponse, error)
	// ImportFromJwxt 使用调用方的教务会话抓取并导入
	ImportFromJwxt(ctx context.Context, ownerID string, req *dto.JwxtImportRequest) (*dto.ImportResponse, error)
	// ListSessions 已导入课程，按导入顺序
	ListSessions(ctx context.Context, ownerID string, q *dto.TermQuery) (*dto.SessionListResponse, error)
	// ListImports 导入历史，最新的在前
	ListImports(ctx context.Context, ownerID string, req *dto.ImportListRequest) ([]dto.ImportRecordResponse, int64, error)
	// PruneHistory 清理超过保留期且已被后续导入替换的导入记录
	PruneHistory(ctx context.Context, retention time.Duration) (int64, error)
}

type importService struct {
	repo       *repository.Repository
	jwxt       JwxtClient
	cache      PayloadCache
	payloadTTL time.Duration
	logger     *zap.Logger
}

// NewImportService 创建 ImportService 实例；cache 可为 nil
func NewImportService(repo *repository.Repository, jwxt JwxtClient, cache PayloadCache, payloadTTL time.Duration, logger *zap.Logger) ImportService {
	return &importService{
		repo:       repo,
		jwxt:       jwxt,
		cache:      cache,
		payloadTTL: payloadTTL,
		logger:     logger,
	}
}

// ════════════════════════════════════════════════════════════
// Preview
// ════════════════════════════════════════════════════════════

func (s *importService) Preview(_ context.Context, raw []byte) (*dto.PreviewResponse, error) {
	records, err := DecodeKbPayload(raw)
	if err != nil {
		return nil, err
	}
	result := NormalizeCoursesWithLogger(records, s.logger)
	return &dto.PreviewResponse{
		RawCount:     result.RawCount,
		SessionCount: len(result.Sessions),
		SkippedCount: result.Skipped,
		Sessions:     result.Sessions,
	}, nil
}

// ════════════════════════════════════════════════════════════
// ImportPayload
// ════════════════════════════════════════════════════════════

func (s *importService) ImportPayload(ctx context.Context, ownerID string, req *dto.ImportPayloadRequest) (*dto.ImportResponse, error) {
	code, err := resolveTerm(req.AcademicYear, req.Semester)
	if err != nil {
		return nil, err
	}

	records, err := DecodeKbPayload(req.Payload)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, ownerID, req.AcademicYear, code, SourceUpload, records)
}

// ════════════════════════════════════════════════════════════
// ImportFromJwxt
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 校验学年（四位数字）与学期下标，换算学期码
//   2. 读取缓存；未命中或 refresh 时请求教务系统
//   3. 响应不是 JSON → ErrKbPayloadNotJSON（会话过期），不写缓存
//   4. 解析 + 规范化 + 全量替换入库

func (s *importService) ImportFromJwxt(ctx context.Context, ownerID string, req *dto.JwxtImportRequest) (*dto.ImportResponse, error) {
	code, err := resolveTerm(req.AcademicYear, req.Semester)
	if err != nil {
		return nil, err
	}

	key := redis.PayloadKey(ownerID, req.AcademicYear, code)
	raw, hit := s.cachedPayload(ctx, key, req.Refresh)

	if !hit {
		raw, err = s.jwxt.FetchTimetable(ctx, JwxtFetchRequest{
			AcademicYear: req.AcademicYear,
			SemesterCode: code,
			Cookie:       req.Cookie,
		})
		if err != nil {
			s.logger.Warn("抓取教务课表失败",
				zap.String("owner_id", ownerID),
				zap.String("xnm", req.AcademicYear),
				zap.String("xqm", code),
				zap.Error(err),
			)
			return nil, err
		}
	}

	records, err := DecodeKbPayload(raw)
	if err != nil {
		s.logger.Info("教务响应不是 JSON，可能会话已过期", zap.String("owner_id", ownerID))
		return nil, err
	}

	if !hit {
		s.storePayload(ctx, key, raw)
	}

	return s.persist(ctx, ownerID, req.AcademicYear, code, SourceJwxt, records)
}

// ════════════════════════════════════════════════════════════
// ListSessions / ListImports
// ════════════════════════════════════════════════════════════

func (s *importService) ListSessions(ctx context.Context, ownerID string, q *dto.TermQuery) (*dto.SessionListResponse, error) {
	code, err := resolveTerm(q.AcademicYear, q.Semester)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.CourseSession.ListByOwnerAndTerm(ctx, ownerID, q.AcademicYear, code)
	if err != nil {
		s.logger.Error("查询课程失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, toSessionResponse(&sessions[i]))
	}

	return &dto.SessionListResponse{
		AcademicYear: q.AcademicYear,
		Semester:     code,
		Sessions:     items,
	}, nil
}

func (s *importService) ListImports(ctx context.Context, ownerID string, req *dto.ImportListRequest) ([]dto.ImportRecordResponse, int64, error) {
	records, total, err := s.repo.ImportRecord.ListByOwner(ctx, ownerID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询导入记录失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.ImportRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ImportRecordResponse{
			ImportID:     r.ImportID,
			AcademicYear: r.AcademicYear,
			Semester:     r.Semester,
			Source:       r.Source,
			RawCount:     r.RawCount,
			SessionCount: r.SessionCount,
			SkippedCount: r.SkippedCount,
			CreatedAt:    r.CreatedAt,
		})
	}
	return items, total, nil
}

// ════════════════════════════════════════════════════════════
// PruneHistory
// ════════════════════════════════════════════════════════════

func (s *importService) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	before := time.Now().Add(-retention)
	n, err := s.repo.ImportRecord.DeleteSupersededBefore(ctx, before)
	if err != nil {
		s.logger.Error("清理导入记录失败", zap.Error(err))
		return 0, err
	}
	s.logger.Info("清理导入记录", zap.Time("before", before), zap.Int64("deleted", n))
	return n, nil
}

// ── 内部辅助方法 ──

// persist 规范化并全量替换入库
func (s *importService) persist(ctx context.Context, ownerID, academicYear, code, source string, records []dto.RawCourseRecord) (*dto.ImportResponse, error) {
	result := NormalizeCoursesWithLogger(records, s.logger)
	if len(result.Sessions) == 0 {
		return nil, ErrImportNoCourses
	}

	importID := uuid.NewString()
	sessions := make([]model.CourseSession, 0, len(result.Sessions))
	for i, e := range result.Sessions {
		sessions = append(sessions, model.CourseSession{
			OwnerID:      ownerID,
			AcademicYear: academicYear,
			Semester:     code,
			Seq:          i,
			Name:         e.Name,
			Teacher:      e.Teacher,
			Position:     e.Position,
			DayOfWeek:    e.Day,
			StartSection: e.StartSection,
			EndSection:   e.EndSection,
			Weeks:        model.WeekList(e.Weeks),
			WeekType:     deriveWeekType(e.Weeks),
			Source:       source,
			ImportID:     importID,
		})
	}

	record := &model.ImportRecord{
		ImportID:     importID,
		OwnerID:      ownerID,
		AcademicYear: academicYear,
		Semester:     code,
		Source:       source,
		RawCount:     result.RawCount,
		SessionCount: len(result.Sessions),
		SkippedCount: result.Skipped,
	}

	if err := s.repo.CourseSession.ReplaceByOwnerAndTerm(ctx, ownerID, academicYear, code, sessions, record); err != nil {
		s.logger.Error("课程导入事务失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("课程导入失败: %w", err)
	}

	s.logger.Info("课程导入成功",
		zap.String("owner_id", ownerID),
		zap.String("import_id", importID),
		zap.String("xnm", academicYear),
		zap.String("xqm", code),
		zap.String("source", source),
		zap.Int("sessions", len(sessions)),
		zap.Int("skipped", result.Skipped),
	)

	return &dto.ImportResponse{
		ImportID:     importID,
		AcademicYear: academicYear,
		Semester:     code,
		Source:       source,
		RawCount:     result.RawCount,
		SessionCount: len(result.Sessions),
		SkippedCount: result.Skipped,
		Sessions:     result.Sessions,
	}, nil
}

// cachedPayload 读取缓存；缓存故障只记录日志，按未命中处理
func (s *importService) cachedPayload(ctx context.Context, key string, refresh bool) ([]byte, bool) {
	if s.cache == nil || refresh {
		return nil, false
	}
	raw, ok, err := s.cache.GetPayload(ctx, key)
	if err != nil {
		s.logger.Warn("读取课表缓存失败", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, ok
}

func (s *importService) storePayload(ctx context.Context, key string, raw []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CachePayload(ctx, key, raw, s.payloadTTL); err != nil {
		s.logger.Warn("写入课表缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// resolveTerm 校验学年并将学期下标换算为学期码
func resolveTerm(academicYear string, semester *int) (string, error) {
	if err := ValidateAcademicYear(academicYear); err != nil {
		return "", err
	}
	if semester == nil {
		return "", ErrInvalidSemester
	}
	return SemesterCode(*semester)
}

func toSessionResponse(m *model.CourseSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID: m.CourseSessionID,
		SessionEntry: dto.SessionEntry{
			Name:         m.Name,
			Teacher:      m.Teacher,
			Position:     m.Position,
			Day:          m.DayOfWeek,
			StartSection: m.StartSection,
			EndSection:   m.EndSection,
			Weeks:        []int(m.Weeks),
		},
		WeekType: m.WeekType,
		Source:   m.Source,
	}
}
