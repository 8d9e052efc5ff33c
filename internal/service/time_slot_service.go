package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/model"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
)

// ── 作息时间模块业务错误 ──

var (
	ErrTimeSlotRegimeNotFound = errors.New("作息方案不存在")
	ErrTimeSlotEmpty          = errors.New("时间段为空，未导入时间段信息")
)

// TimeSlotService 作息时间业务接口
type TimeSlotService interface {
	// ListPresets 全部内置作息方案
	ListPresets() []dto.PresetResponse
	// GetPreset 指定作息方案
	GetPreset(regime string) (*dto.PresetResponse, error)
	// ApplyPreset 将作息方案保存为当前用户的节次时间
	ApplyPreset(ctx context.Context, ownerID string, req *dto.ApplyPresetRequest) (*dto.MyTimeSlotsResponse, error)
	// GetMyTimeSlots 当前用户已保存的节次时间；未保存时返回空列表
	GetMyTimeSlots(ctx context.Context, ownerID string) (*dto.MyTimeSlotsResponse, error)
}

type timeSlotService struct {
	repo          *repository.Repository
	defaultRegime TimeSlotRegime
	logger        *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
// defaultRegime 用于请求既未指定方案也未指定下标的情况
func NewTimeSlotService(repo *repository.Repository, defaultRegime TimeSlotRegime, logger *zap.Logger) TimeSlotService {
	if !defaultRegime.Valid() {
		defaultRegime = RegimeStandard
	}
	return &timeSlotService{repo: repo, defaultRegime: defaultRegime, logger: logger}
}

// ────────────────────── ListPresets ──────────────────────

func (s *timeSlotService) ListPresets() []dto.PresetResponse {
	result := make([]dto.PresetResponse, 0, len(Regimes))
	for _, r := range Regimes {
		slots, _ := PresetTimeSlots(r)
		result = append(result, dto.PresetResponse{Regime: string(r), Label: r.Label(), Slots: slots})
	}
	return result
}

// ────────────────────── GetPreset ──────────────────────

func (s *timeSlotService) GetPreset(regime string) (*dto.PresetResponse, error) {
	r := TimeSlotRegime(regime)
	slots, ok := PresetTimeSlots(r)
	if !ok {
		return nil, ErrTimeSlotRegimeNotFound
	}
	return &dto.PresetResponse{Regime: regime, Label: r.Label(), Slots: slots}, nil
}

// ────────────────────── ApplyPreset ──────────────────────

func (s *timeSlotService) ApplyPreset(ctx context.Context, ownerID string, req *dto.ApplyPresetRequest) (*dto.MyTimeSlotsResponse, error) {
	regime, err := s.resolveRegime(ownerID, req)
	if err != nil {
		return nil, err
	}

	slots, _ := PresetTimeSlots(regime)
	if len(slots) == 0 {
		s.logger.Warn("时间段为空，未导入时间段信息", zap.String("regime", string(regime)))
		return nil, ErrTimeSlotEmpty
	}

	rows := make([]model.PresetTimeSlot, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, model.PresetTimeSlot{
			OwnerID:   ownerID,
			Number:    slot.Number,
			Regime:    string(regime),
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	if err := s.repo.PresetTimeSlot.ReplaceByOwner(ctx, ownerID, rows); err != nil {
		s.logger.Error("保存作息时间失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("作息时间已保存",
		zap.String("owner_id", ownerID),
		zap.String("regime", string(regime)),
		zap.Int("slots", len(rows)),
	)

	return &dto.MyTimeSlotsResponse{Regime: string(regime), Slots: slots}, nil
}

// ────────────────────── GetMyTimeSlots ──────────────────────

func (s *timeSlotService) GetMyTimeSlots(ctx context.Context, ownerID string) (*dto.MyTimeSlotsResponse, error) {
	rows, err := s.repo.PresetTimeSlot.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("查询作息时间失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	resp := &dto.MyTimeSlotsResponse{Slots: toPresetSlots(rows)}
	if len(rows) > 0 {
		resp.Regime = rows[0].Regime
	}
	return resp, nil
}

// ── 内部辅助方法 ──

// resolveRegime 方案名优先；其次按界面下标，取消或越界回退为非夏季作息
func (s *timeSlotService) resolveRegime(ownerID string, req *dto.ApplyPresetRequest) (TimeSlotRegime, error) {
	if req.Regime != "" {
		r := TimeSlotRegime(req.Regime)
		if !r.Valid() {
			return "", ErrTimeSlotRegimeNotFound
		}
		return r, nil
	}
	if req.Index != nil {
		r, fallback := RegimeFromIndex(*req.Index)
		if fallback {
			s.logger.Warn("作息时间选择失败/取消，使用非夏季作息作为默认值",
				zap.String("owner_id", ownerID),
				zap.Int("index", *req.Index),
			)
		}
		return r, nil
	}
	return s.defaultRegime, nil
}

func toPresetSlots(rows []model.PresetTimeSlot) []dto.PresetTimeSlot {
	slots := make([]dto.PresetTimeSlot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, dto.PresetTimeSlot{Number: r.Number, StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return slots
}
