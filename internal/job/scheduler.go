package job

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
)

const (
	pruneJobName = "prune import records"
	// 每天凌晨清理，避开选课与导入高峰
	pruneHour, pruneMinute = 3, 30
	pruneTimeout           = time.Minute
)

// HistoryPruner 导入记录清理（由 service.ImportService 实现）
type HistoryPruner interface {
	PruneHistory(ctx context.Context, retention time.Duration) (int64, error)
}

var _ HistoryPruner = service.ImportService(nil)

// Scheduler 后台定时任务
type Scheduler struct {
	scheduler gocron.Scheduler
	pruner    HistoryPruner
	retention time.Duration
	logger    *zap.Logger
}

// NewScheduler 创建定时任务调度器；retention <= 0 时不注册清理任务
func NewScheduler(cfg *config.ImportConfig, pruner HistoryPruner, logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(campusLocation()))
	if err != nil {
		return nil, fmt.Errorf("创建定时任务调度器失败: %w", err)
	}

	sch := &Scheduler{
		scheduler: s,
		pruner:    pruner,
		retention: cfg.RecordRetention,
		logger:    logger,
	}

	if sch.retention > 0 {
		_, err = s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(pruneHour, pruneMinute, 0))),
			gocron.NewTask(sch.RunPrune),
			gocron.WithName(pruneJobName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("注册清理任务失败: %w", err)
		}
	}

	return sch, nil
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	s.scheduler.Start()
	for _, j := range s.scheduler.Jobs() {
		s.logger.Info("定时任务已启动", zap.String("job", j.Name()), zap.Duration("retention", s.retention))
	}
}

// Shutdown 停止调度并等待运行中的任务结束
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// RunPrune 执行一次导入记录清理
func (s *Scheduler) RunPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	n, err := s.pruner.PruneHistory(ctx, s.retention)
	if err != nil {
		s.logger.Error("定时清理导入记录失败", zap.Error(err))
		return
	}
	s.logger.Info("定时清理导入记录完成", zap.Int64("deleted", n))
}

func campusLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}
