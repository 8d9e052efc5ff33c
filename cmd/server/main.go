package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/api/handler"
	"github.com/Kredenk/shiguang-warehouse/internal/api/middleware"
	"github.com/Kredenk/shiguang-warehouse/internal/api/router"
	"github.com/Kredenk/shiguang-warehouse/internal/job"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	"github.com/Kredenk/shiguang-warehouse/pkg/database"
	"github.com/Kredenk/shiguang-warehouse/pkg/jwt"
	applogger "github.com/Kredenk/shiguang-warehouse/pkg/logger"
	"github.com/Kredenk/shiguang-warehouse/pkg/redis"
)

func main() {
	// 0. 本地开发时从 .env 注入 SHIGUANG_* 环境变量（文件不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，教务抓取将不缓存、不限流", zap.Error(err))
		rdb = nil
	}
	// 接口变量只在客户端可用时赋值，保证下游的 nil 判断成立
	var (
		cache   service.PayloadCache
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		cache, limiter = rdb, rdb
	}

	// 5. 初始化 JWT 管理器与教务系统客户端
	jwtMgr := jwt.NewManager(&cfg.Auth)
	jwxt := service.NewJwxtClient(&cfg.Jwxt, logger)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwxt, cache, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 8. 启动定时任务（清理被替换的导入记录）
	scheduler, err := job.NewScheduler(&cfg.Import, svc.Import, logger)
	if err != nil {
		logger.Fatal("初始化定时任务失败", zap.Error(err))
	}
	scheduler.Start()

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := scheduler.Shutdown(); err != nil {
		logger.Error("定时任务关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
