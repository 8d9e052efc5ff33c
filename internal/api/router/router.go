package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/api/handler"
	"github.com/Kredenk/shiguang-warehouse/internal/api/middleware"
	"github.com/Kredenk/shiguang-warehouse/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时（Redis 不可用）教务抓取接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 课表导入模块
		imports := v1.Group("/imports")
		{
			imports.POST("/preview", h.Import.Preview)
			imports.POST("", h.Import.ImportPayload)
			imports.POST("/jwxt",
				middleware.RateLimit(limiter, cfg.Import.FetchRateLimit, cfg.Import.FetchRateWindow, logger),
				h.Import.ImportFromJwxt)
			imports.GET("", h.Import.ListImports)
		}

		// 已导入课程
		v1.GET("/sessions", h.Import.ListSessions)

		// 作息时间模块
		timeSlots := v1.Group("/time-slots")
		{
			timeSlots.GET("/presets", h.TimeSlot.ListPresets)
			timeSlots.GET("/presets/:regime", h.TimeSlot.GetPreset)
			timeSlots.PUT("", h.TimeSlot.ApplyPreset)
			timeSlots.GET("", h.TimeSlot.GetMyTimeSlots)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/xlsx", h.Export.ExportXLSX)
			export.GET("/ics", h.Export.ExportICS)
		}
	}

	return r
}
