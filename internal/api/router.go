package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"zerowaste-backend/internal/api/handlers/health"
	recipeHandler "zerowaste-backend/internal/api/handlers/recipe"
	"zerowaste-backend/internal/api/middleware"
	"zerowaste-backend/internal/api/ws"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/core/recommend"
	"zerowaste-backend/internal/infrastructure/config"
	"zerowaste-backend/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, views *recommend.Views, ratings *rating.Service, hub *ws.Hub) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if views == nil || ratings == nil || hub == nil {
		return nil, fmt.Errorf("failed to setup router: service is nil")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-Email"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		// websocket 連線不能套用請求超時
		if c.FullPath() == "/ws/notifications/:channel" {
			c.Set("config", cfg)
			c.Next()
			return
		}

		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// 通知頻道
	router.GET("/ws/notifications/:channel", ws.Handler(hub))

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := recipeHandler.NewHandler(views, ratings)

		// 註冊食譜推薦相關路由
		recipeGroup := api.Group("/recipes")
		{
			// 推薦分頁
			recipeGroup.GET("", handler.HandleList)

			// 名稱搜尋
			recipeGroup.GET("/search", handler.HandleSearch)

			// 條件過濾
			recipeGroup.POST("/filter", handler.HandleFilter)

			// 評分 / 撤銷評分
			recipeGroup.POST("/rate", handler.HandleRate)

			// 強制重新請求推薦
			recipeGroup.GET("/refresh", handler.HandleRefresh)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
