package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zerowaste-backend/internal/api"
	"zerowaste-backend/internal/api/ws"
	"zerowaste-backend/internal/core/pantry"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/core/recommend"
	"zerowaste-backend/internal/core/user"
	"zerowaste-backend/internal/infrastructure/bus"
	"zerowaste-backend/internal/infrastructure/config"
	"zerowaste-backend/internal/infrastructure/mail"
	"zerowaste-backend/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.String("request_topic", cfg.Redis.RequestTopic),
		zap.String("response_topic", cfg.Redis.ResponseTopic),
	)

	// 初始化訊息匯流排
	messageBus, err := bus.New(&cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize message bus", zap.Error(err))
	}
	defer messageBus.Close()

	// 初始化儲存層
	recipes := recipe.NewMemory()
	if cfg.Seed.File != "" {
		if err := recipes.LoadSeed(cfg.Seed.File); err != nil {
			common.LogError("Failed to load seed data", zap.Error(err))
			os.Exit(1)
		}
	}
	profiles := user.NewMemory()
	pantryStore := pantry.NewMemory()
	ratingRepo := rating.NewMemory()

	// 初始化核心服務
	ratingService := rating.NewService(ratingRepo, recipes)
	cache := recommend.NewCache()
	hub := ws.NewHub()
	requester := recommend.NewRequester(profiles, ratingService, pantryStore, messageBus)
	views := recommend.NewViews(cache, requester, recipes, ratingService)

	// 訂閱推薦回覆
	ingress := recommend.NewIngress(cache, hub)
	messageBus.Subscribe(context.Background(), ingress.HandleReply)

	// 每日到期提醒
	mailClient := mail.New(&cfg.Mail)
	if cfg.Planner.Enabled {
		planner := pantry.NewPlanner(pantryStore, mailClient, cfg.Planner.Interval)
		planner.Start()
		defer planner.Stop()
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, views, ratingService, hub)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
