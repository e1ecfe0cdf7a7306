package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/api/handler"
	"github.com/kuomat/penn-labs/internal/api/middleware"
	"github.com/kuomat/penn-labs/internal/api/router"
	"github.com/kuomat/penn-labs/internal/repository"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/database"
	"github.com/kuomat/penn-labs/pkg/jwt"
	applogger "github.com/kuomat/penn-labs/pkg/logger"
	"github.com/kuomat/penn-labs/pkg/redis"
	"github.com/kuomat/penn-labs/pkg/session"
	"github.com/kuomat/penn-labs/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
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
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 会话存储：配置了 Redis 则使用 Redis，连接失败时降级为进程内存储
	var (
		rdb   *redis.Client
		store session.Store
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，会话与限流降级为进程内实现", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		store = rdb
	} else {
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, jwt.NewManager(&cfg.Auth))

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	files := storage.New(cfg.Storage.Root)
	svc := service.NewService(cfg, repo, sessions, files, logger)
	h := handler.NewHandler(cfg, svc)

	// 6. 初始化路由
	limiter := middleware.NewIPRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	engine := router.Setup(cfg, h, sessions, rdb, limiter, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go cleanupLimiter(ctx, limiter, cfg.Auth.LoginRateWindow)

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// cleanupLimiter 定期清理长时间未访问的 IP 限流条目
func cleanupLimiter(ctx context.Context, limiter *middleware.IPRateLimiter, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(window * 3)
		}
	}
}
