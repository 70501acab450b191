package app

import (
	"context"
	"net/http"

	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/middleware"
	"go-hris-workflow/internal/shared/connection"
	"go-hris-workflow/internal/shared/migration"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds what main needs after wiring: shutdown work and the hooks that
// close live streams.
type App struct {
	OnShutdown []func()
	closers    []func(ctx context.Context)
	logger     *zap.Logger
}

// Close runs cleanup in reverse registration order.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.logger.Info("app closed")
}

func (a *App) addCloser(f func(ctx context.Context)) {
	a.closers = append(a.closers, f)
}

func BuildApp(ctx context.Context, cfg config.Config, router *gin.Engine, logger *zap.Logger) (*App, error) {
	log := logger.Named("app")
	a := &App{logger: log}

	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 1. Setup Infrastructure
	var db *gorm.DB
	if cfg.StoreDriver == config.StoreDriverPostgres {
		var err error
		db, err = connection.ConnectGORMWithRetry(cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.addCloser(func(context.Context) { _ = sqlDB.Close() })

		if cfg.MigrateOnStart {
			if _, err := migration.Up(ctx, sqlDB, logger); err != nil {
				return nil, err
			}
		}
	} else {
		log.Warn("using in-memory store, data is lost on restart")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		var err error
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DB.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		a.addCloser(func(context.Context) { _ = rdb.Close() })
	}

	// 2. Register Modules & Routes
	if err := registerModules(ctx, a, cfg, router, db, rdb, logger); err != nil {
		return nil, err
	}

	log.Info("app built",
		zap.String("store", cfg.StoreDriver),
		zap.Bool("redis", rdb != nil),
		zap.Bool("kafka", cfg.KafkaBroker != ""),
	)
	return a, nil
}
