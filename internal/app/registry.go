package app

import (
	"context"
	"sync"

	"go-hris-workflow/internal/approval"
	"go-hris-workflow/internal/authz"
	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/messaging/kafka/consumer"
	"go-hris-workflow/internal/notification"
	"go-hris-workflow/internal/request"
	"go-hris-workflow/internal/shared/connection"
	"go-hris-workflow/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	a *App,
	cfg config.Config,
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	defaults, err := cfg.DefaultApprovers()
	if err != nil {
		return err
	}

	// --- Repositories ---
	var (
		requestRepo request.Repository
		counterRepo counter.Repository
		outboxRepo  kafka.OutboxRepository
	)
	if db != nil {
		requestRepo = request.NewRepository(db)
		counterRepo = counter.NewRepository(db)
		outboxRepo = kafka.NewOutboxRepository(db)
	} else {
		requestRepo = request.NewMemoryRepository()
		counterRepo = counter.NewMemoryRepository()
	}

	// --- Authorization ---
	gate, err := authz.NewGate(logger)
	if err != nil {
		return err
	}
	verifier := authz.NewJWTVerifier(cfg.JWTSecret)

	// --- Notification ---
	hub := notification.NewHub(gate, cfg.NotifyBuffer, logger)
	a.OnShutdown = append(a.OnShutdown, hub.Close)
	hubEmitter := notification.NewHubEmitter(hub, logger)

	// Dengan Kafka, instance ini juga menerima event-nya sendiri lewat relay,
	// jadi hub tidak dipanggil langsung agar tidak terkirim dua kali.
	var emitter notification.Emitter = hubEmitter
	if cfg.KafkaBroker != "" && outboxRepo != nil {
		emitter = notification.NewOutboxEmitter(outboxRepo, "")
		startRelay(ctx, a, cfg, hubEmitter, logger)
	}
	async := notification.NewAsyncEmitter(emitter, cfg.NotifyTimeout, logger)
	a.addCloser(func(ctx context.Context) {
		if err := async.Wait(ctx); err != nil {
			logger.Warn("pending notifications abandoned", zap.Error(err))
		}
	})

	// --- Services ---
	requestService := request.NewService(requestRepo, counterRepo, gate, async, request.Config{
		DefaultApprovers: defaults,
		Engine:           approval.NewEngine(),
	}, logger)

	// --- Handlers ---
	requestHandler := request.NewHandler(requestService, logger)
	notificationHandler := notification.NewHandler(hub, cfg.SSEHeartbeat, logger)

	// --- Routes Registration ---
	opts := request.RouteOptions{
		Verifier:       verifier,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL,
		RatePerSecond:  rate.Limit(cfg.RatePerSecond),
		RateBurst:      cfg.RateBurst,
	}
	for _, group := range []*gin.RouterGroup{router.Group(""), router.Group("/api/v1")} {
		request.RegisterRoutes(group, requestHandler, opts)
		notification.RegisterRoutes(group, notificationHandler, verifier)
	}

	return nil
}

func startRelay(ctx context.Context, a *App, cfg config.Config, sink consumer.Sink, logger *zap.Logger) {
	reader := connection.NewRelayReader(cfg.KafkaBroker, cfg.KafkaRelayGroup)
	relayCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.RelayRequestLifecycle(relayCtx, reader, sink, logger)
	}()

	a.addCloser(func(context.Context) {
		cancel()
		wg.Wait()
		_ = reader.Close()
	})
}
