package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// OnShutdown dipanggil saat Shutdown mulai, untuk menutup koneksi long-lived (SSE, websocket)
	OnShutdown []func()
}

// ShutdownHook runs after the HTTP server stopped accepting requests.
type ShutdownHook func(ctx context.Context)

func NewHTTPServer(handler http.Handler, cfg ServerConfig) *http.Server {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	for _, f := range cfg.OnShutdown {
		server.RegisterOnShutdown(f)
	}
	return server
}

// StartHTTPServer menjalankan Gin server sampai SIGINT/SIGTERM, lalu shutdown dengan graceful.
func StartHTTPServer(
	router *gin.Engine,
	cfg ServerConfig,
	auditLogger AuditLogger,
	hooks ...ShutdownHook,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Serve(ctx, NewHTTPServer(router, cfg), cfg.ShutdownTimeout, auditLogger, hooks...); err != nil {
		zap.L().Fatal("ListenAndServe error", zap.Error(err))
	}
}

// Serve blocks until ctx is done or the listener fails. On ctx done the
// server is shut down within timeout and hooks run with the same deadline.
func Serve(
	ctx context.Context,
	server *http.Server,
	timeout time.Duration,
	auditLogger AuditLogger,
	hooks ...ShutdownHook,
) error {
	listenErr := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	auditLogger.Log(ctx, AuditLog{
		Action:  "SERVER_START",
		Message: "Server is starting",
		Meta:    map[string]any{"addr": server.Addr},
	})

	select {
	case err, ok := <-listenErr:
		if ok {
			return err
		}
	case <-ctx.Done():
	}

	cause := context.Cause(ctx)
	zap.L().Info("Shutdown signal received", zap.NamedError("cause", cause))
	auditLogger.Log(context.WithoutCancel(ctx), AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "Server is shutting down",
		Meta:    map[string]any{"cause": errString(cause)},
	})

	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	} else {
		zap.L().Info("Server exited gracefully")
	}

	for _, hook := range hooks {
		hook(shutdownCtx)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
