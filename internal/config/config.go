package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go-hris-workflow/internal/domain"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type DatabaseConfig struct {
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       string `env:"PORT" envDefault:"5432"`
	User       string `env:"USER" envDefault:"postgres"`
	Password   string `env:"PASSWORD"`
	Name       string `env:"NAME" envDefault:"hris_workflow"`
	SSLMode    string `env:"SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"MAX_RETRIES" envDefault:"5"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout juga membatasi waktu flush notifikasi yang tertunda
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	DB   DatabaseConfig `envPrefix:"DB_"`
	HTTP HTTPConfig     `envPrefix:"HTTP_"`

	// MigrateOnStart menjalankan goose up sebelum server listen
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	KafkaBroker        string        `env:"KAFKA_BROKER"`
	KafkaRelayGroup    string        `env:"KAFKA_RELAY_GROUP"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`

	JWTSecret string `env:"JWT_SECRET"`

	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	NotifyBuffer  int           `env:"NOTIFY_BUFFER" envDefault:"64"`
	SSEHeartbeat  time.Duration `env:"SSE_HEARTBEAT" envDefault:"30s"`

	RatePerSecond float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	LeaveApprovers []string `env:"LEAVE_APPROVERS" envDefault:"teamLead,hr" envSeparator:","`
	WFHApprovers   []string `env:"WFH_APPROVERS" envDefault:"teamLead" envSeparator:","`
}

// Load reads .env (if present) then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if cfg.KafkaRelayGroup == "" {
		host, _ := os.Hostname()
		cfg.KafkaRelayGroup = "go-hris-workflow-relay-" + host
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.RatePerSecond < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate limit values must not be negative"))
	}
	if _, err := c.DefaultApprovers(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DefaultApprovers returns the approver roles applied when a create request
// does not name any.
func (c Config) DefaultApprovers() (map[domain.Kind][]domain.ApproverRole, error) {
	leave, err := parseApprovers("LEAVE_APPROVERS", c.LeaveApprovers)
	if err != nil {
		return nil, err
	}
	wfh, err := parseApprovers("WFH_APPROVERS", c.WFHApprovers)
	if err != nil {
		return nil, err
	}
	return map[domain.Kind][]domain.ApproverRole{
		domain.KindLeave: leave,
		domain.KindWFH:   wfh,
	}, nil
}

func parseApprovers(key string, raw []string) ([]domain.ApproverRole, error) {
	out := make([]domain.ApproverRole, 0, len(raw))
	seen := make(map[domain.ApproverRole]bool, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		role, ok := domain.ParseApproverRole(v)
		if !ok {
			return nil, fmt.Errorf("%s: unknown approver role %q", key, v)
		}
		if !seen[role] {
			seen[role] = true
			out = append(out, role)
		}
	}
	return out, nil
}
