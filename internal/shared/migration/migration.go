package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrations embed.FS

const dir = "sql"

func FS() embed.FS {
	return migrations
}

// Up applies every pending migration and returns the resulting version.
func Up(ctx context.Context, db *sql.DB, logger ...*zap.Logger) (int64, error) {
	l := zap.L().Named("migration")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("migration")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("migrate dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	version, err := goose.EnsureDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("migrate version: %w", err)
	}

	l.Info("database migrated", zap.Int64("version", version))
	return version, nil
}
