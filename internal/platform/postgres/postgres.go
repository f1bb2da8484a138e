package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Supported values of Config.Driver.
const (
	DriverPgx = "pgx"
	DriverPQ  = "pq"
)

// Config selects the database and the driver underneath GORM.
type Config struct {
	DSN string
	// Driver is DriverPgx (default) or DriverPQ.
	Driver string
}

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPgx:
		return postgres.Open(cfg.DSN), nil
	case DriverPQ:
		connector, err := pq.NewConnector(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sql.OpenDB(connector)}), nil
	default:
		return nil, fmt.Errorf("unsupported postgres driver %q", cfg.Driver)
	}
}

// ConnectOrFallback dials PostgreSQL and returns the DB plus a cleanup function.
// When the DSN is missing or the connection fails, it logs and returns nil with a no-op cleanup.
func ConnectOrFallback(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repository")
		return nil, func() {}
	}
	db, err := Connect(ctx, cfg)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repository", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repository", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established", slog.String("driver", driverName(cfg.Driver)))
	return db, func() { _ = sqlDB.Close() }
}

func driverName(driver string) string {
	if strings.TrimSpace(driver) == "" {
		return DriverPgx
	}
	return strings.ToLower(driver)
}
