package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shop-admin/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the shared connection pool. It is constructed once at
// process start and passed by reference to every repository; there is no
// lazy first-use initialization.
type Service struct {
	db *sql.DB
}

// New opens a connection pool for the configured database. Opening never
// dials: an unreachable or misconfigured database surfaces later as
// store-unavailable errors on individual queries, which is what lets list
// endpoints degrade instead of the process refusing to start.
func New(cfg config.DatabaseConfig) (*Service, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Service{db: db}, nil
}

// DB returns the underlying pool.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health pings the database with a short timeout and reports the result.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		}
	}

	return map[string]string{"status": "up"}
}

// Close releases the pool.
func (s *Service) Close() error {
	return s.db.Close()
}
