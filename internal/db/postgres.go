package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/logging"
)

var DB *sqlx.DB

const (
	connectAttempts = 10
	connectBackoff  = 500 * time.Millisecond
)

// InitPostgres connects with sqlx, retrying while the database container
// finishes starting.
func InitPostgres(cfg config.Postgres) error {
	var err error
	for i := 0; i < connectAttempts; i++ {
		DB, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			DB.SetMaxOpenConns(20)
			DB.SetMaxIdleConns(5)
			DB.SetConnMaxLifetime(30 * time.Minute)
			return nil
		}
		logging.Warn("Postgres not ready, retrying", "attempt", i+1, "error", err)
		time.Sleep(connectBackoff)
	}
	return fmt.Errorf("connect to postgres after %d attempts: %w", connectAttempts, err)
}
