package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/commerce-api/internal/logger"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxIdleTime = 5 * time.Minute
	dbConnMaxLifetime = 60 * time.Minute

	dbPingTimeout = 3 * time.Second
)

func NewDB(dsn string, debug bool) (*sql.DB, error) {

	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}
	// ---------------- actual connection ----------------
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := prepareDB(db, debug); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// prepareDB applies pool limits and verifies connectivity (fail fast).
func prepareDB(db *sql.DB, debug bool) error {
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if debug {
		logServerIdentity(ctx, db)
	}
	return nil
}

// logServerIdentity proves we're connected to the expected server/user/db (no secrets).
func logServerIdentity(ctx context.Context, db *sql.DB) {
	var who, dbname, addr, ver string
	_ = db.QueryRowContext(ctx, "SELECT current_user").Scan(&who)
	_ = db.QueryRowContext(ctx, "SELECT current_database()").Scan(&dbname)
	_ = db.QueryRowContext(ctx, "SELECT inet_server_addr()::text").Scan(&addr)
	_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)

	logger.Logger.Info().
		Str("user", who).
		Str("db", dbname).
		Str("server_addr", addr).
		Str("version", ver).
		Msg("db connected")
}
