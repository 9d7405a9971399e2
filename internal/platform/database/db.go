// Package database owns the MySQL connection pool, schema migrations, and the
// scoped transaction used by multi-statement writes.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
)

// DriverName is the database/sql driver and sql-migrate dialect.
const DriverName = "mysql"

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open parses dsn, opens a pool, and verifies connectivity.
// parseTime is forced on so DATETIME/TIMESTAMP columns scan into time.Time.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s@%s: %w", cfg.DBName, cfg.Addr, err)
	}

	applog.LogInfo(ctx, "database connected",
		zap.String("addr", cfg.Addr),
		zap.String("database", cfg.DBName),
		zap.Int("maxOpenConns", pool.MaxOpenConns),
	)
	return db, nil
}

// IsDuplicateKey reports whether err is a MySQL unique/primary key violation.
func IsDuplicateKey(err error) bool {
	return mysqlErrorNumber(err) == 1062
}

// IsConstraintViolation reports whether err is a MySQL integrity error
// (duplicate key, NOT NULL, foreign key, or data too long).
func IsConstraintViolation(err error) bool {
	switch mysqlErrorNumber(err) {
	case 1048, 1062, 1406, 1451, 1452:
		return true
	default:
		return false
	}
}

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return 0
	}
	return me.Number
}
