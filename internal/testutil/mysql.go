package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/janisto/kyc-compliance/internal/platform/database"
)

// MySQLDSNEnv names the variable holding the integration test DSN, e.g.
// "root:secret@tcp(127.0.0.1:3306)/kyc_test".
const MySQLDSNEnv = "KYC_TEST_DATABASE_DSN"

// truncateOrder lists tables children first.
var truncateOrder = []string{"profile_edits", "individuals", "persons"}

// MySQLDSN returns the integration DSN or "" when unset or unparsable.
func MySQLDSN() string {
	dsn := os.Getenv(MySQLDSNEnv)
	if dsn == "" {
		return ""
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil || !reachable(cfg.Addr) {
		return ""
	}
	return dsn
}

// SkipIfMySQLUnavailable skips the test unless a MySQL server is configured
// and reachable.
func SkipIfMySQLUnavailable(t *testing.T) {
	t.Helper()
	if MySQLDSN() == "" {
		t.Skipf("MySQL not available (set %s)", MySQLDSNEnv)
	}
}

// OpenMySQL connects to the integration database, applies the migrations, and
// empties every table. The pool is closed when the test ends.
func OpenMySQL(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfMySQLUnavailable(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := database.Open(ctx, MySQLDSN(), database.PoolConfig{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := database.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	TruncateTables(t, db)
	return db
}

// TruncateTables removes all rows from the profile tables.
func TruncateTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range truncateOrder {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}
