package profile

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/janisto/kyc-compliance/internal/testutil"
)

func setupMySQLTest(t *testing.T) (*MySQLStore, *sql.DB) {
	t.Helper()
	db := testutil.OpenMySQL(t)

	p := janePerson()
	if _, err := db.Exec(
		"INSERT INTO persons (id, name, identifiers, type, country, risk_level, dataset) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Identifiers, p.Type, p.Country, p.RiskLevel, p.Dataset,
	); err != nil {
		t.Fatalf("seed person: %v", err)
	}
	return NewMySQLStore(db), db
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestMySQLIntegrationGetBaseOnly(t *testing.T) {
	store, _ := setupMySQLTest(t)

	m, err := store.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.FullName != "Jane Doe" || m.Extended != nil {
		t.Fatalf("expected base projection, got %+v", m)
	}

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMySQLIntegrationUpdateInsertsThenUpdates(t *testing.T) {
	store, db := setupMySQLTest(t)
	ctx := context.Background()

	res, err := store.Update(ctx, "1", janeEdit())
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if res.Branch != BranchInsert || res.EditID == 0 {
		t.Fatalf("expected insert branch with edit id, got %+v", res)
	}

	m, err := store.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.Extended == nil || m.Extended.Status != StatusApproved || m.Extended.NationalIDNumber != "A123" {
		t.Fatalf("expected approved extended record, got %+v", m.Extended)
	}

	edit := janeEdit()
	edit.Fields.Email = "jane@y.com"
	edit.Fields.OtherNationalities = true
	res, err = store.Update(ctx, "1", edit)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if res.Branch != BranchUpdate {
		t.Fatalf("expected update branch, got %s", res.Branch)
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM individuals WHERE full_name = ?", "Jane Doe"); n != 1 {
		t.Fatalf("expected one extended row, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM profile_edits WHERE profile_id = ?", "1"); n != 2 {
		t.Fatalf("expected two edit rows, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM individuals WHERE other_nationalities = 1"); n != 1 {
		t.Fatalf("expected other_nationalities stored as 1, got %d rows", n)
	}

	m, err = store.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.Extended.Email != "jane@y.com" || !m.Extended.OtherNationalities {
		t.Fatalf("expected updated extended record, got %+v", m.Extended)
	}
}

func TestMySQLIntegrationUpdateRenameMovesExtendedKey(t *testing.T) {
	store, db := setupMySQLTest(t)
	ctx := context.Background()

	if _, err := store.Update(ctx, "1", janeEdit()); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	edit := janeEdit()
	edit.Fields.FullName = "Jane Q Doe"
	if _, err := store.Update(ctx, "1", edit); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM individuals WHERE full_name = ?", "Jane Q Doe"); n != 1 {
		t.Fatalf("expected renamed extended row, got %d", n)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM persons WHERE id = ?", "1").Scan(&name); err != nil {
		t.Fatalf("select person: %v", err)
	}
	if name != "Jane Q Doe" {
		t.Fatalf("expected person renamed, got %q", name)
	}
}
