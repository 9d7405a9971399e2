package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/janisto/kyc-compliance/internal/platform/database"
)

var (
	selectPersonSQL = "SELECT id, name, identifiers, type, country, risk_level, dataset FROM persons WHERE id = ?"

	selectIndividualSQL = "SELECT id, " + strings.Join(fieldColumnNames(), ", ") +
		", status FROM individuals WHERE full_name = ? ORDER BY id LIMIT 1"

	updatePersonSQL = "UPDATE persons SET name = ?, identifiers = ?, country = ? WHERE id = ?"

	insertEditSQL = "INSERT INTO profile_edits (profile_id, original_name, " +
		strings.Join(fieldColumnNames(), ", ") + ", edited_by) VALUES (" +
		placeholders(len(fieldColumns)+3) + ")"

	lockIndividualSQL = "SELECT id FROM individuals WHERE full_name = ? ORDER BY id LIMIT 1 FOR UPDATE"

	updateIndividualSQL = "UPDATE individuals SET " + assignments(fieldColumnNames()) +
		" WHERE full_name = ?"

	insertIndividualSQL = "INSERT INTO individuals (" + strings.Join(fieldColumnNames(), ", ") +
		", status) VALUES (" + placeholders(len(fieldColumns)+1) + ")"
)

// MySQLStore implements Service on the persons, individuals, and
// profile_edits tables.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Get loads a person and merges the first extended record sharing its name.
func (s *MySQLStore) Get(ctx context.Context, id string) (*MergedProfile, error) {
	var p Person
	err := s.db.QueryRowContext(ctx, selectPersonSQL, id).Scan(
		&p.ID,
		&nullString{dst: &p.Name},
		&nullString{dst: &p.Identifiers},
		&nullString{dst: &p.Type},
		&nullString{dst: &p.Country},
		&nullString{dst: &p.RiskLevel},
		&nullString{dst: &p.Dataset},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("load person", err)
	}

	ind, err := s.findIndividual(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	return Merge(p, ind), nil
}

func (s *MySQLStore) findIndividual(ctx context.Context, fullName string) (*Individual, error) {
	var ind Individual
	dests := append([]any{&ind.ID}, fieldDests(&ind.Fields)...)
	dests = append(dests, &nullString{dst: &ind.Status})

	err := s.db.QueryRowContext(ctx, selectIndividualSQL, fullName).Scan(dests...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("load individual", err)
	}
	return &ind, nil
}

// Update writes the base record, the edit history row, and the extended
// record in one transaction on a dedicated connection.
func (s *MySQLStore) Update(ctx context.Context, id string, params UpdateParams) (*UpdateResult, error) {
	f := params.Fields
	result := &UpdateResult{ProfileID: id}

	err := database.RunInTx(ctx, s.db, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, updatePersonSQL,
			f.FullName, f.NationalIDNumber, f.CountryOfResidence, id,
		); err != nil {
			return storageError("update person", err)
		}

		args := append([]any{id, params.OriginalName}, fieldValues(&f)...)
		args = append(args, editor(params.EditedBy))
		res, err := tx.ExecContext(ctx, insertEditSQL, args...)
		if err != nil {
			return storageError("insert edit", err)
		}
		if result.EditID, err = res.LastInsertId(); err != nil {
			return storageError("insert edit", err)
		}

		var existing int64
		err = tx.QueryRowContext(ctx, lockIndividualSQL, params.OriginalName).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			args := append(fieldValues(&f), StatusApproved)
			if _, err := tx.ExecContext(ctx, insertIndividualSQL, args...); err != nil {
				return storageError("insert individual", err)
			}
			result.Branch = BranchInsert
		case err != nil:
			return storageError("lock individual", err)
		default:
			args := append(fieldValues(&f), params.OriginalName)
			if _, err := tx.ExecContext(ctx, updateIndividualSQL, args...); err != nil {
				return storageError("update individual", err)
			}
			result.Branch = BranchUpdate
		}
		return nil
	})
	if err != nil {
		return nil, storageError("update profile", err)
	}
	return result, nil
}

var _ Service = (*MySQLStore)(nil)
