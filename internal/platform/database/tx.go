package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tx is a transaction pinned to one pooled connection.
//
// Begin acquires the connection and starts the transaction; Close must be
// deferred right after a successful Begin. Close rolls back unless Commit
// succeeded, then returns the connection to the pool, on every exit path
// including panics.
type Tx struct {
	*sql.Tx
	conn      *sql.Conn
	committed bool
	closed    bool
}

// Begin checks out a dedicated connection and begins a transaction on it.
func Begin(ctx context.Context, db *sql.DB, opts *sql.TxOptions) (*Tx, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{Tx: tx, conn: conn}, nil
}

// Commit commits the transaction. After a failed commit Close still releases
// the connection; the driver has already discarded the transaction.
func (t *Tx) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.committed = true
	return nil
}

// Committed reports whether Commit succeeded.
func (t *Tx) Committed() bool {
	return t.committed
}

// Close rolls back an uncommitted transaction and releases the connection.
// It is safe to call more than once.
func (t *Tx) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var rbErr error
	if !t.committed {
		if err := t.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rbErr = fmt.Errorf("rollback transaction: %w", err)
		}
	}
	if err := t.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return errors.Join(rbErr, fmt.Errorf("release connection: %w", err))
	}
	return rbErr
}

// RunInTx runs fn inside a transaction and commits if fn returns nil.
// Any error or panic from fn leaves the transaction rolled back.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *Tx) error) (err error) {
	tx, err := Begin(ctx, db, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
