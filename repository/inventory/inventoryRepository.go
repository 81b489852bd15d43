// Package inventoryrepo owns the book copy counters. Reserve and Release
// are the only mutators of available_copies anywhere in the codebase;
// every cart and order operation goes through them.
package inventoryrepo

import (
	"context"
	"database/sql"
	"errors"
)

// ErrInsufficient is returned when a reserve asks for more copies than are
// available. Services translate it into their coded error.
var ErrInsufficient = errors.New("insufficient copies")

type Repo interface {
	// Reserve debits qty copies. The check and the decrement are one
	// conditional UPDATE, so two concurrent reserves can never both win
	// the same copies.
	Reserve(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	// Release credits qty copies back, capped at total_copies.
	Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	// AvailableForUpdate locks the book row and returns available_copies.
	// Used by the order edit, which reasons about the combined pool
	// (free copies plus the caller's own hold) as an inequality.
	AvailableForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Reserve(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	const q = `
		UPDATE books
		SET available_copies = available_copies - $2
		WHERE id = $1
		AND available_copies >= $2`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrInsufficient
	}
	return nil
}

func (r *repo) Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	// The cap never fires for a correct caller, but an excess release must
	// not push available above total.
	const q = `
		UPDATE books
		SET available_copies = LEAST(available_copies + $2, total_copies)
		WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) AvailableForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int, error) {
	const q = `
		SELECT available_copies
		FROM books
		WHERE id = $1
		FOR UPDATE`
	var n int
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&n)
	return n, err
}
