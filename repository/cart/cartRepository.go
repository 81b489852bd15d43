package cartrepo

import (
	"context"
	"database/sql"
	"time"

	"campusbooks/model"
)

// Row is the cart listing shape, joined with the book for display.
type Row struct {
	LineID    int64     `json:"line_id"`
	BookID    int64     `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type Repo interface {
	// Upsert merges quantity into the existing (user, book) line or
	// creates one; at most one line per pair.
	Upsert(ctx context.Context, tx *sql.Tx, userID, bookID int64, qty int) (int64, error)
	LineForUpdate(ctx context.Context, tx *sql.Tx, lineID int64) (*model.CartLine, error)
	DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error
	// LinesForUpdateByUser locks every line of the user for the duration
	// of a checkout.
	LinesForUpdateByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]model.CartLine, error)
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Upsert(ctx context.Context, tx *sql.Tx, userID, bookID int64, qty int) (int64, error) {
	const q = `
		INSERT INTO cart_lines (user_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, bookID, qty).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) LineForUpdate(ctx context.Context, tx *sql.Tx, lineID int64) (*model.CartLine, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, added_at
		FROM cart_lines
		WHERE id = $1
		FOR UPDATE`
	l := &model.CartLine{}
	err := tx.QueryRowContext(ctx, q, lineID).Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.AddedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error {
	const q = `DELETE FROM cart_lines WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, lineID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) LinesForUpdateByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]model.CartLine, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, added_at
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY id
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]Row, error) {
	const q = `
		SELECT c.id, c.book_id, b.title, b.price, c.quantity, c.added_at
		FROM cart_lines c
		JOIN books b ON b.id = c.book_id
		WHERE c.user_id = $1
		ORDER BY c.added_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.LineID, &row.BookID, &row.BookTitle, &row.Price, &row.Quantity, &row.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
