package orderrepo

import (
	"context"
	"database/sql"
	"time"

	"campusbooks/model"
)

// Row is the order listing shape, joined with the book for display.
type Row struct {
	OrderID       int64             `json:"order_id"`
	UserID        int64             `json:"user_id"`
	BookID        int64             `json:"book_id"`
	BookTitle     string            `json:"book_title"`
	Quantity      int               `json:"quantity"`
	Status        model.OrderStatus `json:"status"`
	PaymentMethod *string           `json:"payment_method,omitempty"`
	PaymentStatus string            `json:"payment_status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// BookSales is one entry of the top-ordered-books statistic.
type BookSales struct {
	Title string
	Total int64
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*model.Order, error)
	SetStatus(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error
	SetQuantity(ctx context.Context, tx *sql.Tx, orderID int64, qty int) error
	// ActiveByUserForUpdate locks the user's pending/approved orders; used
	// when an admin deletes a student and their claims must be unwound.
	ActiveByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) ([]model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
	ListAll(ctx context.Context) ([]Row, error)
	TopBooks(ctx context.Context, limit int) ([]BookSales, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `
		INSERT INTO orders (user_id, book_id, quantity, status, payment_method, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		o.UserID, o.BookID, o.Quantity, o.Status, o.PaymentMethod, o.PaymentStatus,
	).Scan(&o.ID, &o.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*model.Order, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, status, payment_method, payment_status, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`
	o := &model.Order{}
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&o.ID, &o.UserID, &o.BookID,
		&o.Quantity, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error {
	const q = `UPDATE orders SET status = $2 WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, orderID, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetQuantity(ctx context.Context, tx *sql.Tx, orderID int64, qty int) error {
	const q = `UPDATE orders SET quantity = $2 WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, orderID, qty)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ActiveByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) ([]model.Order, error) {
	const q = `
		SELECT id, user_id, book_id, quantity, status, payment_method, payment_status, created_at
		FROM orders
		WHERE user_id = $1 AND status IN ('pending','approved')
		ORDER BY id
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.BookID, &o.Quantity, &o.Status,
			&o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

const listQ = `
	SELECT o.id, o.user_id, o.book_id, b.title, o.quantity, o.status,
		o.payment_method, o.payment_status, o.created_at
	FROM orders o
	JOIN books b ON b.id = o.book_id`

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, listQ+`
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (r *repo) ListAll(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, listQ+`
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.OrderID, &row.UserID, &row.BookID, &row.BookTitle,
			&row.Quantity, &row.Status, &row.PaymentMethod, &row.PaymentStatus, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repo) TopBooks(ctx context.Context, limit int) ([]BookSales, error) {
	const q = `
		SELECT b.title, SUM(o.quantity)::BIGINT AS total
		FROM orders o
		JOIN books b ON b.id = o.book_id
		GROUP BY b.id
		ORDER BY total DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookSales
	for rows.Next() {
		var s BookSales
		if err := rows.Scan(&s.Title, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
