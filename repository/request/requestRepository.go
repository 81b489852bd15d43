package requestrepo

import (
	"context"
	"database/sql"

	"campusbooks/model"
)

type Repo interface {
	Insert(ctx context.Context, br *model.BookRequest) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BookRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error
	ListAll(ctx context.Context) ([]model.BookRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]model.BookRequest, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, br *model.BookRequest) error {
	const q = `
		INSERT INTO book_requests (user_id, title, author, genre, reason, status)
		VALUES ($1,$2,$3,$4,$5,'pending')
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		br.UserID, br.Title, br.Author, br.Genre, br.Reason,
	).Scan(&br.ID, &br.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BookRequest, error) {
	const q = `
		SELECT id, user_id, title, author, genre, COALESCE(reason,''), status, created_at
		FROM book_requests
		WHERE id = $1
		FOR UPDATE`
	br := &model.BookRequest{}
	err := tx.QueryRowContext(ctx, q, id).Scan(&br.ID, &br.UserID, &br.Title,
		&br.Author, &br.Genre, &br.Reason, &br.Status, &br.CreatedAt)
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error {
	const q = `UPDATE book_requests SET status = $2 WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const selectCols = `id, user_id, title, author, genre, COALESCE(reason,''), status, created_at`

func (r *repo) ListAll(ctx context.Context) ([]model.BookRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectCols+`
		FROM book_requests
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scan(rows)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.BookRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectCols+`
		FROM book_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scan(rows)
}

func scan(rows *sql.Rows) ([]model.BookRequest, error) {
	defer rows.Close()
	var out []model.BookRequest
	for rows.Next() {
		var br model.BookRequest
		if err := rows.Scan(&br.ID, &br.UserID, &br.Title, &br.Author,
			&br.Genre, &br.Reason, &br.Status, &br.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}
