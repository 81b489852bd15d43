package wishlistrepo

import (
	"context"
	"database/sql"

	"campusbooks/model"
)

// The wishlist is a plain (user, book) join table with no quantity and no
// inventory effect.
type Repo interface {
	// Toggle adds the pair if absent, removes it if present; reports
	// whether the book is wishlisted afterwards.
	Toggle(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Toggle(ctx context.Context, userID, bookID int64) (bool, error) {
	const del = `DELETE FROM wishlist WHERE user_id = $1 AND book_id = $2`
	res, err := r.db.ExecContext(ctx, del, userID, bookID)
	if err != nil {
		return false, err
	}
	if aff, _ := res.RowsAffected(); aff > 0 {
		return false, nil
	}

	const ins = `
		INSERT INTO wishlist (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, ins, userID, bookID); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Book, error) {
	const q = `
		SELECT b.id, b.title, b.author, b.genre, COALESCE(b.isbn,''), b.price,
			b.total_copies, b.available_copies, b.created_at
		FROM wishlist w
		JOIN books b ON b.id = w.book_id
		WHERE w.user_id = $1
		ORDER BY b.title`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.ISBN,
			&b.Price, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
