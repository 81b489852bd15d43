package bookrepo

import (
	"context"
	"database/sql"

	"campusbooks/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	// Update rewrites the descriptive fields and moves total_copies to its
	// new value, shifting available_copies by the same delta. Returns
	// sql.ErrNoRows when the shift would take available below zero, i.e.
	// capacity cannot drop under the outstanding reservations.
	Update(ctx context.Context, b *model.Book) error
	// Delete refuses while cart lines or active orders still hold copies
	// of the book; the bool reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, query string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, genre, isbn, price, total_copies, available_copies)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Genre, b.ISBN, b.Price, b.TotalCopies,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books
		SET title = $2,
			author = $3,
			genre = $4,
			isbn = $5,
			price = $6,
			available_copies = available_copies + ($7 - total_copies),
			total_copies = $7
		WHERE id = $1
		AND available_copies + ($7 - total_copies) >= 0`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, b.Title, b.Author, b.Genre, b.ISBN, b.Price, b.TotalCopies)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `
		DELETE FROM books b
		WHERE b.id = $1
		AND NOT EXISTS (SELECT 1 FROM cart_lines c WHERE c.book_id = b.id)
		AND NOT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.book_id = b.id AND o.status IN ('pending','approved'))`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) List(ctx context.Context, query string) ([]model.Book, error) {
	const q = `
		SELECT id, title, author, genre, COALESCE(isbn,''), price,
			total_copies, available_copies, created_at
		FROM books
		WHERE $1 = ''
		OR title ILIKE '%'||$1||'%'
		OR author ILIKE '%'||$1||'%'
		OR genre ILIKE '%'||$1||'%'
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, query)
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

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
		SELECT id, title, author, genre, COALESCE(isbn,''), price,
			total_copies, available_copies, created_at
		FROM books
		WHERE id = $1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author,
		&b.Genre, &b.ISBN, &b.Price, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
