package userrepo

import (
	"context"
	"database/sql"

	"campusbooks/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name, profilePic string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	ListStudents(ctx context.Context) ([]model.User, error)
	UpdateStudent(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	// EnsureAdmin inserts the default admin account unless one exists.
	EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	const q = `
		INSERT INTO users (name, email, password_hash, role, profile_pic)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		u.Name, u.Email, u.PasswordHash, u.Role, u.ProfilePic,
	).Scan(&u.ID, &u.CreatedAt)
}

const userCols = `id, name, email, recovery_email, password_hash, role, profile_pic, created_at`

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.RecoveryEmail, &u.PasswordHash, &u.Role, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.RecoveryEmail, &u.PasswordHash, &u.Role, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdateProfile(ctx context.Context, id int64, name, profilePic string) error {
	const q = `
		UPDATE users
		SET name = $2,
			profile_pic = COALESCE(NULLIF($3,''), profile_pic)
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, name, profilePic)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash = $2
		WHERE lower(email) = lower($1)`
	res, err := r.db.ExecContext(ctx, q, email, passwordHash)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ListStudents(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE role = 'student'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RecoveryEmail,
			&u.PasswordHash, &u.Role, &u.ProfilePic, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStudent(ctx context.Context, id int64, name, email string) error {
	const q = `
		UPDATE users
		SET name = $2, email = lower($3)
		WHERE id = $1 AND role = 'student'`
	res, err := r.db.ExecContext(ctx, q, id, name, email)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `DELETE FROM users WHERE id = $1 AND role = 'student'`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role, profile_pic)
		SELECT 'Admin', lower($1), $2, 'admin', 'default.png'
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE role = 'admin')`
	res, err := r.db.ExecContext(ctx, q, email, passwordHash)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
