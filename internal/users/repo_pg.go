package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docuhub-backend/internal/shared/apperr"
)

const userColumns = `id, name, email, password_hash, department, position, created_at, last_login`

// PGRepo persists users in Postgres.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, department, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Department, u.Position,
	).Scan(&u.CreatedAt)
	if err != nil {
		return translateUserPGError(err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET
			name = COALESCE($2, name),
			department = COALESCE($3, department),
			position = COALESCE($4, position)
		WHERE id = $1
		RETURNING %s`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, in.Name, in.Department, in.Position))
}

func (r *PGRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(res)
}

func (r *PGRepo) TouchLastLogin(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return requireAffected(res)
}

func (r *PGRepo) scanOne(row *sql.Row) (*User, error) {
	var u User
	var department, position sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &department, &position, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Department = department.String
	u.Position = position.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return nil
}

func translateUserPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: email already registered", apperr.ErrDuplicate)
	}
	return fmt.Errorf("insert user: %w", err)
}

var _ Repo = (*PGRepo)(nil)
