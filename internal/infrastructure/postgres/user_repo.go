package postgres

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const sql = `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := writeExecutor(ctx, r.pool).Exec(ctx, sql,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	sql := fmt.Sprintf(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE %s = $1
	`, column)

	var u user.User
	err := r.pool.QueryRow(ctx, sql, value).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return &u, nil
}
