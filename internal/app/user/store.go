package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatterbox/internal/app/db"
)

var (
	// ErrUsernameTaken is returned by Create when the username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrNotFound is returned by lookups when no matching account exists.
	ErrNotFound = errors.New("user not found")
)

// userColumns must match the Scan order in scanUser.
const userColumns = `id, username, password_hash, created_at`

// Store persists user accounts in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store from the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Create inserts a new account and returns it. A username collision is
// reported as ErrUsernameTaken.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING `+userColumns,
		username, passwordHash,
	)

	u, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByUsername fetches an account by its unique username.
func (s *Store) GetByUsername(ctx context.Context, username string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	return u, nil
}

// Count returns the total number of registered accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
