package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authd/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDuplicateEmail is returned when the unique index on email rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound is returned when no record matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

// CreateUser inserts a new user record. Email uniqueness is enforced by the
// storage-layer unique index, not pre-checked: concurrent registrations with
// the same email resolve to one success and one ErrDuplicateEmail.
func (r *userRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var user models.User
	query := `INSERT INTO users (username, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, username, email, password_hash, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, username, email, passwordHash).StructScan(&user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		r.log.Errorf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, created_at, updated_at
	          FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.log.Errorf("Failed to select user by email: %v", err)
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &user, nil
}
