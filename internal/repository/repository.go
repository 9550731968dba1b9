package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/lib/pq"
)

// UserStore is the credential store. It exclusively owns user records.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

const (
	pqUniqueViolation  = "23505"
	pqInvalidTextInput = "22P02"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, email, address, profile_picture, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Email, user.Address, user.ProfilePicture, user.Rating).
		Scan(&user.CreatedAt)
	if err != nil {
		return mapError("create user", err)
	}
	return nil
}

// FindByUsername retrieves a user by username
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, address, profile_picture, rating, created_at
		FROM users
		WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username), "find user")
}

// FindByID retrieves a user by id
func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, address, profile_picture, rating, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "find user")
}

// Update applies the present fields of upd in a single statement and returns
// the stored result.
func (r *Repository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	query := `
		UPDATE users SET
			username = COALESCE($2, username),
			password_hash = COALESCE($3, password_hash),
			email = COALESCE($4, email),
			address = COALESCE($5, address),
			profile_picture = COALESCE($6, profile_picture)
		WHERE id = $1
		RETURNING id, username, password_hash, email, address, profile_picture, rating, created_at`
	row := r.db.QueryRowContext(ctx, query, id,
		nullString(upd.Username),
		nullString(upd.PasswordHash),
		nullString(upd.Email),
		nullString(upd.Address),
		nullString(upd.ProfilePicture))
	return r.scanUser(row, "update user")
}

func (r *Repository) scanUser(row *sql.Row, op string) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email,
		&user.Address, &user.ProfilePicture, &user.Rating, &user.CreatedAt)
	if err != nil {
		return nil, mapError(op, err)
	}
	return user, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// mapError translates driver errors into the common sentinels.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return common.ErrDuplicateUsername
		case pqInvalidTextInput:
			// malformed uuid
			return common.ErrorNotFound
		}
	}
	return fmt.Errorf("failed to %s: %w: %w", op, common.ErrStoreUnavailable, err)
}
