package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"optitrack-data/internal/domain"

	"go.uber.org/zap"
)

type PostgresUsersRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresUsersRepo(db *sql.DB, logger *zap.Logger) *PostgresUsersRepo {
	return &PostgresUsersRepo{db: db, logger: logger}
}

func (r *PostgresUsersRepo) CreateUser(ctx context.Context, u AuthUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			user_id, email, email_hash, password_hash,
			first_name, last_name, occupation, profile_picture, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')`,
		u.UserID,
		u.Email,
		u.EmailHash,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		string(u.Occupation),
		u.ProfilePicture,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepo) GetByEmailHash(ctx context.Context, emailHash string) (*AuthUser, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, email_hash, password_hash,
		       first_name, last_name, occupation, profile_picture, status
		FROM users
		WHERE email_hash = $1 AND status = 'active'`,
		emailHash,
	)

	var u AuthUser
	var occupation string
	err := row.Scan(
		&u.UserID, &u.Email, &u.EmailHash, &u.PasswordHash,
		&u.FirstName, &u.LastName, &occupation, &u.ProfilePicture, &u.Status,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.Occupation = domain.Occupation(occupation)
	return &u, nil
}

func (r *PostgresUsersRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, first_name, last_name, occupation, profile_picture, status
		FROM users
		WHERE user_id = $1`,
		userID,
	)

	var u domain.User
	var occupation string
	err := row.Scan(&u.UserID, &u.Email, &u.FirstName, &u.LastName, &occupation, &u.ProfilePicture, &u.Status)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.Occupation = domain.Occupation(occupation)
	return &u, nil
}

// UpdateProfile patches the given columns. Only known profile columns are
// accepted; anything else is ignored.
func (r *PostgresUsersRepo) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	allowed := map[string]bool{
		"first_name":      true,
		"last_name":       true,
		"occupation":      true,
		"profile_picture": true,
	}

	set := []string{}
	args := []any{userID}
	argN := 2
	for col, val := range fields {
		if !allowed[col] {
			continue
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(set, ", ")+` WHERE user_id = $1`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
