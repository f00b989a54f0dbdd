package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glav/paymeback/internal/models"
	"github.com/glav/paymeback/internal/storage"
)

// CreateUser persists a new user, generating an ID and creation time when not
// set.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, first_names, surname, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.FirstNames, user.Surname, user.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.scanUser(ctx,
		"SELECT id, email, first_names, surname, created_at FROM users WHERE id = ?",
		userID,
	)
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(ctx,
		"SELECT id, email, first_names, surname, created_at FROM users WHERE email = ?",
		email,
	)
}

func (s *SQLiteStore) scanUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.FirstNames, &user.Surname, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}
