// Package store persists users behind the UserStore interface consumed by
// the credential and recovery services.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/database"
	"github.com/isdelr/messenger-auth/internal/models"
)

// UserStore is the persistence contract for user accounts.
//
// FindByEmail and FindByID return common.ErrorNotFound for unknown users,
// Create returns common.ErrorConflict when the email is taken and
// UpdatePasswordHash returns common.ErrorNotFound when no row matched.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) error
}

// SQLUserStore implements UserStore on database/sql for SQLite and PostgreSQL.
type SQLUserStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewSQLUserStore creates a new SQLUserStore.
func NewSQLUserStore(db *sql.DB, driver string) *SQLUserStore {
	return &SQLUserStore{
		db:     db,
		driver: driver,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

const userColumns = "id, email, name, hashed_password, secret_question, secret_answer, image, created_at, updated_at"

func (s *SQLUserStore) q(query string) string {
	return database.Rebind(s.driver, query)
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.HashedPassword,
		&user.SecretQuestion, &user.SecretAnswer, &user.Image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, common.ErrorNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email, including the password hash and secret answer.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	return scanUser(row)
}

// FindByID retrieves a user by ID.
func (s *SQLUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	return scanUser(row)
}

// Create inserts a new user. ID must already be assigned.
func (s *SQLUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.Email, user.Name, user.HashedPassword,
		string(user.SecretQuestion), user.SecretAnswer, user.Image, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s is already registered", common.ErrorConflict, user.Email)
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored hash in a single-row write.
// Concurrent updates for the same email resolve last-write-wins.
func (s *SQLUserStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	res, err := s.db.ExecContext(ctx, s.q("UPDATE users SET hashed_password = ?, updated_at = ? WHERE email = ?"),
		hash, s.now(), email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
