package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/utils"
)

// UserRepo manages persistence for user accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,full_name,password_hash,pushover_key,is_active,created_at,updated_at"

// Create inserts a user with a freshly hashed password and returns its ID.
// Username and email are normalized to lower case before insertion.
func (r *UserRepo) Create(ctx context.Context, username, email, fullName, password string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, full_name, password_hash) VALUES (?,?,?,?)",
		username, email, strings.TrimSpace(fullName), hash)
	if err != nil {
		// MySQL duplicate-key; disambiguate by which unique index tripped.
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "1062") {
			if strings.Contains(low, "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// SetPushoverKey links (or clears) the user's Pushover device key.
func (r *UserRepo) SetPushoverKey(ctx context.Context, id uint64, key string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET pushover_key=?, updated_at=NOW() WHERE id=?",
		strings.TrimSpace(key), id)
	return err
}

// PushoverKeyForUser implements notify.UserKeyLookup.
func (r *UserRepo) PushoverKeyForUser(ctx context.Context, id uint64) (string, error) {
	var key string
	err := r.DB.QueryRowContext(ctx,
		"SELECT pushover_key FROM users WHERE id=? LIMIT 1", id).Scan(&key)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.PushoverKey, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
