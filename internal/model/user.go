package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json tags
// are omitted here because these structs are primarily used internally by
// the repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique handle used to sign in.
//	Email        – unique email address.
//	FullName     – display name shown in the app.
//	PasswordHash – bcrypt hashed password.
//	PushoverKey  – optional Pushover user key for push reminders; empty when
//	               the user has not linked a device.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	FullName     string    // users.full_name
	PasswordHash string    // users.password_hash
	PushoverKey  string    // users.pushover_key
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
