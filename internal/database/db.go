package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the DDL for every table the server needs, in dependency
// order. Statements are idempotent so EnsureSchema is safe on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(20)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		full_name     VARCHAR(50)  NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		pushover_key  VARCHAR(64)  NOT NULL DEFAULT '',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS medications (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id        BIGINT UNSIGNED NOT NULL,
		name           VARCHAR(120) NOT NULL,
		dosage         VARCHAR(120) NOT NULL,
		frequency      VARCHAR(20)  NOT NULL,
		times_per_day  INT          NOT NULL DEFAULT 0,
		specific_times VARCHAR(255) NULL,
		start_date     DATETIME     NOT NULL,
		end_date       DATETIME     NULL,
		notes          TEXT         NULL,
		is_active      TINYINT(1)   NOT NULL DEFAULT 1,
		created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_medications_user_active (user_id, is_active),
		CONSTRAINT fk_medications_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS medication_history (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id           BIGINT UNSIGNED NOT NULL,
		medication_id     BIGINT UNSIGNED NOT NULL,
		medication_name   VARCHAR(120) NOT NULL,
		medication_dosage VARCHAR(120) NOT NULL,
		scheduled_time    DATETIME   NULL,
		taken_at          DATETIME   NOT NULL,
		taken_method      VARCHAR(20) NOT NULL,
		is_on_time        TINYINT(1) NOT NULL DEFAULT 1,
		notes             TEXT       NULL,
		created_at        DATETIME   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_history_user_taken (user_id, taken_at),
		KEY idx_history_medication_taken (medication_id, taken_at),
		CONSTRAINT fk_history_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_history_medication FOREIGN KEY (medication_id) REFERENCES medications (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables. It does not migrate existing
// ones; column changes still go through ops-managed migrations.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
