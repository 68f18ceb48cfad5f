package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table the service touches. Statements are
// idempotent so Bootstrap can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(20)  NOT NULL,
		email         VARCHAR(120) NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		role          ENUM('user','admin') NOT NULL DEFAULT 'user',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS items (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title        VARCHAR(100) NOT NULL,
		description  TEXT NOT NULL,
		category     VARCHAR(50) NOT NULL,
		image_url    VARCHAR(200) NULL,
		location     VARCHAR(100) NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		owner_id     BIGINT UNSIGNED NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_items_owner (owner_id),
		CONSTRAINT fk_items_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS requests (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		item_id       BIGINT UNSIGNED NOT NULL,
		requester_id  BIGINT UNSIGNED NOT NULL,
		item_owner_id BIGINT UNSIGNED NOT NULL,
		status        ENUM('pending','accepted','rejected') NOT NULL DEFAULT 'pending',
		requested_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_requests_item (item_id),
		KEY idx_requests_requester (requester_id),
		KEY idx_requests_owner (item_owner_id),
		CONSTRAINT fk_requests_item FOREIGN KEY (item_id) REFERENCES items(id),
		CONSTRAINT fk_requests_requester FOREIGN KEY (requester_id) REFERENCES users(id),
		CONSTRAINT fk_requests_owner FOREIGN KEY (item_owner_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ratings (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		rater_id      BIGINT UNSIGNED NOT NULL,
		rated_user_id BIGINT UNSIGNED NOT NULL,
		score         TINYINT UNSIGNED NOT NULL,
		comment       TEXT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_ratings_rated (rated_user_id),
		CONSTRAINT fk_ratings_rater FOREIGN KEY (rater_id) REFERENCES users(id),
		CONSTRAINT fk_ratings_rated FOREIGN KEY (rated_user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS token_blacklist (
		id      BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		jti     CHAR(36) NOT NULL,
		expires DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_blacklist_jti (jti)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Bootstrap applies the schema. Safe to call on every start.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
