package db

import (
	"database/sql"
	"fmt"
)

// sqliteSchema is the full SQLite schema.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS item_requests (
    id           INTEGER PRIMARY KEY,
    description  TEXT NOT NULL,
    requestor_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_item_requests_requestor ON item_requests(requestor_id, created_at);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    available   BOOLEAN NOT NULL,
    owner_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    request_id  INTEGER REFERENCES item_requests(id) ON DELETE SET NULL,
    image       BLOB,
    image_mime  TEXT,
    thumbnail   BLOB,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);
CREATE INDEX IF NOT EXISTS idx_items_request ON items(request_id);

CREATE TABLE IF NOT EXISTS bookings (
    id        INTEGER PRIMARY KEY,
    start_at  DATETIME NOT NULL,
    end_at    DATETIME NOT NULL,
    item_id   INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    booker_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status    TEXT NOT NULL DEFAULT 'WAITING' CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
    CHECK (start_at < end_at)
);

CREATE INDEX IF NOT EXISTS idx_bookings_booker ON bookings(booker_id, start_at);
CREATE INDEX IF NOT EXISTS idx_bookings_item ON bookings(item_id, start_at);

CREATE TABLE IF NOT EXISTS comments (
    id         INTEGER PRIMARY KEY,
    text       TEXT NOT NULL,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    author_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_item ON comments(item_id, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// postgresSchema mirrors sqliteSchema with Postgres types.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS item_requests (
    id           BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    description  TEXT NOT NULL,
    requestor_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_item_requests_requestor ON item_requests(requestor_id, created_at);

CREATE TABLE IF NOT EXISTS items (
    id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    available   BOOLEAN NOT NULL,
    owner_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    request_id  BIGINT REFERENCES item_requests(id) ON DELETE SET NULL,
    image       BYTEA,
    image_mime  TEXT,
    thumbnail   BYTEA,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);
CREATE INDEX IF NOT EXISTS idx_items_request ON items(request_id);

CREATE TABLE IF NOT EXISTS bookings (
    id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    start_at  TIMESTAMPTZ NOT NULL,
    end_at    TIMESTAMPTZ NOT NULL,
    item_id   BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    booker_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status    TEXT NOT NULL DEFAULT 'WAITING' CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
    CHECK (start_at < end_at)
);

CREATE INDEX IF NOT EXISTS idx_bookings_booker ON bookings(booker_id, start_at);
CREATE INDEX IF NOT EXISTS idx_bookings_item ON bookings(item_id, start_at);

CREATE TABLE IF NOT EXISTS comments (
    id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    text       TEXT NOT NULL,
    item_id    BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_item ON comments(item_id, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB, driver string) error {
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return err
	}

	schema := sqliteSchema
	if driver == DriverPostgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
