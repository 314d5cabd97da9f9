package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	role                TEXT NOT NULL,
	password_hash       TEXT NOT NULL,
	avatar_url          TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	trial_ends_at       TIMESTAMPTZ,
	subscription_active BOOLEAN NOT NULL DEFAULT FALSE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS properties (
	id            BIGSERIAL PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL,
	property_type TEXT NOT NULL,
	type          TEXT NOT NULL,
	price         NUMERIC(14,2) NOT NULL CHECK (price >= 0),
	city          TEXT NOT NULL,
	address       TEXT NOT NULL,
	latitude      DOUBLE PRECISION,
	longitude     DOUBLE PRECISION,
	images        TEXT[] NOT NULL,
	bedrooms      INTEGER,
	bathrooms     INTEGER,
	area          DOUBLE PRECISION NOT NULL CHECK (area > 0),
	agent_id      TEXT NOT NULL,
	agent_name    TEXT NOT NULL,
	agent_phone   TEXT NOT NULL,
	featured      BOOLEAN NOT NULL DEFAULT FALSE,
	status        TEXT NOT NULL,
	photo_file_id TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK ((latitude IS NULL) = (longitude IS NULL))
);

CREATE INDEX IF NOT EXISTS properties_status_idx ON properties (status);
CREATE INDEX IF NOT EXISTS properties_agent_idx ON properties (agent_id);

CREATE TABLE IF NOT EXISTS payments (
	id         UUID PRIMARY KEY,
	agent_id   TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	method     TEXT NOT NULL,
	plan       TEXT NOT NULL,
	amount     NUMERIC(14,2) NOT NULL,
	reference  TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables used by the repositories if they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}
	return nil
}
