package infra_pg_init

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates missing tables. Safe to call on every start.
// Groups, members and movies are owned by other services; they are created
// here only so the voting service can run on its own.
func CreateSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS watch_groups (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    created_by UUID NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id UUID NOT NULL REFERENCES watch_groups(id) ON DELETE CASCADE,
    user_id UUID NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (group_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);

CREATE TABLE IF NOT EXISTS movies (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    year INT NOT NULL DEFAULT 0,
    rating DOUBLE PRECISION NOT NULL DEFAULT 0,
    genres TEXT[] NOT NULL DEFAULT '{}',
    overview TEXT NOT NULL DEFAULT '',
    poster_link TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS group_movies (
    group_id UUID NOT NULL REFERENCES watch_groups(id) ON DELETE CASCADE,
    movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
    added_by UUID NOT NULL,
    added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (group_id, movie_id)
);

CREATE TABLE IF NOT EXISTS watch_sessions (
    id UUID PRIMARY KEY,
    group_id UUID NOT NULL REFERENCES watch_groups(id) ON DELETE CASCADE,
    created_by UUID NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    closed_at TIMESTAMPTZ,
    CONSTRAINT watch_sessions_closed_at CHECK ((status = 'closed') = (closed_at IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_watch_sessions_group_id ON watch_sessions(group_id, created_at DESC);

CREATE TABLE IF NOT EXISTS session_votes (
    id UUID PRIMARY KEY,
    session_id UUID NOT NULL REFERENCES watch_sessions(id) ON DELETE CASCADE,
    user_id UUID NOT NULL,
    movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
    vote BOOLEAN NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT session_votes_unique_voter UNIQUE (session_id, user_id, movie_id)
);

CREATE INDEX IF NOT EXISTS idx_session_votes_session_id ON session_votes(session_id, created_at);
`
