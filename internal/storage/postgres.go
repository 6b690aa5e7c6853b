package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// dialect holds what differs between backends.
type dialect struct {
	name        string
	schema      string
	numberedArg bool // $1, $2 instead of ?
}

// rebind rewrites ? placeholders for backends that number them.
func (d dialect) rebind(query string) string {
	if !d.numberedArg {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var postgresDialect = dialect{
	name:        "postgres",
	numberedArg: true,
	schema: `
	CREATE TABLE IF NOT EXISTS scores (
		id BIGSERIAL PRIMARY KEY,
		run_id TEXT NOT NULL UNIQUE,
		game_id TEXT NOT NULL,
		player TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		length INTEGER NOT NULL DEFAULT 0,
		end_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
	CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
	CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
	`,
}

// OpenPostgres connects to a PostgreSQL server and runs migrations.
func OpenPostgres(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	return open(db, postgresDialect)
}
