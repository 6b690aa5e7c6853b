// Package storage persists finished snake runs.
// SQLite (pure-Go modernc.org/sqlite) is the default backend; a
// postgres:// DSN selects PostgreSQL via lib/pq for shared servers.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is one finished run.
type ScoreRecord struct {
	ID        int64
	RunID     string // Unique per run; generated if empty on save
	GameID    string
	Player    string
	Score     int
	Length    int
	EndReason string // "wall", "self", "board_full" or "quit"
	CreatedAt time.Time
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestLength int
	LastPlayed time.Time
}

// ScoreStore is the persistence surface the platforms use.
type ScoreStore interface {
	SaveScore(rec ScoreRecord) (int64, error)
	TopScores(gameID string, limit int) ([]ScoreRecord, error)
	HighScore(gameID string) (int, error)
	Close() error
}

var _ ScoreStore = (*Store)(nil)

// Store manages the database connection for score persistence.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open picks the backend from dsn: postgres:// and postgresql:// URLs go to
// PostgreSQL, anything else is treated as a SQLite file path.
func Open(dsn string) (*Store, error) {
	if isPostgresDSN(dsn) {
		return OpenPostgres(dsn)
	}
	return OpenSQLite(dsn)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// open pings the database and runs migrations.
func open(db *sql.DB, d dialect) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// Backend returns "sqlite" or "postgres".
func (s *Store) Backend() string {
	return s.dialect.name
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveScore(rec ScoreRecord) (int64, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}

	var id int64
	err := s.db.QueryRow(
		s.dialect.rebind(`INSERT INTO scores (run_id, game_id, player, score, length, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		rec.RunID, rec.GameID, rec.Player, rec.Score, rec.Length, rec.EndReason,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

const selectRecord = `SELECT id, run_id, game_id, player, score, length, end_reason, created_at FROM scores`

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending; ties go to the earlier run.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRecords(
		selectRecord+` WHERE game_id = ? ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreRecord, error) {
	return s.queryRecords(
		selectRecord+` WHERE game_id = ? ORDER BY score DESC, id ASC`,
		gameID,
	)
}

// PlayerHistory retrieves the most recent runs of one player.
func (s *Store) PlayerHistory(player string, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRecords(
		selectRecord+` WHERE player = ? ORDER BY id DESC LIMIT ?`,
		player, limit,
	)
}

// RunByID retrieves a run by its run ID. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*ScoreRecord, error) {
	rec, err := scanRecord(s.db.QueryRow(s.dialect.rebind(selectRecord+` WHERE run_id = ?`), runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &rec, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		s.dialect.rebind("SELECT MAX(score) FROM scores WHERE game_id = ?"),
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec(s.dialect.rebind("DELETE FROM scores WHERE game_id = ?"), gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		s.dialect.rebind(`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(length), 0)
		 FROM scores WHERE game_id = ?`),
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.BestLength)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		s.dialect.rebind(`SELECT created_at FROM scores WHERE game_id = ? ORDER BY id DESC LIMIT 1`),
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every game that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(length), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore,
			&gs.TotalScore, &gs.BestLength, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func (s *Store) queryRecords(query string, args ...any) ([]ScoreRecord, error) {
	rows, err := s.db.Query(s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (ScoreRecord, error) {
	var rec ScoreRecord
	var createdAt any
	err := row.Scan(&rec.ID, &rec.RunID, &rec.GameID, &rec.Player,
		&rec.Score, &rec.Length, &rec.EndReason, &createdAt)
	if err != nil {
		return ScoreRecord{}, err
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles drivers that return either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	}
	return time.Time{}
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
