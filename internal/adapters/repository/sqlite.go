package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/repository/migrations"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/score"
)

// SQLiteStore persists player state in SQLite. Scores are stored as
// scaled integers (see the score package) so every quantized score
// round-trips exactly.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// Open opens a SQLite player store and applies embedded migrations.
func Open(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetScores returns every player's score.
func (s *SQLiteStore) GetScores(ctx context.Context) ([]float64, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT score_scaled FROM players`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scores []float64
	for rows.Next() {
		var scaled int64
		if err := rows.Scan(&scaled); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score.FromScaled(scaled))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return scores, nil
}

// GetTopPlayers returns up to n players ordered by score descending.
func (s *SQLiteStore) GetTopPlayers(ctx context.Context, n int) ([]model.Player, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, score_scaled FROM players ORDER BY score_scaled DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	players := make([]model.Player, 0, n)
	for rows.Next() {
		var (
			p      model.Player
			scaled int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &scaled); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Score = score.FromScaled(scaled)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

// UpdatePlayerScore sets one player's score. A missing player is not an
// error; provisioning is someone else's job.
func (s *SQLiteStore) UpdatePlayerScore(ctx context.Context, playerID int64, newScore float64) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE players SET score_scaled = ? WHERE id = ?`,
		score.ToScaled(newScore), playerID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", playerID, err)
	}
	return nil
}

// UpdatePlayerScores applies a batch of scores in one transaction. The
// batch either commits as a whole or leaves no trace, which is what the
// change-log consumer's ack-after-persist contract relies on.
func (s *SQLiteStore) UpdatePlayerScores(ctx context.Context, updates map[int64]float64) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk update: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `UPDATE players SET score_scaled = ? WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare bulk update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for playerID, newScore := range updates {
		if _, err := stmt.ExecContext(ctx, score.ToScaled(newScore), playerID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk update player %d: %w", playerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk update: %w", err)
	}
	return nil
}

// InsertPlayer creates a player row. Exposed for tests and external
// provisioning tools; the engine itself never creates players.
func (s *SQLiteStore) InsertPlayer(ctx context.Context, p model.Player) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (id, name, score_scaled) VALUES (?, ?, ?)`,
		p.ID, p.Name, score.ToScaled(p.Score))
	if err != nil {
		return fmt.Errorf("insert player %d: %w", p.ID, err)
	}
	return nil
}
