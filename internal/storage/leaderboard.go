package storage

import (
	"fmt"
	"time"
)

// LeaderEntry is one player's best in a mode and round length.
type LeaderEntry struct {
	Rank      int
	Player    string
	Best      int
	UpdatedAt time.Time
}

// SubmitBest records score as the player's best if it beats the stored one.
// It reports whether the stored best changed.
func (s *Store) SubmitBest(mode string, duration int, player string, score int) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO leaderboard (mode, duration, player, best, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(mode, duration, player) DO UPDATE SET
		   best = excluded.best,
		   updated_at = excluded.updated_at
		 WHERE excluded.best > leaderboard.best`,
		mode, duration, player, score,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot submit best: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// Leaderboard returns the top players for a mode and round length, best
// first. Players who reached the same best earlier rank higher.
func (s *Store) Leaderboard(mode string, duration int, limit int) ([]LeaderEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT player, best, updated_at
		 FROM leaderboard
		 WHERE mode = ? AND duration = ?
		 ORDER BY best DESC, updated_at ASC, player ASC
		 LIMIT ?`,
		mode, duration, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderEntry
	for rows.Next() {
		var e LeaderEntry
		var updatedAt any
		if err := rows.Scan(&e.Player, &e.Best, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTimestamp(updatedAt)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}
