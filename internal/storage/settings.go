package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Setting returns the stored value for key. ok is false if it was never set.
func (s *Store) Setting(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write setting %s: %w", key, err)
	}
	return nil
}

func durationKey(mode string) string {
	return "duration." + mode
}

// Duration returns the last round length chosen for mode, or 0 if none.
func (s *Store) Duration(mode string) (int, error) {
	v, ok, err := s.Setting(durationKey(mode))
	if err != nil || !ok {
		return 0, err
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		// A corrupt value falls back to the configured default
		return 0, nil
	}
	return seconds, nil
}

// SetDuration remembers the round length chosen for mode.
func (s *Store) SetDuration(mode string, seconds int) error {
	return s.SetSetting(durationKey(mode), strconv.Itoa(seconds))
}
