package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"temperance/internal/model"
)

// Setting keys form a fixed, closed schema. Values are stored as JSON
// strings, one row per key; an absent row means "not yet reconciled".
const (
	KeyGoalAmount           = "goalAmount"
	KeyMentorFrequency      = "mentorFrequency"
	KeyMentorMeta           = "mentorMeta"
	KeyLastSelectedDate     = "lastSelectedDate"
	KeyAutoPresetFromManual = "autoPresetFromManual"
)

// DefaultSettings maps every setting key to its JSON-encoded default.
var DefaultSettings = map[string]string{
	KeyGoalAmount:           "null",
	KeyMentorFrequency:      "1",
	KeyMentorMeta:           `{"lastShownDate":null,"shownCount":0}`,
	KeyLastSelectedDate:     "null",
	KeyAutoPresetFromManual: "false",
}

// SettingKeys lists the schema keys in a stable order.
var SettingKeys = []string{
	KeyGoalAmount,
	KeyMentorFrequency,
	KeyMentorMeta,
	KeyLastSelectedDate,
	KeyAutoPresetFromManual,
}

// EnsureDefaultSettings inserts the hard-coded default for every schema key
// that has no stored entry. Existing values are never overwritten, so the
// reconciliation is safe to run arbitrarily many times.
func (s *Store) EnsureDefaultSettings() error {
	for key, value := range DefaultSettings {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
		); err != nil {
			return fmt.Errorf("seeding setting %s: %w", key, err)
		}
	}
	return nil
}

// getSetting decodes the stored value for key into out, falling back to the
// schema default when the row is absent or its value fails to parse. A parse
// failure is logged but never fails the read.
func (s *Store) getSetting(key string, out any) error {
	fallback, ok := DefaultSettings[key]
	if !ok {
		return fmt.Errorf("store: unknown setting key %q", key)
	}
	if err := s.EnsureDefaultSettings(); err != nil {
		return err
	}

	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		raw = fallback
	} else if err != nil {
		return fmt.Errorf("reading setting %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		slog.Warn("unparseable setting value, using default", "key", key, "error", err)
		return json.Unmarshal([]byte(fallback), out)
	}
	return nil
}

// setSetting stores a JSON-encoded value for key.
func (s *Store) setSetting(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding setting %s: %w", key, err)
	}
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, string(data),
	); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	s.notify(Settings)
	return nil
}

// GoalAmount returns the savings goal, or nil when no goal is set.
func (s *Store) GoalAmount() (*int64, error) {
	var v *int64
	err := s.getSetting(KeyGoalAmount, &v)
	return v, err
}

// SetGoalAmount sets the savings goal, clamped to a non-negative whole yen.
func (s *Store) SetGoalAmount(amount int64) error {
	if amount < 0 {
		amount = 0
	}
	return s.setSetting(KeyGoalAmount, amount)
}

// ClearGoalAmount removes the savings goal.
func (s *Store) ClearGoalAmount() error {
	return s.setSetting(KeyGoalAmount, nil)
}

// MentorFrequency returns the per-day tip quota (1-3).
func (s *Store) MentorFrequency() (int, error) {
	var v int
	err := s.getSetting(KeyMentorFrequency, &v)
	return v, err
}

// SetMentorFrequency sets the per-day tip quota, clamped to 1-3.
func (s *Store) SetMentorFrequency(perDay int) error {
	if perDay < 1 {
		perDay = 1
	}
	if perDay > 3 {
		perDay = 3
	}
	return s.setSetting(KeyMentorFrequency, perDay)
}

// MentorMeta returns the tip scheduler state.
func (s *Store) MentorMeta() (model.MentorMeta, error) {
	var v model.MentorMeta
	err := s.getSetting(KeyMentorMeta, &v)
	return v, err
}

// SetMentorMeta stores the tip scheduler state.
func (s *Store) SetMentorMeta(meta model.MentorMeta) error {
	return s.setSetting(KeyMentorMeta, meta)
}

// LastSelectedDate returns the date last chosen on the entry form, or nil.
func (s *Store) LastSelectedDate() (*string, error) {
	var v *string
	err := s.getSetting(KeyLastSelectedDate, &v)
	return v, err
}

// SetLastSelectedDate stores the entry-form date; empty means none.
func (s *Store) SetLastSelectedDate(date string) error {
	if date == "" {
		return s.setSetting(KeyLastSelectedDate, nil)
	}
	return s.setSetting(KeyLastSelectedDate, date)
}

// AutoPresetFromManual reports whether manual entries also create presets.
func (s *Store) AutoPresetFromManual() (bool, error) {
	var v bool
	err := s.getSetting(KeyAutoPresetFromManual, &v)
	return v, err
}

// SetAutoPresetFromManual toggles preset auto-creation from manual entries.
func (s *Store) SetAutoPresetFromManual(enabled bool) error {
	return s.setSetting(KeyAutoPresetFromManual, enabled)
}

// SettingsSnapshot returns every stored setting as key -> decoded JSON value.
// Rows that fail to decode are skipped.
func (s *Store) SettingsSnapshot() (map[string]json.RawMessage, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	snapshot := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if !json.Valid([]byte(value)) {
			slog.Warn("skipping unparseable setting in snapshot", "key", key)
			continue
		}
		snapshot[key] = json.RawMessage(value)
	}
	return snapshot, rows.Err()
}
