// Package backup serializes the whole record store to an interchange
// snapshot and restores it transactionally.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"temperance/internal/model"
	"temperance/internal/store"
)

// FormatVersion tags exported snapshots.
const FormatVersion = "0.1"

// ErrInvalidFormat is returned when a snapshot fails shape validation.
// Validation happens before any mutation, so a rejected import leaves the
// store untouched.
var ErrInvalidFormat = errors.New("backup: invalid format")

// Snapshot is the interchange shape for a whole-store backup.
type Snapshot struct {
	ExportedAt string                     `json:"exportedAt"`
	Version    string                     `json:"version"`
	Gains      []model.Gain               `json:"gains"`
	Presets    []model.Preset             `json:"presets"`
	Settings   map[string]json.RawMessage `json:"settings"`
}

// Export reads the three mutable collections into one snapshot. Defaults
// are reconciled first so the settings map is always complete.
func Export(s *store.Store) (*Snapshot, error) {
	if err := s.EnsureDefaultSettings(); err != nil {
		return nil, err
	}

	gains, err := s.GainsByCreatedAt(false)
	if err != nil {
		return nil, fmt.Errorf("backup: reading gains: %w", err)
	}
	presets, err := s.PresetsByCategory()
	if err != nil {
		return nil, fmt.Errorf("backup: reading presets: %w", err)
	}
	settings, err := s.SettingsSnapshot()
	if err != nil {
		return nil, fmt.Errorf("backup: reading settings: %w", err)
	}

	return &Snapshot{
		ExportedAt: time.Now().Format(time.RFC3339),
		Version:    FormatVersion,
		Gains:      gains,
		Presets:    presets,
		Settings:   settings,
	}, nil
}

// rawSnapshot keeps the array fields as raw JSON so shape validation can
// distinguish "absent or not a sequence" from "empty".
type rawSnapshot struct {
	Gains    json.RawMessage            `json:"gains"`
	Presets  json.RawMessage            `json:"presets"`
	Settings map[string]json.RawMessage `json:"settings"`
}

// Import validates and applies a snapshot: clear gains, presets, and
// settings, repopulate from the snapshot, then re-run default
// reconciliation so keys absent from an older backup regain their defaults.
// The clear-and-repopulate sequence is a single transaction.
func Import(s *store.Store, data []byte) error {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var gains []model.Gain
	if !isJSONArray(raw.Gains) || json.Unmarshal(raw.Gains, &gains) != nil {
		return fmt.Errorf("%w: gains is not a sequence", ErrInvalidFormat)
	}
	var presets []model.Preset
	if !isJSONArray(raw.Presets) || json.Unmarshal(raw.Presets, &presets) != nil {
		return fmt.Errorf("%w: presets is not a sequence", ErrInvalidFormat)
	}

	// Unknown settings keys are dropped; each kept value is re-encoded.
	settings := make(map[string]string)
	for key, value := range raw.Settings {
		if _, known := store.DefaultSettings[key]; !known {
			continue
		}
		settings[key] = string(value)
	}

	if err := s.ReplaceAll(gains, presets, settings); err != nil {
		return fmt.Errorf("backup: restoring store: %w", err)
	}
	return s.EnsureDefaultSettings()
}

// isJSONArray reports whether raw holds a JSON array. An absent field leaves
// raw nil, and a field present as null unmarshals into a nil slice without
// error, so the shape has to be checked on the raw bytes.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
