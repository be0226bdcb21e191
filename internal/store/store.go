// Package store provides the SQLite-backed record store holding gains,
// presets, settings, and tips.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"temperance/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// Collection identifies one of the four record collections for change
// notification purposes.
type Collection int

const (
	Gains Collection = iota
	Presets
	Settings
	Tips
)

// Store is the single-writer local document store.
type Store struct {
	db *sql.DB

	mu        sync.Mutex
	nextSubID int
	subs      map[int]subscriber
}

type subscriber struct {
	ch   chan Collection
	cols map[Collection]bool
}

// Open opens or creates the store database at the given path.
// Opening an existing database is idempotent: the schema uses
// CREATE IF NOT EXISTS throughout and never duplicates collections.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, subs: make(map[int]subscriber)}, nil
}

// Close closes the store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateGainInput is the caller-facing shape for logging a gain.
// Amount may be fractional; it is rounded and clamped at write time.
type CreateGainInput struct {
	Amount    float64
	Label     string
	Category  model.Category
	PresetID  string
	CreatedAt string
}

// CreateGain persists a new gain and returns it with its assigned id.
// The amount is rounded to the nearest whole yen and never negative;
// an empty label falls back to the default; an empty timestamp becomes now.
func (s *Store) CreateGain(in CreateGainInput) (model.Gain, error) {
	if !in.Category.Valid() {
		return model.Gain{}, fmt.Errorf("store: invalid category %q", in.Category)
	}

	g := model.Gain{
		Amount:    int64(math.Max(0, math.Round(in.Amount))),
		Label:     in.Label,
		Category:  in.Category,
		CreatedAt: in.CreatedAt,
		PresetID:  in.PresetID,
	}
	if g.Label == "" {
		g.Label = model.DefaultGainLabel
	}
	if g.CreatedAt == "" {
		g.CreatedAt = time.Now().Format(time.RFC3339)
	}

	res, err := s.db.Exec(
		`INSERT INTO gains (amount, label, category, created_at, preset_id) VALUES (?, ?, ?, ?, ?)`,
		g.Amount, g.Label, string(g.Category), g.CreatedAt, nullable(g.PresetID),
	)
	if err != nil {
		return model.Gain{}, fmt.Errorf("inserting gain: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return model.Gain{}, err
	}

	s.notify(Gains)
	return g, nil
}

// GainPatch holds the fields of a gain that may be updated in place.
// Nil fields are left untouched.
type GainPatch struct {
	Amount    *float64
	Label     *string
	Category  *model.Category
	CreatedAt *string
}

// UpdateGain applies a partial patch to an existing gain.
func (s *Store) UpdateGain(id int64, patch GainPatch) error {
	g, err := s.GetGain(id)
	if err != nil {
		return err
	}

	if patch.Amount != nil {
		g.Amount = int64(math.Max(0, math.Round(*patch.Amount)))
	}
	if patch.Label != nil {
		g.Label = *patch.Label
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return fmt.Errorf("store: invalid category %q", *patch.Category)
		}
		g.Category = *patch.Category
	}
	if patch.CreatedAt != nil {
		g.CreatedAt = *patch.CreatedAt
	}

	_, err = s.db.Exec(
		`UPDATE gains SET amount = ?, label = ?, category = ?, created_at = ? WHERE id = ?`,
		g.Amount, g.Label, string(g.Category), g.CreatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("updating gain %d: %w", id, err)
	}

	s.notify(Gains)
	return nil
}

// GetGain returns the gain with the given id.
func (s *Store) GetGain(id int64) (model.Gain, error) {
	row := s.db.QueryRow(
		`SELECT id, amount, label, category, created_at, preset_id FROM gains WHERE id = ?`, id)
	return scanGain(row)
}

// DeleteGain removes a gain.
func (s *Store) DeleteGain(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM gains WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting gain %d: %w", id, err)
	}
	s.notify(Gains)
	return nil
}

// GainsByCreatedAt returns all gains ordered by creation timestamp.
func (s *Store) GainsByCreatedAt(descending bool) ([]model.Gain, error) {
	order := "ASC"
	if descending {
		order = "DESC"
	}
	rows, err := s.db.Query(
		`SELECT id, amount, label, category, created_at, preset_id FROM gains ORDER BY created_at ` + order)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var gains []model.Gain
	for rows.Next() {
		g, err := scanGain(rows)
		if err != nil {
			return nil, err
		}
		gains = append(gains, g)
	}
	return gains, rows.Err()
}

// PutPreset inserts or replaces a preset. A missing id gets a fresh UUID.
func (s *Store) PutPreset(p model.Preset) (model.Preset, error) {
	if !p.Category.Valid() {
		return model.Preset{}, fmt.Errorf("store: invalid category %q", p.Category)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Amount < 0 {
		p.Amount = 0
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO presets (id, label, amount, category) VALUES (?, ?, ?, ?)`,
		p.ID, p.Label, p.Amount, string(p.Category),
	)
	if err != nil {
		return model.Preset{}, fmt.Errorf("saving preset: %w", err)
	}

	s.notify(Presets)
	return p, nil
}

// DeletePreset removes a preset. Gains referencing it keep their preset_id;
// the reference is weak and never dereferenced for integrity.
func (s *Store) DeletePreset(id string) error {
	if _, err := s.db.Exec(`DELETE FROM presets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting preset %s: %w", id, err)
	}
	s.notify(Presets)
	return nil
}

// PresetsByCategory returns all presets ordered by category.
func (s *Store) PresetsByCategory() ([]model.Preset, error) {
	rows, err := s.db.Query(`SELECT id, label, amount, category FROM presets ORDER BY category, label`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var presets []model.Preset
	for rows.Next() {
		var p model.Preset
		var cat string
		if err := rows.Scan(&p.ID, &p.Label, &p.Amount, &cat); err != nil {
			return nil, err
		}
		p.Category = model.Category(cat)
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// PresetCount returns the number of stored presets.
func (s *Store) PresetCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM presets`).Scan(&n)
	return n, err
}

// AllTips returns every seeded tip.
func (s *Store) AllTips() ([]model.Tip, error) {
	rows, err := s.db.Query(`SELECT id, text FROM tips ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tips []model.Tip
	for rows.Next() {
		var t model.Tip
		if err := rows.Scan(&t.ID, &t.Text); err != nil {
			return nil, err
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}

// TipCount returns the number of seeded tips.
func (s *Store) TipCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tips`).Scan(&n)
	return n, err
}

// ReplaceAll atomically clears gains, presets, and settings and repopulates
// them from a backup snapshot. Settings values are raw JSON strings keyed by
// setting name. Readers never observe a partially-cleared store: the whole
// sequence runs in one transaction.
func (s *Store) ReplaceAll(gains []model.Gain, presets []model.Preset, settings map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"gains", "presets", "settings"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, g := range gains {
		if g.ID > 0 {
			_, err = tx.Exec(
				`INSERT INTO gains (id, amount, label, category, created_at, preset_id) VALUES (?, ?, ?, ?, ?, ?)`,
				g.ID, g.Amount, g.Label, string(g.Category), g.CreatedAt, nullable(g.PresetID),
			)
		} else {
			_, err = tx.Exec(
				`INSERT INTO gains (amount, label, category, created_at, preset_id) VALUES (?, ?, ?, ?, ?)`,
				g.Amount, g.Label, string(g.Category), g.CreatedAt, nullable(g.PresetID),
			)
		}
		if err != nil {
			return fmt.Errorf("restoring gain: %w", err)
		}
	}

	for _, p := range presets {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO presets (id, label, amount, category) VALUES (?, ?, ?, ?)`,
			p.ID, p.Label, p.Amount, string(p.Category),
		); err != nil {
			return fmt.Errorf("restoring preset: %w", err)
		}
	}

	for key, value := range settings {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value,
		); err != nil {
			return fmt.Errorf("restoring setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notify(Gains, Presets, Settings)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGain(row rowScanner) (model.Gain, error) {
	var g model.Gain
	var cat string
	var presetID sql.NullString
	if err := row.Scan(&g.ID, &g.Amount, &g.Label, &cat, &g.CreatedAt, &presetID); err != nil {
		return model.Gain{}, err
	}
	g.Category = model.Category(cat)
	if presetID.Valid {
		g.PresetID = presetID.String
	}
	return g, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
