package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS gains (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    amount      INTEGER NOT NULL,
    label       TEXT NOT NULL,
    category    TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    preset_id   TEXT
);

CREATE TABLE IF NOT EXISTS presets (
    id          TEXT PRIMARY KEY,
    label       TEXT NOT NULL,
    amount      INTEGER NOT NULL,
    category    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tips (
    id          TEXT PRIMARY KEY,
    text        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gains_created ON gains(created_at);
CREATE INDEX IF NOT EXISTS idx_gains_category ON gains(category);
CREATE INDEX IF NOT EXISTS idx_presets_category ON presets(category);
`
