// Package model defines the records and derived-metric types of the
// temperance engine.
package model

// DefaultGainLabel is used when a gain is logged without a label.
const DefaultGainLabel = "節制利益"

// Gain is one logged instance of avoided spending. Amounts are whole yen.
// CreatedAt is an RFC3339 timestamp chosen by the user, not necessarily
// the insertion time.
type Gain struct {
	ID        int64    `json:"id,omitempty"`
	Amount    int64    `json:"amount"`
	Label     string   `json:"label"`
	Category  Category `json:"category"`
	CreatedAt string   `json:"createdAt"`
	PresetID  string   `json:"presetId,omitempty"`
}

// Preset is a reusable quick-entry template. Deleting a preset never
// touches gains that reference it; PresetID on Gain is a weak reference.
type Preset struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Amount   int64    `json:"amount"`
	Category Category `json:"category"`
}

// Tip is an immutable seeded coaching message.
type Tip struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MentorMeta tracks how many tips were shown on the current calendar day.
type MentorMeta struct {
	LastShownDate *string `json:"lastShownDate"`
	ShownCount    int     `json:"shownCount"`
}
