// Package mentor decides when to surface a coaching tip, bounded by the
// user's per-day frequency setting.
package mentor

import (
	"fmt"
	"math/rand"
	"time"

	"temperance/internal/model"
	"temperance/internal/store"
)

// TipContext names the occasion that asked for a tip.
type TipContext string

const (
	ContextLaunch TipContext = "launch"
	ContextGain   TipContext = "gain"
)

// randomThreshold gates unforced calls: roughly half of them show a tip.
const randomThreshold = 0.5

// Scheduler is the date-keyed tip throttle. State lives in the mentorMeta
// setting; concurrent callers may race on its read-modify-write, which is an
// accepted limitation of the single-writer model.
type Scheduler struct {
	store *store.Store

	// Rand returns a value in [0, 1). Replaceable for deterministic tests;
	// the default is intentionally unseeded process randomness.
	Rand func() float64

	// Now is replaceable for tests exercising day rollover.
	Now func() time.Time
}

// New returns a scheduler over the given store.
func New(s *store.Store) *Scheduler {
	return &Scheduler{
		store: s,
		Rand:  rand.Float64,
		Now:   time.Now,
	}
}

// MaybePickTip decides whether to show a tip right now. It returns nil
// without error when the per-day quota is spent, when the coin flip declines
// an unforced call, or when the tip collection is empty. When a tip is
// shown, the day's shown count is persisted.
func (sc *Scheduler) MaybePickTip(_ TipContext, force bool) (*model.Tip, error) {
	if err := sc.store.EnsureDefaultSettings(); err != nil {
		return nil, err
	}

	frequency, err := sc.store.MentorFrequency()
	if err != nil {
		return nil, err
	}
	meta, err := sc.store.MentorMeta()
	if err != nil {
		return nil, err
	}

	today := sc.Now().Format("2006-01-02")
	normalized, changed := normalizeMeta(meta, today)

	if normalized.ShownCount >= frequency {
		if changed {
			if err := sc.store.SetMentorMeta(normalized); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	show := force || sc.Rand() > randomThreshold
	if !show {
		if changed {
			if err := sc.store.SetMentorMeta(normalized); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	tip, err := sc.pickRandomTip()
	if err != nil {
		return nil, err
	}
	if tip == nil {
		return nil, nil
	}

	updated := model.MentorMeta{
		LastShownDate: &today,
		ShownCount:    normalized.ShownCount + 1,
	}
	if err := sc.store.SetMentorMeta(updated); err != nil {
		return nil, err
	}
	return tip, nil
}

// normalizeMeta resets the shown count the first time a new calendar day is
// observed. The reset is not persisted here; callers persist it only when
// the state actually changed.
func normalizeMeta(meta model.MentorMeta, today string) (model.MentorMeta, bool) {
	if meta.LastShownDate == nil || *meta.LastShownDate != today {
		return model.MentorMeta{LastShownDate: &today, ShownCount: 0}, true
	}
	return meta, false
}

// pickRandomTip selects one tip uniformly at random, or nil when the
// collection is empty.
func (sc *Scheduler) pickRandomTip() (*model.Tip, error) {
	tips, err := sc.store.AllTips()
	if err != nil {
		return nil, fmt.Errorf("loading tips: %w", err)
	}
	if len(tips) == 0 {
		return nil, nil
	}
	tip := tips[int(sc.Rand()*float64(len(tips)))%len(tips)]
	return &tip, nil
}
