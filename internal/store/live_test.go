package store

import (
	"testing"
	"time"

	"temperance/internal/model"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestLiveQuery_ReEvaluatesAfterWrite(t *testing.T) {
	s := openTestStore(t)

	q := NewLiveQuery(s, func() ([]model.Gain, error) {
		return s.GainsByCreatedAt(false)
	}, Gains)
	defer q.Close()

	waitFor(t, time.Second, func() bool {
		_, loaded := q.Result()
		return loaded
	})
	gains, _ := q.Result()
	if len(gains) != 0 {
		t.Fatalf("initial result has %d gains, want 0", len(gains))
	}

	if _, err := s.CreateGain(CreateGainInput{Amount: 100, Category: model.CategoryOther}); err != nil {
		t.Fatalf("CreateGain: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		gains, _ := q.Result()
		return len(gains) == 1
	})
}

func TestLiveQuery_IgnoresUnrelatedCollections(t *testing.T) {
	s := openTestStore(t)

	evals := make(chan struct{}, 16)
	q := NewLiveQuery(s, func() (int, error) {
		evals <- struct{}{}
		return s.TipCount()
	}, Tips)
	defer q.Close()

	// Initial evaluation.
	select {
	case <-evals:
	case <-time.After(time.Second):
		t.Fatal("initial evaluation never ran")
	}

	if _, err := s.CreateGain(CreateGainInput{Amount: 100, Category: model.CategoryOther}); err != nil {
		t.Fatalf("CreateGain: %v", err)
	}

	select {
	case <-evals:
		t.Fatal("gain write should not re-run a tips-only query")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLiveQuery_NotLoadedBeforeFirstEvaluation(t *testing.T) {
	s := openTestStore(t)

	block := make(chan struct{})
	q := NewLiveQuery(s, func() (int, error) {
		<-block
		return 1, nil
	}, Gains)
	defer func() {
		q.Close()
	}()

	if _, loaded := q.Result(); loaded {
		t.Fatal("result reported loaded before first evaluation finished")
	}
	close(block)

	waitFor(t, time.Second, func() bool {
		_, loaded := q.Result()
		return loaded
	})
}
