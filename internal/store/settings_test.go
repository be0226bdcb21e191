package store

import "testing"

func TestSettings_Defaults(t *testing.T) {
	s := openTestStore(t)

	goal, err := s.GoalAmount()
	if err != nil {
		t.Fatalf("GoalAmount: %v", err)
	}
	if goal != nil {
		t.Fatalf("default goal = %v, want nil", *goal)
	}

	frequency, err := s.MentorFrequency()
	if err != nil {
		t.Fatalf("MentorFrequency: %v", err)
	}
	if frequency != 1 {
		t.Fatalf("default frequency = %d, want 1", frequency)
	}

	meta, err := s.MentorMeta()
	if err != nil {
		t.Fatalf("MentorMeta: %v", err)
	}
	if meta.LastShownDate != nil || meta.ShownCount != 0 {
		t.Fatalf("default meta = %+v, want {nil 0}", meta)
	}

	autoPreset, err := s.AutoPresetFromManual()
	if err != nil {
		t.Fatalf("AutoPresetFromManual: %v", err)
	}
	if autoPreset {
		t.Fatal("default autoPresetFromManual = true, want false")
	}
}

func TestSetGoalAmount_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetGoalAmount(50000); err != nil {
		t.Fatalf("SetGoalAmount: %v", err)
	}
	goal, err := s.GoalAmount()
	if err != nil {
		t.Fatalf("GoalAmount: %v", err)
	}
	if goal == nil || *goal != 50000 {
		t.Fatalf("goal = %v, want 50000", goal)
	}

	if err := s.ClearGoalAmount(); err != nil {
		t.Fatalf("ClearGoalAmount: %v", err)
	}
	goal, err = s.GoalAmount()
	if err != nil {
		t.Fatalf("GoalAmount after clear: %v", err)
	}
	if goal != nil {
		t.Fatalf("goal = %v after clear, want nil", *goal)
	}
}

func TestSetMentorFrequency_Clamps(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{2, 2},
		{7, 3},
	}

	for _, tt := range tests {
		if err := s.SetMentorFrequency(tt.in); err != nil {
			t.Fatalf("SetMentorFrequency(%d): %v", tt.in, err)
		}
		got, err := s.MentorFrequency()
		if err != nil {
			t.Fatalf("MentorFrequency: %v", err)
		}
		if got != tt.want {
			t.Fatalf("frequency for input %d = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGetSetting_CorruptValueFallsBackToDefault(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		KeyMentorFrequency, "{not json",
	); err != nil {
		t.Fatalf("corrupting setting: %v", err)
	}

	frequency, err := s.MentorFrequency()
	if err != nil {
		t.Fatalf("MentorFrequency on corrupt value: %v", err)
	}
	if frequency != 1 {
		t.Fatalf("frequency = %d, want default 1", frequency)
	}
}

func TestSetLastSelectedDate_EmptyMeansNone(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetLastSelectedDate("2025-08-31"); err != nil {
		t.Fatalf("SetLastSelectedDate: %v", err)
	}
	date, err := s.LastSelectedDate()
	if err != nil {
		t.Fatalf("LastSelectedDate: %v", err)
	}
	if date == nil || *date != "2025-08-31" {
		t.Fatalf("date = %v, want 2025-08-31", date)
	}

	if err := s.SetLastSelectedDate(""); err != nil {
		t.Fatalf("SetLastSelectedDate empty: %v", err)
	}
	date, err = s.LastSelectedDate()
	if err != nil {
		t.Fatalf("LastSelectedDate: %v", err)
	}
	if date != nil {
		t.Fatalf("date = %v, want nil", *date)
	}
}
