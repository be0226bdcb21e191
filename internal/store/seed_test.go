package store

import "testing"

func TestEnsureSeedData_Idempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	presetsAfterFirst, err := s.PresetCount()
	if err != nil {
		t.Fatalf("PresetCount: %v", err)
	}
	tipsAfterFirst, err := s.TipCount()
	if err != nil {
		t.Fatalf("TipCount: %v", err)
	}
	if presetsAfterFirst == 0 || tipsAfterFirst == 0 {
		t.Fatalf("seed produced %d presets, %d tips; want both non-zero", presetsAfterFirst, tipsAfterFirst)
	}

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	presetsAfterSecond, _ := s.PresetCount()
	tipsAfterSecond, _ := s.TipCount()

	if presetsAfterSecond != presetsAfterFirst {
		t.Fatalf("presets %d -> %d after second reconcile, want unchanged", presetsAfterFirst, presetsAfterSecond)
	}
	if tipsAfterSecond != tipsAfterFirst {
		t.Fatalf("tips %d -> %d after second reconcile, want unchanged", tipsAfterFirst, tipsAfterSecond)
	}
}

func TestEnsureSeedData_DoesNotOverwriteUserSettings(t *testing.T) {
	s := openTestStore(t)

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := s.SetMentorFrequency(3); err != nil {
		t.Fatalf("SetMentorFrequency: %v", err)
	}

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("reconcile again: %v", err)
	}

	frequency, err := s.MentorFrequency()
	if err != nil {
		t.Fatalf("MentorFrequency: %v", err)
	}
	if frequency != 3 {
		t.Fatalf("frequency = %d after reconcile, want user value 3 preserved", frequency)
	}
}

func TestEnsureSeedData_RefillsEmptiedPresets(t *testing.T) {
	s := openTestStore(t)

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	presets, err := s.PresetsByCategory()
	if err != nil {
		t.Fatalf("PresetsByCategory: %v", err)
	}
	for _, p := range presets {
		if err := s.DeletePreset(p.ID); err != nil {
			t.Fatalf("DeletePreset: %v", err)
		}
	}

	if err := s.EnsureSeedData(); err != nil {
		t.Fatalf("reconcile after emptying: %v", err)
	}
	n, _ := s.PresetCount()
	if n != len(seedPresets) {
		t.Fatalf("got %d presets, want reseeded %d", n, len(seedPresets))
	}
}
