package cli

import "testing"

func TestFormatYen(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "¥0"},
		{150, "¥150"},
		{1234567, "¥1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatYen(tt.in); got != tt.want {
			t.Fatalf("FormatYen(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-08-31", "2025-08-31"},
		{"bad", "bad"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Fatalf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("empty series rendered %q", got)
	}
	if got := RenderSparkline([]int64{0, 0, 0}); len(got) == 0 {
		t.Fatal("all-zero series should still render bars")
	}
}
