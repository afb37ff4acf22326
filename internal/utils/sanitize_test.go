package utils

import "testing"

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"weekly_call-2024.mp3":         "weekly call 2024",
		"/data/rec/Interview  One.wav": "Interview One",
		"noext":                        "noext",
	}
	for in, want := range tests {
		if got := TitleFromFilename(in); got != want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, def, want string
	}{
		{"Weekly Call 2024", "x", "weekly-call-2024"},
		{"  café & croissants ", "x", "caf-croissants"},
		{"multi   space_name", "x", "multi-space-name"},
		{"", "recording", "recording"},
		{"!!!", "recording", "recording"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in, tt.def); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
