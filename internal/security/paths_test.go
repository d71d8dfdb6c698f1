package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	floors := filepath.Join(tmpDir, "floors")
	elsewhere := filepath.Join(tmpDir, "elsewhere")
	for _, dir := range []string{floors, elsewhere} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
	}
	if err := os.Symlink(elsewhere, filepath.Join(floors, "link")); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{"file in directory", filepath.Join(floors, "floor1.png"), false},
		{"nested file", filepath.Join(floors, "a", "floor1.png"), false},
		{"dot dot label", filepath.Join(floors, "../elsewhere/floor1.png"), true},
		{"parent itself", filepath.Join(floors, ".."), true},
		{"through symlink", filepath.Join(floors, "link", "floor1.png"), true},
		{"absolute elsewhere", "/etc/passwd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.path, floors)
			if tt.wantError && err == nil {
				t.Errorf("expected error for %s", tt.path)
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error for %s: %v", tt.path, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"floor2", "floor2"},
		{"Floor 2 / west wing", "Floor_2_west_wing"},
		{"../../etc/passwd", "etc_passwd"},
		{"walk-2015-10-15", "walk-2015-10-15"},
		{"", "unknown"},
		{"...", "unknown"},
		{"é", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := SanitizeFilename(strings.Repeat("a", 300))
	if len(long) != maxFilenameLen {
		t.Errorf("expected length %d, got %d", maxFilenameLen, len(long))
	}
}
