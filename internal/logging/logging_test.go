package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		mode      string
		quiet     bool
		wantDebug bool
	}{
		{"debug", false, true},
		{"release", false, false},
		{"debug", true, false},
	}

	for _, tt := range tests {
		logger, err := New(tt.mode, tt.quiet)
		if err != nil {
			t.Fatalf("New(%q) error = %v", tt.mode, err)
		}
		if got := logger.Core().Enabled(-1); got != tt.wantDebug {
			t.Errorf("New(%q, %v) debug enabled = %v, want %v", tt.mode, tt.quiet, got, tt.wantDebug)
		}
	}
}
