package process

import "testing"

// Only harmless PIDs are used: a real kill is exercised by the paginator
// integration tests when the browser is closed.
func TestKillProcessGroup_IgnoredPIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pid  int
	}{
		// 0 would target our own process group; it must be skipped.
		{"zero", 0},
		{"negative", -42},
		{"nonexistent", 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			KillProcessGroup(tt.pid)
		})
	}
}
