package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldEnableFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		enabled string
		path    string
		want    bool
	}{
		{name: "disabled by default", enabled: "", path: "", want: false},
		{name: "enabled explicit", enabled: "1", path: "", want: true},
		{name: "enabled via path", enabled: "", path: "/tmp/missionctl.log", want: true},
		{name: "explicit off wins", enabled: "0", path: "/tmp/missionctl.log", want: false},
		{name: "unknown toggle without path", enabled: "maybe", path: "", want: false},
		{name: "unknown toggle with path", enabled: "maybe", path: "/tmp/missionctl.log", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvEnabled, tt.enabled)
			t.Setenv(EnvLogPath, tt.path)
			if got := ShouldEnableFromEnv(); got != tt.want {
				t.Fatalf("ShouldEnableFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitInheritedPath(t *testing.T) {
	defer Close()

	logPath := filepath.Join(t.TempDir(), "aggregate.log")
	if err := os.WriteFile(logPath, []byte("existing\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvLogPath, logPath)
	t.Setenv(EnvProcess, "web-daemon")

	gotPath, err := Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if gotPath != logPath {
		t.Fatalf("Init() path = %q, want %q", gotPath, logPath)
	}

	LogKV("test", "hello", "k", "v")
	Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "existing\n") {
		t.Fatalf("expected existing file content to remain at beginning, got %q", s)
	}
	if !strings.Contains(s, "=== MISSIONCTL DEBUG PROCESS ATTACHED ===") {
		t.Fatalf("missing attach header: %q", s)
	}
	if !strings.Contains(s, "Process: web-daemon") {
		t.Fatalf("missing process label in header: %q", s)
	}
	if !strings.Contains(s, "hello k=v") {
		t.Fatalf("missing emitted debug line: %q", s)
	}
	if !strings.Contains(s, "=== DEBUG LOG CLOSED ===") {
		t.Fatalf("missing close marker: %q", s)
	}
}

func TestPropagatedEnvDisabled(t *testing.T) {
	Close()
	base := []string{"PATH=/bin"}
	got := PropagatedEnv(base, "child")
	if len(got) != 1 || got[0] != "PATH=/bin" {
		t.Fatalf("PropagatedEnv with debug off = %v, want unchanged base", got)
	}
}

func TestLogNoopWhenDisabled(t *testing.T) {
	Close()
	// Must not panic or write anywhere.
	Log("test", "ignored")
	Logf("test", "ignored %d", 1)
	LogKV("test", "ignored", "k", "v")
	if Enabled() {
		t.Fatal("logger should be disabled")
	}
	if Path() != "" {
		t.Fatalf("Path() = %q, want empty", Path())
	}
}
