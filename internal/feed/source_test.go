package feed

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeDashboard writes a file into the dashboard directory of a temp
// workspace, creating the directory on first use.
func writeDashboard(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, dashboardDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestStatusMissingFile(t *testing.T) {
	s := New(t.TempDir())
	if got := s.Status(); got != nil {
		t.Fatalf("Status() = %+v, want nil for missing file", got)
	}
}

func TestStatusParses(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, StatusFile,
		`{"online": true, "last_activity": "2026-08-30T10:00:00Z", "active_sessions": 2, "running_subagents": 1}`)

	st := New(root).Status()
	if st == nil {
		t.Fatal("Status() = nil, want record")
	}
	if !st.Online || st.ActiveSessions != 2 || st.RunningSubagents != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.LastActivity.IsZero() {
		t.Fatal("last_activity should be parsed")
	}
}

func TestStatusUnparseableIsAbsent(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, StatusFile, `{not json`)

	if got := New(root).Status(); got != nil {
		t.Fatalf("Status() = %+v, want nil for unparseable file", got)
	}
}

func TestSessionsMissingFile(t *testing.T) {
	if got := New(t.TempDir()).Sessions(); len(got) != 0 {
		t.Fatalf("Sessions() = %v, want empty", got)
	}
}

func TestSessionsBareArray(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SessionsFile, `[{"id":"s1","state":"active"}]`)

	sessions := New(root).Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Key != "s1" {
		t.Errorf("key = %q, want %q (id alias)", sessions[0].Key, "s1")
	}
	if sessions[0].Status != "active" {
		t.Errorf("status = %q, want %q (state alias)", sessions[0].Status, "active")
	}
	if sessions[0].Kind != KindMain {
		t.Errorf("kind = %q, want default %q", sessions[0].Kind, KindMain)
	}
}

func TestSessionsWrappedObject(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SessionsFile,
		`{"sessions":[{"key":"tg-123","kind":"subagent","status":"idle","last_message_preview":"working on it"}]}`)

	sessions := New(root).Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Key != "tg-123" || sessions[0].Kind != KindSubagent || sessions[0].Status != SessionIdle {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}
}

func TestSessionsSkipsMalformedRecords(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SessionsFile, `[{"key":"ok"}, 42, {"key":"also-ok"}]`)

	sessions := New(root).Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d: %+v", len(sessions), sessions)
	}
}

func TestSubAgentEventsSkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SubAgentLogFile,
		`{"event":"spawned","session_key":"sub-1","task":"summarize inbox","timestamp":"2026-08-30T09:00:00Z"}
{bad json
{"event":"completed","session_key":"sub-1","status":"success","timestamp":"2026-08-30T09:05:00Z"}
`)

	events := New(root).SubAgentEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != EventSpawned || events[1].Event != EventCompleted {
		t.Fatalf("events out of file order: %+v", events)
	}
}

func TestActivityEventsTailLimit(t *testing.T) {
	root := t.TempDir()
	var content string
	for i := 0; i < DefaultActivityTail+20; i++ {
		content += `{"type":"task_completed","summary":"done","timestamp":"2026-08-30T10:00:00Z"}` + "\n"
	}
	writeDashboard(t, root, ActivityFile, content)

	events := New(root).ActivityEvents()
	if len(events) != DefaultActivityTail {
		t.Fatalf("expected tail of %d events, got %d", DefaultActivityTail, len(events))
	}
}

func TestActivityEventsBlankLinesIgnored(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, ActivityFile,
		"\n"+`{"type":"session_started","summary":"telegram chat","timestamp":"2026-08-30T08:00:00Z"}`+"\n\n")

	events := New(root).ActivityEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestActivityEventsSkipsOversizedLine(t *testing.T) {
	root := t.TempDir()
	huge := `{"type":"task_completed","summary":"` + strings.Repeat("x", 2*maxLineBytes) + `"}`
	writeDashboard(t, root, ActivityFile,
		`{"type":"session_started","summary":"before","timestamp":"2026-08-30T08:00:00Z"}`+"\n"+
			huge+"\n"+
			`{"type":"session_ended","summary":"after","timestamp":"2026-08-30T09:00:00Z"}`+"\n")

	events := New(root).ActivityEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 events around the oversized line, got %d", len(events))
	}
	if events[0].Summary != "before" || events[1].Summary != "after" {
		t.Fatalf("wrong events survived: %+v", events)
	}
}

func TestSnapshotMissingWorkspace(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	snap := s.Snapshot()

	if !snap.WorkspaceMissing {
		t.Fatal("WorkspaceMissing should be set")
	}
	if snap.Status != nil || len(snap.Sessions) != 0 || len(snap.SubAgents) != 0 || len(snap.Activity) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if len(snap.Notes) != 1 {
		t.Fatalf("expected a single notice, got %v", snap.Notes)
	}
}

func TestSnapshotStatusAbsentSessionsPresent(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SessionsFile, `[{"id":"s1","state":"active"}]`)

	snap := New(root).Snapshot()
	if snap.Status != nil {
		t.Fatalf("status should be absent, got %+v", snap.Status)
	}
	if len(snap.Sessions) != 1 || snap.Sessions[0].Key != "s1" || snap.Sessions[0].Status != "active" {
		t.Fatalf("unexpected sessions: %+v", snap.Sessions)
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, StatusFile, `{"online":false,"active_sessions":1}`)
	writeDashboard(t, root, SessionsFile, `[{"key":"s1","kind":"main","status":"idle"}]`)
	writeDashboard(t, root, SubAgentLogFile, `{"event":"spawned","session_key":"a","timestamp":"2026-08-30T09:00:00Z"}`+"\n")

	s := New(root)
	first := s.Snapshot()
	second := s.Snapshot()

	first.LoadedAt = second.LoadedAt
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ over unchanged files:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSnapshotCollectsNotes(t *testing.T) {
	root := t.TempDir()
	writeDashboard(t, root, SubAgentLogFile, "{bad\n")
	writeDashboard(t, root, ActivityFile, "{also bad\n")

	snap := New(root).Snapshot()
	if len(snap.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %v", snap.Notes)
	}
}
