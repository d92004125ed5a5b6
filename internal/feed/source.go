package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alfredlabs/missionctl/internal/debug"
)

// The agent writes its dashboard files under this directory inside the
// workspace root.
const dashboardDir = "memory/dashboard"

// Dashboard file names, owned by the agent process.
const (
	StatusFile      = "status.json"
	SessionsFile    = "sessions.json"
	SubAgentLogFile = "subagent-log.jsonl"
	ActivityFile    = "activity-feed.jsonl"
)

// Tail limits for the append-only logs, matching what the agent's own
// dashboard displayed.
const (
	DefaultSubAgentTail = 50
	DefaultActivityTail = 100
)

// maxLineBytes bounds a single JSONL line; longer lines are skipped.
const maxLineBytes = 1 << 20

// Source reads dashboard records from a workspace root. Every load is a
// full synchronous re-read; there is no caching and no file watching.
type Source struct {
	root         string
	subAgentTail int
	activityTail int
}

// New returns a Source rooted at the given workspace directory.
func New(root string) *Source {
	return &Source{
		root:         root,
		subAgentTail: DefaultSubAgentTail,
		activityTail: DefaultActivityTail,
	}
}

// Root returns the workspace root this source reads from.
func (s *Source) Root() string {
	return s.root
}

func (s *Source) path(name string) string {
	return filepath.Join(s.root, dashboardDir, name)
}

// WorkspaceMissing reports whether the workspace root itself is absent.
func (s *Source) WorkspaceMissing() bool {
	info, err := os.Stat(s.root)
	return err != nil || !info.IsDir()
}

// Status reads status.json. It returns nil when the file is missing or
// unparseable; nil means "unknown", never an error.
func (s *Source) Status() *AgentStatus {
	st, _ := s.loadStatus()
	return st
}

func (s *Source) loadStatus() (*AgentStatus, string) {
	data, err := os.ReadFile(s.path(StatusFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ""
		}
		return nil, fmt.Sprintf("%s: %v", StatusFile, err)
	}
	var st AgentStatus
	if err := json.Unmarshal(data, &st); err != nil {
		debug.LogKV("feed", "status unparseable", "error", err)
		return nil, fmt.Sprintf("%s: %v", StatusFile, err)
	}
	return &st, ""
}

// Sessions reads sessions.json. It returns an empty slice when the file is
// missing or unparseable, and skips individual records that do not decode.
func (s *Source) Sessions() []Session {
	sessions, _ := s.loadSessions()
	return sessions
}

func (s *Source) loadSessions() ([]Session, string) {
	data, err := os.ReadFile(s.path(SessionsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ""
		}
		return nil, fmt.Sprintf("%s: %v", SessionsFile, err)
	}

	records, err := sessionRecords(data)
	if err != nil {
		debug.LogKV("feed", "sessions unparseable", "error", err)
		return nil, fmt.Sprintf("%s: %v", SessionsFile, err)
	}

	sessions := make([]Session, 0, len(records))
	skipped := 0
	for _, raw := range records {
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			skipped++
			continue
		}
		sess.normalize()
		sessions = append(sessions, sess)
	}
	if skipped > 0 {
		debug.LogKV("feed", "skipped malformed session records", "count", skipped)
		return sessions, fmt.Sprintf("%s: skipped %d malformed record(s)", SessionsFile, skipped)
	}
	return sessions, ""
}

// sessionRecords accepts either a bare JSON array or the agent's
// {"sessions": [...]} wrapper and returns the raw per-session records.
func sessionRecords(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Sessions []json.RawMessage `json:"sessions"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Sessions, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SubAgentEvents reads the tail of subagent-log.jsonl in file order.
// Malformed lines are skipped, never fatal.
func (s *Source) SubAgentEvents() []SubAgentEvent {
	events, _ := s.loadSubAgentEvents()
	return events
}

func (s *Source) loadSubAgentEvents() ([]SubAgentEvent, string) {
	var events []SubAgentEvent
	note := s.loadJSONL(SubAgentLogFile, func(line []byte) bool {
		var ev SubAgentEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return false
		}
		events = append(events, ev)
		return true
	})
	if len(events) > s.subAgentTail {
		events = events[len(events)-s.subAgentTail:]
	}
	return events, note
}

// ActivityEvents reads the tail of activity-feed.jsonl in file order.
// Malformed lines are skipped, never fatal.
func (s *Source) ActivityEvents() []ActivityEvent {
	events, _ := s.loadActivityEvents()
	return events
}

func (s *Source) loadActivityEvents() ([]ActivityEvent, string) {
	var events []ActivityEvent
	note := s.loadJSONL(ActivityFile, func(line []byte) bool {
		var ev ActivityEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return false
		}
		events = append(events, ev)
		return true
	})
	if len(events) > s.activityTail {
		events = events[len(events)-s.activityTail:]
	}
	return events, note
}

// loadJSONL scans a line-delimited file, calling decode for each non-empty
// line. Lines decode rejects, and lines longer than maxLineBytes, are
// counted and reported as a note; the scan always continues past them.
func (s *Source) loadJSONL(name string, decode func(line []byte) bool) string {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		return fmt.Sprintf("%s: %v", name, err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, 64*1024)

	skipped := 0
	lineNo := 0
	var buf []byte
	oversized := false
	for {
		chunk, rerr := reader.ReadSlice('\n')
		if !oversized {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				// Stop buffering and discard the rest of this line.
				oversized = true
				buf = buf[:0]
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		if rerr != nil && rerr != io.EOF {
			return fmt.Sprintf("%s: %v", name, rerr)
		}

		line := bytes.TrimSpace(buf)
		switch {
		case oversized:
			lineNo++
			skipped++
			debug.LogKV("feed", "skipped oversized line", "file", name, "line", lineNo)
			oversized = false
		case len(line) > 0:
			lineNo++
			if !decode(line) {
				skipped++
				debug.LogKV("feed", "skipped malformed line", "file", name, "line", lineNo)
			}
		case rerr == nil:
			lineNo++
		}
		buf = buf[:0]

		if rerr == io.EOF {
			break
		}
	}
	if skipped > 0 {
		return fmt.Sprintf("%s: skipped %d malformed line(s)", name, skipped)
	}
	return ""
}

// Snapshot performs one full read of all four dashboard files. It never
// fails: a missing workspace or missing files degrade to absent values and
// a diagnostic note.
func (s *Source) Snapshot() Snapshot {
	snap := Snapshot{LoadedAt: time.Now().UTC()}

	if s.WorkspaceMissing() {
		snap.WorkspaceMissing = true
		snap.Notes = append(snap.Notes, fmt.Sprintf("no data source configured: workspace %s does not exist", s.root))
		return snap
	}

	var note string
	snap.Status, note = s.loadStatus()
	snap.Notes = appendNote(snap.Notes, note)
	snap.Sessions, note = s.loadSessions()
	snap.Notes = appendNote(snap.Notes, note)
	snap.SubAgents, note = s.loadSubAgentEvents()
	snap.Notes = appendNote(snap.Notes, note)
	snap.Activity, note = s.loadActivityEvents()
	snap.Notes = appendNote(snap.Notes, note)

	debug.LogKV("feed", "snapshot loaded",
		"sessions", len(snap.Sessions),
		"subagents", len(snap.SubAgents),
		"activity", len(snap.Activity),
		"notes", len(snap.Notes),
	)
	return snap
}

func appendNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}
	return append(notes, note)
}
