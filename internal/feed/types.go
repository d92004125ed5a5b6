// Package feed reads the dashboard files the Alfred agent writes into its
// workspace and exposes them as read-only snapshots. All file shapes are
// owned by the agent process; this package only consumes them, and every
// load degrades to an empty or absent value instead of failing.
package feed

import (
	"encoding/json"
	"strings"
	"time"
)

// Time is a tolerant timestamp. The agent writes RFC3339 strings, with or
// without fractional seconds or a zone suffix; anything unparseable decodes
// to the zero time rather than failing the record.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// AgentStatus is the singleton record in status.json. A nil *AgentStatus
// means the file is absent or unparseable and the agent state is unknown.
type AgentStatus struct {
	Online           bool `json:"online"`
	LastActivity     Time `json:"last_activity"`
	ActiveSessions   int  `json:"active_sessions"`
	RunningSubagents int  `json:"running_subagents"`
}

// Session kinds.
const (
	KindMain     = "main"
	KindSubagent = "subagent"
	KindCron     = "cron"
)

// Session states.
const (
	SessionActive = "active"
	SessionIdle   = "idle"
	SessionClosed = "closed"
)

// Session is one entry of sessions.json. The agent has written both a bare
// array and a {"sessions": [...]} wrapper, and both key/id and status/state
// field names; decoding accepts all of them and normalize folds the aliases.
type Session struct {
	Key                string `json:"key"`
	ID                 string `json:"id,omitempty"`
	Kind               string `json:"kind"`
	Status             string `json:"status"`
	State              string `json:"state,omitempty"`
	LastActivity       Time   `json:"last_activity"`
	LastMessagePreview string `json:"last_message_preview,omitempty"`
}

// normalize folds field aliases and fills the defaults the original feed
// leaves implicit.
func (s *Session) normalize() {
	if s.Key == "" {
		s.Key = s.ID
	}
	if s.Status == "" {
		s.Status = s.State
	}
	if s.Status == "" {
		s.Status = SessionActive
	}
	if s.Kind == "" {
		s.Kind = KindMain
	}
}

// Sub-agent event types.
const (
	EventSpawned   = "spawned"
	EventCompleted = "completed"
)

// SubAgentEvent is one line of subagent-log.jsonl.
type SubAgentEvent struct {
	Event      string `json:"event"`
	SessionKey string `json:"session_key"`
	Task       string `json:"task,omitempty"`
	Status     string `json:"status,omitempty"`
	Timestamp  Time   `json:"timestamp"`
}

// Activity event types written by the agent.
const (
	TypeSessionStarted     = "session_started"
	TypeSessionEnded       = "session_ended"
	TypeTaskStarted        = "task_started"
	TypeTaskCompleted      = "task_completed"
	TypeTaskFailed         = "task_failed"
	TypeDeliverableCreated = "deliverable_created"
	TypeCronExecuted       = "cron_executed"
	TypeErrorOccurred      = "error_occurred"
)

// ActivityEvent is one line of activity-feed.jsonl.
type ActivityEvent struct {
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Timestamp Time   `json:"timestamp"`
}

// Snapshot is one full read of the workspace. Collections are in file order
// (chronological for the append-only logs); views decide display order.
type Snapshot struct {
	Status    *AgentStatus    `json:"status"`
	Sessions  []Session       `json:"sessions"`
	SubAgents []SubAgentEvent `json:"subagents"`
	Activity  []ActivityEvent `json:"activity"`

	LoadedAt time.Time `json:"loaded_at"`

	// WorkspaceMissing is set when the workspace root itself does not
	// exist; the UI shows a single "no data source configured" notice
	// instead of four per-file errors.
	WorkspaceMissing bool `json:"workspace_missing,omitempty"`

	// Notes are non-fatal per-file diagnostics from the last load.
	Notes []string `json:"notes,omitempty"`
}
