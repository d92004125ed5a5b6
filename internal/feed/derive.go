package feed

// Derived projections over a snapshot. These mirror the groupings the
// agent's dashboard displayed; nothing here is validated against the
// source files, it is display-only bookkeeping.

// ActiveSessions counts sessions currently in the active state.
func (sn Snapshot) ActiveSessions() int {
	n := 0
	for _, s := range sn.Sessions {
		if s.Status == SessionActive {
			n++
		}
	}
	return n
}

// RunningSubagents returns the count reported by status.json when present,
// falling back to the number of running entries in the sub-agent log.
func (sn Snapshot) RunningSubagents() int {
	if sn.Status != nil {
		return sn.Status.RunningSubagents
	}
	return len(Running(sn.SubAgents))
}

// Running returns spawn events with no later completion for the same
// session key, in file order.
func Running(events []SubAgentEvent) []SubAgentEvent {
	completed := make(map[string]bool)
	for _, ev := range events {
		if ev.Event == EventCompleted {
			completed[ev.SessionKey] = true
		}
	}
	var running []SubAgentEvent
	for _, ev := range events {
		if ev.Event == EventSpawned && !completed[ev.SessionKey] {
			running = append(running, ev)
		}
	}
	return running
}

// Completed returns completion events in file order.
func Completed(events []SubAgentEvent) []SubAgentEvent {
	var done []SubAgentEvent
	for _, ev := range events {
		if ev.Event == EventCompleted {
			done = append(done, ev)
		}
	}
	return done
}

// FilterSessions returns sessions of the given kind; an empty kind keeps
// everything.
func FilterSessions(sessions []Session, kind string) []Session {
	if kind == "" {
		return sessions
	}
	var out []Session
	for _, s := range sessions {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Category groups activity event types for filtering.
type Category string

const (
	CategoryAll          Category = ""
	CategorySessions     Category = "sessions"
	CategoryTasks        Category = "tasks"
	CategoryDeliverables Category = "deliverables"
	CategoryErrors       Category = "errors"
)

// categoryTypes maps each category to the event types it admits.
// task_failed counts as both a task and an error, as in the original feed.
var categoryTypes = map[Category][]string{
	CategorySessions:     {TypeSessionStarted, TypeSessionEnded},
	CategoryTasks:        {TypeTaskStarted, TypeTaskCompleted, TypeTaskFailed},
	CategoryDeliverables: {TypeDeliverableCreated},
	CategoryErrors:       {TypeErrorOccurred, TypeTaskFailed},
}

// Categories lists the filter cycle order for UIs.
func Categories() []Category {
	return []Category{CategoryAll, CategorySessions, CategoryTasks, CategoryDeliverables, CategoryErrors}
}

// FilterActivity returns events belonging to the category; CategoryAll
// keeps everything.
func FilterActivity(events []ActivityEvent, cat Category) []ActivityEvent {
	if cat == CategoryAll {
		return events
	}
	allowed := make(map[string]bool)
	for _, t := range categoryTypes[cat] {
		allowed[t] = true
	}
	var out []ActivityEvent
	for _, ev := range events {
		if allowed[ev.Type] {
			out = append(out, ev)
		}
	}
	return out
}
