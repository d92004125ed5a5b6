package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/alfredlabs/missionctl/internal/debug"
	"github.com/alfredlabs/missionctl/internal/feed"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		debug.LogKV("webserver", "failed to encode json response", "status", status, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusResponse wraps the agent status record; the record is null when
// status.json is absent or unreadable.
type statusResponse struct {
	Status *feed.AgentStatus `json:"status"`
}

func (srv *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: srv.source.Status()})
}

type sessionsResponse struct {
	Sessions []feed.Session `json:"sessions"`
}

func (srv *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := srv.source.Sessions()
	if kind := r.URL.Query().Get("kind"); kind != "" {
		sessions = feed.FilterSessions(sessions, kind)
	}
	if sessions == nil {
		sessions = []feed.Session{}
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: sessions})
}

// subAgentsResponse splits the task log into running and completed sets.
type subAgentsResponse struct {
	Running   []feed.SubAgentEvent `json:"running"`
	Completed []feed.SubAgentEvent `json:"completed"`
}

func (srv *Server) handleSubAgents(w http.ResponseWriter, r *http.Request) {
	events := srv.source.SubAgentEvents()
	resp := subAgentsResponse{
		Running:   feed.Running(events),
		Completed: feed.Completed(events),
	}
	if resp.Running == nil {
		resp.Running = []feed.SubAgentEvent{}
	}
	if resp.Completed == nil {
		resp.Completed = []feed.SubAgentEvent{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type activityResponse struct {
	Events []feed.ActivityEvent `json:"events"`
}

func (srv *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	events := srv.source.ActivityEvents()
	if cat := r.URL.Query().Get("category"); cat != "" {
		events = feed.FilterActivity(events, feed.Category(cat))
	}
	if events == nil {
		events = []feed.ActivityEvent{}
	}
	writeJSON(w, http.StatusOK, activityResponse{Events: events})
}

// dashboardResponse is the aggregate snapshot plus derived counters, the
// single fetch the web page needs on load.
type dashboardResponse struct {
	feed.Snapshot
	ActiveSessions   int `json:"active_sessions"`
	RunningSubagents int `json:"running_subagents"`
}

func (srv *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := srv.source.Snapshot()
	writeJSON(w, http.StatusOK, dashboardResponse{
		Snapshot:         snap,
		ActiveSessions:   snap.ActiveSessions(),
		RunningSubagents: snap.RunningSubagents(),
	})
}
