package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfredlabs/missionctl/internal/feed"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "memory", "dashboard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"status.json":         `{"online":true,"last_activity":"2026-08-30T10:00:00Z","active_sessions":2,"running_subagents":1}`,
		"sessions.json":       `{"sessions":[{"key":"tg-1","kind":"main","status":"active"},{"key":"sub-2","kind":"subagent","status":"idle"}]}`,
		"subagent-log.jsonl":  `{"event":"spawned","session_key":"sub-2","task":"digest"}` + "\n" + `{"event":"spawned","session_key":"sub-3","task":"watch"}` + "\n" + `{"event":"completed","session_key":"sub-3","status":"success"}` + "\n",
		"activity-feed.jsonl": `{"type":"task_completed","summary":"digest sent"}` + "\n" + `{"type":"error_occurred","summary":"imap timeout"}` + "\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return New(feed.New(root), Options{})
}

func doRequest(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status == nil || !resp.Status.Online || resp.Status.ActiveSessions != 2 {
		t.Fatalf("unexpected status: %+v", resp.Status)
	}
}

func TestHandleStatusAbsentFile(t *testing.T) {
	srv := New(feed.New(t.TempDir()), Options{})
	rec := doRequest(t, srv, "/api/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != nil {
		t.Fatalf("status should be null, got %+v", resp.Status)
	}
}

func TestHandleSessionsKindFilter(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/sessions?kind=subagent")

	var resp sessionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].Key != "sub-2" {
		t.Fatalf("unexpected sessions: %+v", resp.Sessions)
	}
}

func TestHandleSubAgentsSplit(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/subagents")

	var resp subAgentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Running) != 1 || resp.Running[0].SessionKey != "sub-2" {
		t.Fatalf("unexpected running: %+v", resp.Running)
	}
	if len(resp.Completed) != 1 || resp.Completed[0].SessionKey != "sub-3" {
		t.Fatalf("unexpected completed: %+v", resp.Completed)
	}
}

func TestHandleActivityCategoryFilter(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/activity?category=errors")

	var resp activityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != "error_occurred" {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
}

func TestHandleDashboard(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/dashboard")

	var resp struct {
		ActiveSessions   int               `json:"active_sessions"`
		RunningSubagents int               `json:"running_subagents"`
		Status           *feed.AgentStatus `json:"status"`
		Sessions         []feed.Session    `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// status.json counters win over the derived ones
	if resp.ActiveSessions != 2 || resp.RunningSubagents != 1 {
		t.Fatalf("counters = %d/%d, want 2/1", resp.ActiveSessions, resp.RunningSubagents)
	}
	if len(resp.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(resp.Sessions))
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/api/nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestIndexServed(t *testing.T) {
	srv := newTestServer(t)
	rec := doRequest(t, srv, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestAuthProtectsAPI(t *testing.T) {
	root := t.TempDir()
	srv := New(feed.New(root), Options{AuthToken: "tok"})

	rec := doRequest(t, srv, "/api/status")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSchemeAndAddr(t *testing.T) {
	srv := New(feed.New(t.TempDir()), Options{Host: "0.0.0.0", Port: 9000})
	if srv.Scheme() != "http" {
		t.Fatalf("scheme = %q", srv.Scheme())
	}
	if srv.Addr() != "0.0.0.0:9000" {
		t.Fatalf("addr = %q", srv.Addr())
	}

	tlsSrv := New(feed.New(t.TempDir()), Options{TLSMode: "self-signed"})
	if tlsSrv.Scheme() != "https" {
		t.Fatalf("tls scheme = %q", tlsSrv.Scheme())
	}
}
