package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/alfredlabs/missionctl/internal/debug"
)

type wsEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// handleFeedWebSocket streams dashboard snapshots to the browser. A full
// snapshot is sent on connect and then on every push interval until the
// client disconnects.
func (srv *Server) handleFeedWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer ws.CloseNow()

	ctx := r.Context()

	debug.LogKV("webserver", "feed websocket connected", "remote", r.RemoteAddr)

	if err := srv.writeSnapshot(ctx, ws); err != nil {
		return
	}

	ticker := time.NewTicker(srv.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := srv.writeSnapshot(ctx, ws); err != nil {
				debug.LogKV("webserver", "feed websocket closed", "remote", r.RemoteAddr, "error", err)
				return
			}
		}
	}
}

func (srv *Server) writeSnapshot(ctx context.Context, ws *websocket.Conn) error {
	snap := srv.source.Snapshot()
	envelope := wsEnvelope{
		Type: "snapshot",
		Data: dashboardResponse{
			Snapshot:         snap,
			ActiveSessions:   snap.ActiveSessions(),
			RunningSubagents: snap.RunningSubagents(),
		},
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}
