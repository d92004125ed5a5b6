package webserver

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alfredlabs/missionctl/internal/debug"
	"github.com/alfredlabs/missionctl/internal/feed"
)

//go:embed static
var staticFS embed.FS

const defaultPushInterval = 5 * time.Second

// Options configures web server behavior.
type Options struct {
	Host      string
	Port      int
	TLSMode   string
	CertFile  string
	KeyFile   string
	AuthToken string
	RateLimit float64

	// PushInterval is how often the feed WebSocket sends a fresh snapshot.
	PushInterval time.Duration
}

// Server hosts the read-only dashboard API and the live feed WebSocket.
type Server struct {
	source       *feed.Source
	httpServer   *http.Server
	host         string
	port         int
	tlsMode      string
	certFile     string
	keyFile      string
	authToken    string
	rateLimit    float64
	pushInterval time.Duration
}

// New constructs a web server over the given workspace feed.
func New(source *feed.Source, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "127.0.0.1"
	}

	port := opts.Port
	if port <= 0 {
		port = 8321
	}

	pushInterval := opts.PushInterval
	if pushInterval <= 0 {
		pushInterval = defaultPushInterval
	}

	srv := &Server{
		source:       source,
		host:         host,
		port:         port,
		tlsMode:      strings.TrimSpace(opts.TLSMode),
		certFile:     strings.TrimSpace(opts.CertFile),
		keyFile:      strings.TrimSpace(opts.KeyFile),
		authToken:    strings.TrimSpace(opts.AuthToken),
		rateLimit:    opts.RateLimit,
		pushInterval: pushInterval,
	}

	mux := http.NewServeMux()
	srv.setupRoutes(mux)

	handler := corsMiddleware(logMiddleware(rateLimitMiddleware(srv.rateLimit, authMiddleware(srv.authToken, mux))))
	srv.httpServer = &http.Server{
		Addr:              srv.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv
}

// Start starts the server in a background goroutine and returns immediately.
func (srv *Server) Start() error {
	if srv.httpServer == nil {
		return fmt.Errorf("webserver not initialized")
	}

	if srv.tlsMode != "" {
		var cert tls.Certificate
		var err error

		switch srv.tlsMode {
		case "self-signed":
			cert, err = generateSelfSignedCert(srv.host)
			if err != nil {
				return fmt.Errorf("generating self-signed certificate: %w", err)
			}
		case "custom":
			cert, err = tls.LoadX509KeyPair(srv.certFile, srv.keyFile)
			if err != nil {
				return fmt.Errorf("loading TLS certificate: %w", err)
			}
		default:
			return fmt.Errorf("unsupported TLS mode: %q", srv.tlsMode)
		}

		srv.httpServer.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
	}

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return err
	}

	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		srv.port = tcpAddr.Port
		srv.httpServer.Addr = srv.Addr()
	}

	go func() {
		var err error
		if srv.tlsMode != "" {
			err = srv.httpServer.ServeTLS(ln, "", "")
		} else {
			err = srv.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.LogKV("webserver", "server stopped with error", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (srv *Server) Shutdown(ctx context.Context) error {
	if srv.httpServer == nil {
		return nil
	}
	return srv.httpServer.Shutdown(ctx)
}

// Addr returns the bound host:port address.
func (srv *Server) Addr() string {
	return net.JoinHostPort(srv.host, strconv.Itoa(srv.port))
}

// Scheme returns the URL scheme for the running server.
func (srv *Server) Scheme() string {
	if srv.tlsMode != "" {
		return "https"
	}
	return "http"
}

func (srv *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/sessions", srv.handleSessions)
	mux.HandleFunc("GET /api/subagents", srv.handleSubAgents)
	mux.HandleFunc("GET /api/activity", srv.handleActivity)
	mux.HandleFunc("GET /api/dashboard", srv.handleDashboard)

	mux.HandleFunc("GET /ws/feed", srv.handleFeedWebSocket)

	// Catch-all for unknown API routes
	mux.HandleFunc("GET /api/{rest...}", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	// Static files
	staticHandler := http.FileServer(http.FS(staticFS))
	mux.Handle("GET /static/", staticHandler)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "failed to load index", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
}
