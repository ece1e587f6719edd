// Command fleetreach starts the Fleet Reach Planner server.
//
// Modes:
//   - server (default): REST API, WebSocket report push and an /mcp endpoint
//   - stdio-mcp: MCP over stdio, backed by a running API on localhost:8080
//     or by an internal one on a loopback port
//
// Sessions are restored from the sessions directory at startup and flushed
// back on shutdown. Map files are reread periodically so edits show up in
// new sessions without a restart.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/fleetreach/api"
	"github.com/wricardo/fleetreach/game/config"
	"github.com/wricardo/fleetreach/game/service"
	"github.com/wricardo/fleetreach/game/session"
	"github.com/wricardo/fleetreach/transport/mcp"
	"github.com/wricardo/fleetreach/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Fleet Reach Planner Server"
)

// Housekeeping periods
const (
	sessionMaxAge     = 24 * time.Hour
	cleanupInterval   = time.Hour
	fsSyncInterval    = 5 * time.Second
	mapReloadInterval = time.Minute
)

var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	mapsDir      = flag.String("maps-dir", getMapsDirDefault(), "Directory containing map files")
	sessionsDir  = flag.String("sessions-dir", "sessions", "Directory where session inputs are persisted")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Expose the server through an ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Reserved ngrok domain (or NGROK_DOMAIN)")
)

// getMapsDirDefault honors MAPS_DIR, then falls back to "maps"
func getMapsDirDefault() string {
	if dir := os.Getenv("MAPS_DIR"); dir != "" {
		return dir
	}
	return "maps"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -maps-dir ./maps          # Serve the built-in map plus ./maps\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                 # Planner tools for a local MCP client\n", os.Args[0])
	}
}

// app holds the wired services of one process
type app struct {
	maps        *config.Manager
	sessions    *session.Manager
	persistence session.SessionPersistence
	planner     service.PlannerService
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	mode := "server"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	a, err := newApp(*mapsDir, *sessionsDir)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	log.Printf("Ready: %s", a.summary())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "server", "http":
		err = a.serveHTTP(ctx, fmt.Sprintf("%s:%d", *host, *port))
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = a.serveStdio(ctx)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
	if err != nil {
		log.Printf("Server error: %v", err)
	}

	if err := a.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: Failed to flush sessions: %v", err)
	}
	log.Println("Server stopped")
}

// newApp wires the map and session managers around the planner service and
// restores persisted sessions.
func newApp(mapsDir, sessionsDir string) (*app, error) {
	maps, err := config.NewManager(mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create map manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, maps)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	return &app{
		maps:        maps,
		sessions:    sessions,
		persistence: persistence,
		planner:     service.NewPlannerService(sessions, maps),
	}, nil
}

// summary describes the loaded maps and restored sessions
func (a *app) summary() string {
	count := 0
	if maps, err := a.maps.ListMaps(); err == nil {
		count = len(maps)
	} else {
		log.Printf("Warning: Failed to list maps: %v", err)
	}
	return fmt.Sprintf("maps=%d default=%s sessions=%d", count, a.maps.DefaultID(), a.sessions.Count())
}

// handler combines the REST API, WebSocket upgrades and the /mcp endpoint.
// MCP tools call back into the REST API at baseURL.
func (a *app) handler(hub *websocket.Hub, baseURL string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(a.planner, hub))
	mux.Handle("/mcp", mcpHandler(mcp.NewClient(baseURL).GetMCPServer()))
	return mux
}

// mcpHandler answers one JSON-RPC message per POST
func mcpHandler(srv *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(srv.HandleMessage(r.Context(), body))
	}
}

// serveHTTP runs the HTTP server, the optional tunnel and housekeeping until
// ctx is cancelled or the listener fails.
func (a *app) serveHTTP(ctx context.Context, addr string) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := a.handler(hub, "http://"+addr)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Listening on http://%s (REST /api, WebSocket /ws?session=<id>, MCP /mcp)", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.maintain(gctx)
		return nil
	})
	if settings, ok := tunnelConfig(); ok {
		g.Go(func() error {
			serveTunnel(gctx, settings, handler)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// maintain expires idle sessions, drops sessions whose files were deleted
// and rereads map files, until ctx is done.
func (a *app) maintain(ctx context.Context) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()
	fsSync := time.NewTicker(fsSyncInterval)
	defer fsSync.Stop()
	reload := time.NewTicker(mapReloadInterval)
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := a.sessions.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		case <-fsSync.C:
			if pruned := a.pruneDeletedSessions(); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d sessions whose files were deleted", pruned)
			}
		case <-reload.C:
			a.maps.RefreshCache()
		}
	}
}

// pruneDeletedSessions removes sessions from memory once their file is gone
func (a *app) pruneDeletedSessions() int {
	pruned := 0
	for _, s := range a.sessions.List() {
		if a.persistence.Exists(s.ID) {
			continue
		}
		if err := a.sessions.DeleteFromMemory(s.ID); err == nil {
			pruned++
		}
	}
	return pruned
}

type tunnelSettings struct {
	authToken string
	domain    string
}

// tunnelConfig reads the ngrok flags and environment. ok is false when the
// tunnel is off or has no auth token.
func tunnelConfig() (settings tunnelSettings, ok bool) {
	enabled := *ngrokEnabled
	if env := os.Getenv("NGROK_ENABLED"); env == "true" || env == "1" {
		enabled = true
	}
	if !enabled {
		return settings, false
	}

	settings.authToken = firstNonEmpty(*ngrokAuth, os.Getenv("NGROK_AUTHTOKEN"), os.Getenv("NGROK_AUTH_TOKEN"))
	settings.domain = firstNonEmpty(*ngrokDomain, os.Getenv("NGROK_DOMAIN"))
	if settings.authToken == "" {
		log.Println("Warning: ngrok enabled without an auth token (-ngrok-auth or NGROK_AUTHTOKEN), skipping tunnel")
		return settings, false
	}
	return settings, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// serveTunnel serves handler through ngrok until ctx is done
func serveTunnel(ctx context.Context, settings tunnelSettings, handler http.Handler) {
	endpoint := ngrokConfig.HTTPEndpoint()
	if settings.domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.domain))
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(settings.authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	log.Printf("Public planner at %s/api/sessions", tun.URL())
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
}

// serveStdio serves the MCP tools over stdio. They call an API already
// listening on localhost:8080 when there is one, otherwise an internal API.
func (a *app) serveStdio(ctx context.Context) error {
	baseURL := "http://localhost:8080"
	if apiAvailable(baseURL) {
		log.Printf("Using external API at %s", baseURL)
	} else {
		internal, shutdown, err := a.startInternalAPI()
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internal
		go a.maintain(ctx)
	}

	log.Printf("MCP stdio server ready (API at %s)", baseURL)
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiAvailable reports whether a planner API answers its health check
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port
func (a *app) startInternalAPI() (baseURL string, shutdown func(), err error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	srv := &http.Server{Handler: api.NewServer(a.planner, hub)}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	baseURL = "http://" + listener.Addr().String()
	log.Printf("Internal HTTP API on %s", baseURL)
	return baseURL, func() {
		srv.Close()
		hub.Stop()
	}, nil
}
