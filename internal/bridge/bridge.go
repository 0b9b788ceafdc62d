package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/logging"
	"github.com/muurk/fairyctl/internal/state"
	"github.com/muurk/fairyctl/internal/version"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type the bridge advertises under
	ServiceType = "_fairy-bridge._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	shutdownGrace = 10 * time.Second
)

// Config holds the bridge configuration
type Config struct {
	Host      string
	Port      int
	LogLevel  string
	Announce  bool   // advertise the bridge via mDNS
	LightName string // friendly name carried in the mDNS TXT record
}

// Bridge exposes one connected light over a WebSocket API. Clients send
// JSON ops and receive reconciled status pushes for every device-side
// change, including ones made with the physical remote.
type Bridge struct {
	config     *Config
	controller *light.Controller
	upgrader   websocket.Upgrader
	httpServer *http.Server
	mdns       *zeroconf.Server

	mu       sync.Mutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// New creates a new Bridge driving the given controller.
func New(config *Config, controller *light.Controller) (*Bridge, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	b := &Bridge{
		config:     config,
		controller: controller,
		sessions:   make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bridge serves LAN clients and enforces no origin policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	controller.OnChange(b.broadcastStatus)
	controller.OnConnectionChange(func(connected bool) {
		logging.Info("Light connection state changed",
			zap.String("address", controller.Address()),
			zap.Bool("connected", connected),
		)
	})

	return b, nil
}

// Start starts the bridge and blocks until shutdown
func (b *Bridge) Start() error {
	addr := fmt.Sprintf("%s:%d", b.config.Host, b.config.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWS)
	mux.HandleFunc("/healthz", b.handleHealth)
	b.httpServer = &http.Server{Addr: addr, Handler: mux}

	logging.Info("Starting Fairy bridge",
		zap.String("addr", addr),
		zap.String("light", b.controller.Address()),
		zap.String("log_level", b.config.LogLevel),
	)

	if b.config.Announce {
		if err := b.announce(); err != nil {
			// Advertisement is a convenience; the bridge still serves
			// clients that know the address.
			logging.Warn("mDNS announcement failed", zap.Error(err))
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		err := b.httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		errChan <- err
	}()

	logging.Info("Bridge listening for clients", zap.String("addr", addr))

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping bridge...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return b.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the bridge
func (b *Bridge) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	if b.mdns != nil {
		b.mdns.Shutdown()
		b.mdns = nil
	}

	if b.httpServer != nil {
		if err := b.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	// Close all client connections; their pumps unwind themselves
	b.mu.Lock()
	for _, s := range b.sessions {
		_ = s.conn.Close()
	}
	b.mu.Unlock()

	// Wait for all session goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All clients disconnected gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(shutdownGrace):
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()

	return nil
}

// ClientCount returns the number of connected WebSocket clients
func (b *Bridge) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// handleWS upgrades one client connection and starts its session.
func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s := newSession(b, conn)
	b.register(s)
	logging.LogConnection(r.RemoteAddr, "client_connected")
	logging.Debug("Session started", zap.String("session_id", s.id))

	// Every client starts with the current snapshot
	s.enqueue(statusFromSnapshot(b.controller.LastKnown(), nil))

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		s.run()
	}()
}

// handleHealth reports bridge and light liveness.
func (b *Bridge) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"light_address":   b.controller.Address(),
		"light_connected": b.controller.Connected(),
		"clients":         b.ClientCount(),
		"version":         version.Version,
	})
}

func (b *Bridge) register(s *session) {
	b.mu.Lock()
	b.sessions[s.id] = s
	b.mu.Unlock()
}

func (b *Bridge) unregister(s *session) {
	b.mu.Lock()
	delete(b.sessions, s.id)
	b.mu.Unlock()
}

// broadcastStatus fans a reconciled change out to every client. Runs on
// the notification goroutine; enqueue never blocks.
func (b *Bridge) broadcastStatus(status state.DeviceStatus, changes state.ChangeSet) {
	event := statusFromSnapshot(status, changes.Fields())

	b.mu.Lock()
	sessions := make([]*session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.Unlock()

	logging.Debug("Broadcasting status change",
		zap.Strings("changed", event.Changed),
		zap.Int("clients", len(sessions)),
	)

	for _, s := range sessions {
		s.enqueue(event)
	}
}

// announce registers the bridge as an mDNS service so clients can find
// it without configuration.
func (b *Bridge) announce() error {
	instance := b.config.LightName
	if instance == "" {
		instance = "fairy-bridge"
	}

	txt := []string{
		"address=" + b.controller.Address(),
		"version=" + version.Version,
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, b.config.Port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	b.mdns = server

	logging.Info("Advertising bridge via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", b.config.Port),
	)
	return nil
}
