// Package server exposes the daemon's status over JSON-RPC 2.0: an HTTP
// bridge on /jsonrpc and a websocket endpoint on /ws which also
// receives every notice as a push. Handlers only read the snapshot the
// control loop publishes; nothing here mutates daemon state.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/autoattend/pkg/logger"
)

// ErrDisabled is returned by Start when no secret is configured.
var ErrDisabled = errors.New("server: RPC disabled (no secret configured)")

// RPCConfig configures the endpoint.
type RPCConfig struct {
	Listen    string // loopback address, e.g. 127.0.0.1:7311
	Secret    string // bearer token; empty disables the endpoint
	Version   string
	Commit    string
	BuildType string
}

// RPCServer serves the status methods.
type RPCServer struct {
	cfg      RPCConfig
	store    *SnapshotStore
	notifier *RPCNotifier
	bridge   jhttp.Bridge
	log      logger.Logger

	listen func(network, address string) (net.Listener, error)

	mu   sync.Mutex
	http *http.Server
	addr net.Addr
}

// NewRPCServer creates a server reading from store and pushing through notifier.
func NewRPCServer(cfg RPCConfig, store *SnapshotStore, notifier *RPCNotifier, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		log:      l,
		listen:   net.Listen,
	}
	rs.bridge = jhttp.NewBridge(rs.methods(), nil)
	return rs
}

// WithListener replaces net.Listen.
func (rs *RPCServer) WithListener(f func(network, address string) (net.Listener, error)) *RPCServer {
	rs.listen = f
	return rs
}

// Handler returns the HTTP handler with authentication applied.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(rs.cfg.Secret, rs.bridge))
	mux.Handle("/ws", requireToken(rs.cfg.Secret, http.HandlerFunc(rs.serveWS)))
	return mux
}

// Start binds the listener and serves in the background.
func (rs *RPCServer) Start() error {
	if rs.cfg.Secret == "" {
		return ErrDisabled
	}
	ln, err := rs.listen("tcp", rs.cfg.Listen)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           rs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	rs.mu.Lock()
	rs.http = srv
	rs.addr = ln.Addr()
	rs.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.log.Error("RPC server: %v", err)
		}
	}()
	rs.log.Info("RPC listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, nil before Start.
func (rs *RPCServer) Addr() net.Addr {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.addr
}

// Shutdown stops the HTTP server and the bridge.
func (rs *RPCServer) Shutdown(ctx context.Context) error {
	rs.mu.Lock()
	srv := rs.http
	rs.http = nil
	rs.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	rs.bridge.Close()
	return err
}
