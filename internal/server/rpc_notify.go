package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/autoattend/internal/notify"
	"github.com/warpdl/autoattend/pkg/logger"
)

// NoticeMethod is the push notification carrying a user-visible notice.
const NoticeMethod = "notice"

// NoticeParams is the payload of a notice push.
type NoticeParams struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// RPCNotifier keeps the jrpc2 servers of connected websocket clients and
// pushes notices to all of them. It is a notify.Sink.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

// NewRPCNotifier creates an empty notifier.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Send pushes a notice to every connected client. Clients that fail to
// receive it are dropped. Delivery never fails as a whole.
func (n *RPCNotifier) Send(ctx context.Context, level notify.Level, text string) error {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	params := NoticeParams{Level: string(level), Text: text}
	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(ctx, NoticeMethod, params); err != nil {
			n.log.Warning("RPC push failed: %v", err)
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
	return nil
}

// Count returns the number of connected clients.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

var _ notify.Sink = (*RPCNotifier)(nil)
