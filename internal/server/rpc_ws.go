package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 channel.Channel
// interface. Each connection gets its own jrpc2 server.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

var _ channel.Channel = (*wsChannel)(nil)

// serveWS upgrades the request and serves JSON-RPC on the connection until
// the client goes away. The connection also receives "notice" pushes.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("websocket accept: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	srv := jrpc2.NewServer(rs.methods(), &jrpc2.ServerOptions{AllowPush: true})
	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)
	srv.Start(&wsChannel{conn: conn, ctx: ctx})
	if err := srv.Wait(); err != nil {
		rs.log.Info("websocket client disconnected: %v", err)
	}
}
