package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/common"
	"github.com/warpdl/autoattend/internal/server"
)

const statusTimeout = 5 * time.Second

var errNoSecret = errors.New("status endpoint disabled, set " + common.RPCSecretEnv)

// bearerClient adds the RPC secret to every bridge request.
type bearerClient struct {
	token string
	http  *http.Client
}

func (b bearerClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.http.Do(req)
}

func status(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if cfg.RPC.Secret == "" {
		return fmt.Errorf("status: %w", errNoSecret)
	}
	c, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()
	snap, err := fetchStatus(c, "http://"+cfg.RPC.Listen+"/jsonrpc", cfg.RPC.Secret)
	if err != nil {
		return fmt.Errorf("status: daemon unreachable at %s: %w", cfg.RPC.Listen, err)
	}
	printStatus(os.Stdout, snap)
	return nil
}

func fetchStatus(ctx context.Context, url, secret string) (*server.Snapshot, error) {
	ch := jhttp.NewChannel(url, &jhttp.ChannelOptions{
		Client: bearerClient{token: secret, http: &http.Client{Timeout: statusTimeout}},
	})
	client := jrpc2.NewClient(ch, nil)
	defer client.Close()

	var snap server.Snapshot
	if err := client.CallResult(ctx, "status.get", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func printStatus(w io.Writer, snap *server.Snapshot) {
	if snap.Day == "" {
		fmt.Fprintln(w, "Daemon is starting, no schedule built yet")
		return
	}
	fmt.Fprintf(w, "Day: %s (%s)\n", snap.Day, snap.Reason)
	fmt.Fprintf(w, "Restarts: %d/%d\n", snap.Restarts, snap.MaxRestarts)
	if len(snap.Slots) > 0 {
		fmt.Fprintln(w, "\nSlots:")
		for _, s := range snap.Slots {
			fmt.Fprintf(w, "  %s → %s  %s\n", s.Join, s.Leave, s.Link)
		}
	}
	if len(snap.Meetings) > 0 {
		fmt.Fprintln(w, "\nMeetings:")
		for _, m := range snap.Meetings {
			fmt.Fprintf(w, "  %-18s %s\n", m.Status, m.Link)
		}
	}
	if len(snap.Tasks) > 0 {
		fmt.Fprintln(w, "\nNext tasks:")
		for _, t := range snap.Tasks {
			fmt.Fprintf(w, "  %s  %s\n", t.At.Local().Format("Mon 15:04"), t.Name)
		}
	}
	fmt.Fprintf(w, "\nUpdated %s\n", snap.UpdatedAt.Local().Format(time.RFC1123))
}
