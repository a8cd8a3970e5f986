package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"

	"cookingapp/internal/config"
	"cookingapp/internal/events"
)

const reconnectDelay = time.Second

func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var (
		addr  string
		count int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream change events from the API server's TCP feed",
		Long: `Connect to the event feed and print every change event as it happens.
The connection is re-established when the server goes away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := config.Load(opts.Env)
				if err != nil {
					return err
				}
				addr = cfg.Events.TCPAddr
			}
			w := &watcher{addr: addr, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), pretty: opts.Format == "text", limit: count}
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "event feed address (default events.tcp_addr from config)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after this many events (0 streams forever)")
	return cmd
}

type watcher struct {
	addr   string
	out    io.Writer
	errOut io.Writer
	pretty bool
	limit  int
	seen   int
}

var errLimitReached = errors.New("event limit reached")

func (w *watcher) run(ctx context.Context) error {
	for {
		err := w.stream(ctx)
		if errors.Is(err, errLimitReached) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(w.errOut, "disconnected from %s: %v\n", w.addr, err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (w *watcher) stream(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", w.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev events.Event
		if err := json.Unmarshal(line, &ev); err == nil && ev.Type == "welcome" {
			continue
		}
		w.print(line)

		w.seen++
		if w.limit > 0 && w.seen >= w.limit {
			return errLimitReached
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (w *watcher) print(line []byte) {
	if !w.pretty {
		fmt.Fprintln(w.out, string(line))
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, line, "", "  "); err != nil {
		fmt.Fprintln(w.out, string(line))
		return
	}
	fmt.Fprintln(w.out, buf.String())
}
