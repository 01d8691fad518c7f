// Copyright 2019 The go-ultiledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/config"
	"github.com/ultiledger/go-stellarkit/cursor"
	"github.com/ultiledger/go-stellarkit/db"
	_ "github.com/ultiledger/go-stellarkit/db/badgerdb"
	_ "github.com/ultiledger/go-stellarkit/db/boltdb"
	_ "github.com/ultiledger/go-stellarkit/db/leveldb"
	_ "github.com/ultiledger/go-stellarkit/db/memdb"
	_ "github.com/ultiledger/go-stellarkit/db/redisdb"
	"github.com/ultiledger/go-stellarkit/gateway"
	"github.com/ultiledger/go-stellarkit/log"
	"github.com/ultiledger/go-stellarkit/metrics"
	"github.com/ultiledger/go-stellarkit/stream"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream ledger events as json lines",
	Long: `Open one resumable stream per resource kind and print every message as a
json line. The paging token of each printed message is stored as the cursor
of its (kind, account) pair, a restarted stream resumes from there.`,
	RunE: runStream,
}

var streamFlags struct {
	kinds   []string
	account string
	cursor  string
	order   string
	limit   uint
	retries int
	backoff time.Duration
}

func init() {
	f := streamCmd.Flags()
	f.StringSliceVarP(&streamFlags.kinds, "kind", "k", []string{string(types.Effects)}, "resource kinds to stream")
	f.StringVarP(&streamFlags.account, "account", "a", "", "account to scope the streams to, empty for the global feed")
	f.StringVar(&streamFlags.cursor, "cursor", "", "start cursor, overrides the stored one")
	f.StringVar(&streamFlags.order, "order", "", "asc or desc for the backlog")
	f.UintVar(&streamFlags.limit, "limit", 0, "page size of the backlog")
	f.IntVar(&streamFlags.retries, "retries", 0, "times to resume a stream after a transport error")
	f.DurationVar(&streamFlags.backoff, "backoff", 5*time.Second, "delay before resuming a stream")
	rootCmd.AddCommand(streamCmd)
}

func openCursors(c *config.Config) (*cursor.Manager, db.Database, error) {
	d, err := db.Open(c.CursorBackend, c.CursorPath)
	if err != nil {
		return nil, nil, err
	}
	m, err := cursor.NewManager(d, c.CursorPrefix, c.CursorCacheSize)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return m, d, nil
}

func runStream(cmd *cobra.Command, args []string) error {
	c, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	kinds := make([]types.ResourceKind, 0, len(streamFlags.kinds))
	for _, s := range streamFlags.kinds {
		k, err := types.ParseResourceKind(s)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}

	cursors, d, err := openCursors(c)
	if err != nil {
		return err
	}
	defer d.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	gw := gateway.Dial(c.HorizonURL)
	out := &printer{w: os.Stdout}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if c.MetricsAddr != "" {
		serveMetrics(gctx, g, c.MetricsAddr, reg)
	}
	for _, k := range kinds {
		opts := stream.Options{
			Kind:    k,
			Account: streamFlags.account,
			Cursor:  streamFlags.cursor,
			Order:   types.Order(streamFlags.order),
			Limit:   streamFlags.limit,
			Metrics: m,
		}
		scope := cursors.Scope(k, streamFlags.account)
		g.Go(func() error {
			return follow(gctx, gw, scope, opts, out)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// follow serves one stream and resumes it from the last delivered
// cursor after a transport error, at most streamFlags.retries times.
func follow(ctx context.Context, sub stream.Subscriber, scope *cursor.Scoped, opts stream.Options, out *printer) error {
	handle := func(ctx context.Context, d stream.Delivery) error {
		if err := out.print(d.Message); err != nil {
			return err
		}
		if d.Message.PagingToken == "" {
			return nil
		}
		return scope.Set(ctx, d.Message.PagingToken)
	}

	for attempt := 0; ; attempt++ {
		err := stream.Serve(ctx, sub, scope, opts, handle, nil)
		var te *stream.TransportError
		if !errors.As(err, &te) || attempt >= streamFlags.retries {
			return err
		}
		opts.Cursor = te.ResumeCursor()
		log.Warnw("resume stream", "kind", opts.Kind, "account", opts.Account, "cursor", opts.Cursor, "attempt", attempt+1)
		select {
		case <-time.After(streamFlags.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry) {
	srv := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})
	g.Go(func() error {
		log.Infow("serve metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

// printer writes messages of concurrent streams as json lines.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) print(msg types.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.NewEncoder(p.w).Encode(msg)
}
