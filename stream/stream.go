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

// Package stream keeps a resumable subscription to one ledger event
// feed and hands every message, in arrival order, to the caller.
//
// The connection never persists cursors. Each delivery carries the
// cursor store so the consumer can record progress once it has fully
// processed a message, which gives at-least-once delivery across
// restarts.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/log"
	"github.com/ultiledger/go-stellarkit/metrics"
)

// DefaultBuffer is the number of messages queued ahead of the
// consumer before the transport is throttled.
const DefaultBuffer = 64

// ErrTransport is matched by every TransportError.
var ErrTransport = errors.New("stream transport error")

// errEnded reports a feed that stopped without an error.
var errEnded = errors.New("stream ended unexpectedly")

// Subscriber opens live subscriptions. Subscribe blocks, calling
// handler once per message in order, until ctx is done or the
// transport fails.
type Subscriber interface {
	Subscribe(ctx context.Context, req types.StreamRequest, handler func(types.Message)) error
}

// CursorStore supplies the cursor to resume from. An empty cursor means
// there is none.
type CursorStore interface {
	Get(ctx context.Context) (string, error)
}

type State int32

const (
	Initializing State = iota
	Subscribed
	Errored
	Closed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Subscribed:
		return "subscribed"
	case Errored:
		return "error"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Options selects the feed of a connection.
type Options struct {
	Kind types.ResourceKind
	// Empty account streams the global feed.
	Account string
	// Cursor takes precedence over the store.
	Cursor string
	// Order and Limit only tune the initial backlog fetch.
	Order types.Order
	Limit uint
	// Buffer overrides DefaultBuffer.
	Buffer  int
	Metrics *metrics.Metrics
}

// Delivery is one message together with the handles a consumer needs
// to act on it.
type Delivery struct {
	Message types.Message
	Conn    *Connection
	Store   CursorStore
}

// TransportError stops a connection. Cursor is the position the
// connection started from and LastCursor the paging token of the last
// delivered message, the point to resume from.
type TransportError struct {
	Kind       types.ResourceKind
	Account    string
	Cursor     string
	LastCursor string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stream %s for %q from cursor %s (last %q): %v",
		e.Kind, e.Account, e.Cursor, e.LastCursor, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ResumeCursor is the cursor a new connection should start from.
func (e *TransportError) ResumeCursor() string {
	if e.LastCursor != "" {
		return e.LastCursor
	}
	return e.Cursor
}

// Connection is a live subscription.
type Connection struct {
	kind    types.ResourceKind
	account string
	cursor  string
	store   CursorStore
	metrics *metrics.Metrics

	state    atomic.Int32
	messages chan Delivery
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once

	mu   sync.Mutex
	last string
	err  error
}

// ResolveCursor picks the starting cursor: the explicit one, else the
// stored one, else now.
func ResolveCursor(ctx context.Context, explicit string, store CursorStore) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if store != nil {
		c, err := store.Get(ctx)
		if err != nil {
			return "", fmt.Errorf("load cursor failed: %w", err)
		}
		if c != "" {
			return c, nil
		}
	}
	return types.CursorNow, nil
}

// Open resolves the starting cursor and subscribes. The returned
// connection delivers until it is closed, ctx is done or the transport
// fails.
func Open(ctx context.Context, sub Subscriber, store CursorStore, opts Options) (*Connection, error) {
	if _, err := types.ParseResourceKind(string(opts.Kind)); err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("nil subscriber")
	}

	cursor, err := ResolveCursor(ctx, opts.Cursor, store)
	if err != nil {
		return nil, err
	}

	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	runCtx, cancel := context.WithCancel(ctx)
	c := &Connection{
		kind:     opts.Kind,
		account:  opts.Account,
		cursor:   cursor,
		store:    store,
		metrics:  opts.Metrics,
		messages: make(chan Delivery, buffer),
		done:     make(chan struct{}),
		ctx:      runCtx,
		cancel:   cancel,
	}
	c.state.Store(int32(Subscribed))

	req := types.StreamRequest{
		Kind:    opts.Kind,
		Account: opts.Account,
		Cursor:  cursor,
		Order:   opts.Order,
		Limit:   opts.Limit,
	}
	log.Infow("stream opened", "kind", c.kind, "account", c.account, "cursor", cursor)
	c.metrics.StreamOpened()

	go c.run(sub, req)
	return c, nil
}

func (c *Connection) run(sub Subscriber, req types.StreamRequest) {
	defer close(c.done)
	defer close(c.messages)
	defer c.metrics.StreamClosed()

	err := sub.Subscribe(c.ctx, req, c.deliver)
	if c.ctx.Err() != nil {
		c.state.Store(int32(Closed))
		return
	}
	if err == nil {
		err = errEnded
	}

	c.mu.Lock()
	terr := &TransportError{
		Kind:       c.kind,
		Account:    c.account,
		Cursor:     c.cursor,
		LastCursor: c.last,
		Err:        err,
	}
	c.err = terr
	c.mu.Unlock()

	// a concurrent Close wins
	c.state.CompareAndSwap(int32(Subscribed), int32(Errored))
	c.metrics.StreamError(string(c.kind))
	log.Warnw("stream stopped", "kind", c.kind, "account", c.account, "last", terr.LastCursor, "err", err)
}

// deliver runs on the transport goroutine, one message at a time.
func (c *Connection) deliver(msg types.Message) {
	if msg.Kind == "" {
		msg.Kind = c.kind
	}
	select {
	case c.messages <- Delivery{Message: msg, Conn: c, Store: c.store}:
		c.mu.Lock()
		if msg.PagingToken != "" {
			c.last = msg.PagingToken
		}
		c.mu.Unlock()
		c.metrics.Delivered(string(c.kind))
	case <-c.ctx.Done():
	}
}

// Messages returns the ordered delivery channel. It is closed when the
// connection stops.
func (c *Connection) Messages() <-chan Delivery { return c.messages }

// Done is closed once the subscription has been released.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Err returns the transport error that stopped the connection, if any.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Connection) State() State { return State(c.state.Load()) }

// Cursor is the cursor the connection started from.
func (c *Connection) Cursor() string { return c.cursor }

// LastCursor is the paging token of the last delivered message.
func (c *Connection) LastCursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Close releases the subscription. It is safe to call any number of
// times and from a message handler. The cursor store is not touched.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.state.Store(int32(Closed))
		c.cancel()
		log.Infow("stream closed", "kind", c.kind, "account", c.account, "last", c.LastCursor())
	})
	<-c.done
}
