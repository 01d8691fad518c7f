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

package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultiledger/go-stellarkit/client/types"
)

const account = "GDLVVGABQKYQVN6VJP7NHSLEA45A5YLS6PNKMIZFV4BBU2HXA5IRVHUR"

// fakeSubscriber replays messages, then fails with err or waits for
// cancellation.
type fakeSubscriber struct {
	mu       sync.Mutex
	requests []types.StreamRequest
	messages []types.Message
	err      error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, req types.StreamRequest, handler func(types.Message)) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	for _, m := range f.messages {
		if ctx.Err() != nil {
			return nil
		}
		handler(m)
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func (f *fakeSubscriber) request(t *testing.T) types.StreamRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.requests, 1)
	return f.requests[0]
}

type fakeStore struct {
	mu     sync.Mutex
	cursor string
	err    error
	gets   int
}

func (s *fakeStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	return s.cursor, s.err
}

func messages(n int) []types.Message {
	msgs := make([]types.Message, 0, n)
	for i := 1; i <= n; i++ {
		msgs = append(msgs, types.Message{PagingToken: fmt.Sprintf("%d", i), Payload: i})
	}
	return msgs
}

func TestResumeFromStoredCursor(t *testing.T) {
	sub := &fakeSubscriber{}
	store := &fakeStore{cursor: "12884905984-1"}

	conn, err := Open(context.Background(), sub, store, Options{Kind: types.Effects, Account: account, Order: types.OrderAsc, Limit: 10})
	require.Nil(t, err)
	defer conn.Close()

	// wait for the transport goroutine to subscribe
	assert.Eventually(t, func() bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		return len(sub.requests) == 1
	}, time.Second, time.Millisecond)

	req := sub.request(t)
	assert.Equal(t, "12884905984-1", req.Cursor)
	assert.Equal(t, types.Effects, req.Kind)
	assert.Equal(t, account, req.Account)
	assert.Equal(t, types.OrderAsc, req.Order)
	assert.Equal(t, uint(10), req.Limit)
	assert.Equal(t, Subscribed, conn.State())
}

func TestResolveCursor(t *testing.T) {
	ctx := context.Background()

	c, err := ResolveCursor(ctx, "7", &fakeStore{cursor: "5"})
	assert.Nil(t, err)
	assert.Equal(t, "7", c)

	c, err = ResolveCursor(ctx, "", &fakeStore{cursor: "5"})
	assert.Nil(t, err)
	assert.Equal(t, "5", c)

	c, err = ResolveCursor(ctx, "", &fakeStore{})
	assert.Nil(t, err)
	assert.Equal(t, types.CursorNow, c)

	c, err = ResolveCursor(ctx, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, types.CursorNow, c)

	_, err = ResolveCursor(ctx, "", &fakeStore{err: errors.New("store down")})
	assert.NotNil(t, err)
}

func TestOpenFailures(t *testing.T) {
	_, err := Open(context.Background(), &fakeSubscriber{}, nil, Options{Kind: "ledgers"})
	assert.NotNil(t, err)

	_, err = Open(context.Background(), nil, nil, Options{Kind: types.Payments})
	assert.NotNil(t, err)

	_, err = Open(context.Background(), &fakeSubscriber{}, &fakeStore{err: errors.New("store down")}, Options{Kind: types.Payments})
	assert.NotNil(t, err)
}

func TestOrderedDelivery(t *testing.T) {
	sub := &fakeSubscriber{messages: messages(200)}
	store := &fakeStore{}

	conn, err := Open(context.Background(), sub, store, Options{Kind: types.Payments, Buffer: 4})
	require.Nil(t, err)
	defer conn.Close()

	for i := 1; i <= 200; i++ {
		d := <-conn.Messages()
		assert.Equal(t, i, d.Message.Payload)
		assert.Equal(t, types.Payments, d.Message.Kind)
		assert.Equal(t, conn, d.Conn)
		assert.Equal(t, store, d.Store)
	}
	assert.Eventually(t, func() bool { return conn.LastCursor() == "200" }, time.Second, time.Millisecond)
}

func TestTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	sub := &fakeSubscriber{messages: messages(3), err: boom}

	conn, err := Open(context.Background(), sub, &fakeStore{cursor: "1"}, Options{Kind: types.Trades, Account: account})
	require.Nil(t, err)

	var got []types.Message
	for d := range conn.Messages() {
		got = append(got, d.Message)
	}
	assert.Len(t, got, 3)
	<-conn.Done()

	assert.Equal(t, Errored, conn.State())
	err = conn.Err()
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, boom))
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, types.Trades, terr.Kind)
	assert.Equal(t, account, terr.Account)
	assert.Equal(t, "1", terr.Cursor)
	assert.Equal(t, "3", terr.LastCursor)
	assert.Equal(t, "3", terr.ResumeCursor())

	conn.Close()
	assert.Equal(t, Closed, conn.State())
}

func TestUnexpectedEnd(t *testing.T) {
	conn, err := Open(context.Background(), endingSubscriber{}, nil, Options{Kind: types.Operations})
	require.Nil(t, err)
	<-conn.Done()
	assert.True(t, errors.Is(conn.Err(), ErrTransport))
	var terr *TransportError
	require.True(t, errors.As(conn.Err(), &terr))
	assert.Equal(t, types.CursorNow, terr.ResumeCursor())
}

type endingSubscriber struct{}

func (endingSubscriber) Subscribe(context.Context, types.StreamRequest, func(types.Message)) error {
	return nil
}

func TestCloseIdempotent(t *testing.T) {
	store := &fakeStore{cursor: "9"}
	conn, err := Open(context.Background(), &fakeSubscriber{messages: messages(500)}, store, Options{Kind: types.Transactions, Buffer: 1})
	require.Nil(t, err)

	<-conn.Messages()
	conn.Close()
	conn.Close()
	assert.Equal(t, Closed, conn.State())
	assert.Nil(t, conn.Err())

	select {
	case <-conn.Done():
	default:
		t.Fatal("done is not closed")
	}
	// closing never consults or rewinds the store
	assert.Equal(t, 1, store.gets)
}

func TestParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := Open(ctx, &fakeSubscriber{}, nil, Options{Kind: types.Effects})
	require.Nil(t, err)
	cancel()
	<-conn.Done()
	assert.Equal(t, Closed, conn.State())
	assert.Nil(t, conn.Err())
}

func TestIndependentConnections(t *testing.T) {
	var wg sync.WaitGroup
	for _, kind := range types.ResourceKinds {
		wg.Add(1)
		go func(kind types.ResourceKind) {
			defer wg.Done()
			conn, err := Open(context.Background(), &fakeSubscriber{messages: messages(20)}, nil, Options{Kind: kind})
			if !assert.Nil(t, err) {
				return
			}
			defer conn.Close()
			for i := 1; i <= 20; i++ {
				d := <-conn.Messages()
				assert.Equal(t, i, d.Message.Payload)
				assert.Equal(t, kind, d.Message.Kind)
			}
		}(kind)
	}
	wg.Wait()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "subscribed", Subscribed.String())
	assert.Equal(t, "error", Errored.String())
	assert.Equal(t, "closed", Closed.String())
}
