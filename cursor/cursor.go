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

// Package cursor persists the last processed paging token of every
// stream, scoped by resource kind and account.
package cursor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/db"
	"github.com/ultiledger/go-stellarkit/log"
)

const (
	bucket = "CURSOR"
	// global feeds are stored under this account name
	globalAccount = "*"
)

// Record is the stored form of a cursor.
type Record struct {
	Kind      types.ResourceKind `cbor:"1,keyasint"`
	Account   string             `cbor:"2,keyasint"`
	Cursor    string             `cbor:"3,keyasint"`
	UpdatedAt int64              `cbor:"4,keyasint"`
}

// Manager reads and writes cursors through an LRU cache. A Manager
// expects to be the only writer of its prefix.
type Manager struct {
	database db.Database
	prefix   string

	// guards cache fills and the read-modify-write in Set
	mu sync.Mutex
	// LRU cache for cursors
	cursors *lru.Cache[string, Record]
}

// NewManager creates a cursor manager. The prefix separates the
// cursors of different environments sharing one database.
func NewManager(d db.Database, prefix string, cacheSize int) (*Manager, error) {
	if err := d.NewBucket(bucket); err != nil {
		return nil, fmt.Errorf("create db bucket %s failed: %v", bucket, err)
	}
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, Record](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cursor LRU cache failed: %v", err)
	}
	return &Manager{database: d, prefix: prefix, cursors: cache}, nil
}

func (m *Manager) key(kind types.ResourceKind, account string) string {
	if account == "" {
		account = globalAccount
	}
	return m.prefix + ":" + string(kind) + ":" + account
}

// Get returns the stored cursor, empty when there is none.
func (m *Manager) Get(ctx context.Context, kind types.ResourceKind, account string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	rec, ok, err := m.load(m.key(kind, account))
	m.mu.Unlock()
	if err != nil || !ok {
		return "", err
	}
	return rec.Cursor, nil
}

// load reads through the cache. Callers hold m.mu so a slow database
// read never caches a record older than one stored meanwhile.
func (m *Manager) load(key string) (Record, bool, error) {
	if rec, ok := m.cursors.Get(key); ok {
		return rec, true, nil
	}
	b, err := m.database.Get(bucket, []byte(key))
	if err != nil {
		return Record{}, false, fmt.Errorf("get cursor %s failed: %v", key, err)
	}
	if b == nil {
		return Record{}, false, nil
	}
	var rec Record
	if err := cbor.Unmarshal(b, &rec); err != nil {
		return Record{}, false, fmt.Errorf("cursor %s decode failed: %v", key, err)
	}
	m.cursors.Add(key, rec)
	return rec, true, nil
}

// Set stores a cursor. When both the stored and the new cursor are
// paging tokens the cursor only moves forward, older tokens are
// ignored so redelivered messages cannot rewind a stream.
func (m *Manager) Set(ctx context.Context, kind types.ResourceKind, account, cursor string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cursor == "" {
		return fmt.Errorf("empty cursor")
	}
	key := m.key(kind, account)

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok, err := m.load(key)
	if err != nil {
		return err
	}
	if ok {
		if cmp, comparable := compareTokens(cursor, prev.Cursor); comparable && cmp <= 0 {
			log.Debugw("cursor not advanced", "key", key, "stored", prev.Cursor, "cursor", cursor)
			return nil
		}
	}

	rec := Record{Kind: kind, Account: account, Cursor: cursor, UpdatedAt: time.Now().Unix()}
	b, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cursor failed: %v", err)
	}
	if err := m.database.Put(bucket, []byte(key), b); err != nil {
		return fmt.Errorf("save cursor %s failed: %v", key, err)
	}
	m.cursors.Add(key, rec)
	return nil
}

// Reset removes a stored cursor.
func (m *Manager) Reset(ctx context.Context, kind types.ResourceKind, account string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := m.key(kind, account)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cursors.Remove(key)
	return m.database.Delete(bucket, []byte(key))
}

// All lists every cursor stored under the manager's prefix.
func (m *Manager) All(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vals, err := m.database.GetAll(bucket, []byte(m.prefix+":"))
	if err != nil {
		return nil, err
	}
	recs := make([]Record, 0, len(vals))
	for _, b := range vals {
		var rec Record
		if err := cbor.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("cursor decode failed: %v", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Scope binds the manager to one stream.
func (m *Manager) Scope(kind types.ResourceKind, account string) *Scoped {
	return &Scoped{m: m, kind: kind, account: account}
}

// Scoped is the cursor of a single (kind, account) stream. It is the
// store handed to stream connections.
type Scoped struct {
	m       *Manager
	kind    types.ResourceKind
	account string
}

func (s *Scoped) Get(ctx context.Context) (string, error) {
	return s.m.Get(ctx, s.kind, s.account)
}

func (s *Scoped) Set(ctx context.Context, cursor string) error {
	return s.m.Set(ctx, s.kind, s.account, cursor)
}

// compareTokens compares paging tokens made of dash separated
// integers. The second result is false when either is not a token.
func compareTokens(a, b string) (int, bool) {
	pa, ok := parseToken(a)
	if !ok {
		return 0, false
	}
	pb, ok := parseToken(b)
	if !ok {
		return 0, false
	}
	for i := 0; i < len(pa) && i < len(pb); i++ {
		switch {
		case pa[i] < pb[i]:
			return -1, true
		case pa[i] > pb[i]:
			return 1, true
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1, true
	case len(pa) > len(pb):
		return 1, true
	}
	return 0, true
}

func parseToken(s string) ([]uint64, bool) {
	parts := strings.Split(s, "-")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
