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

// Package db defines the key/value storage used to persist stream
// cursors and a registry of the available backends.
package db

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrClosed is returned by operations on a closed database.
var ErrClosed = errors.New("database is closed")

// Database defines the minimal interface of a bucketed key/value store.
// Get returns a nil value without error for a missing key.
type Database interface {
	NewBucket(name string) error
	Put(bucket string, key, value []byte) error
	Get(bucket string, key []byte) ([]byte, error)
	GetAll(bucket string, keyPrefix []byte) ([][]byte, error)
	Delete(bucket string, key []byte) error
	Close() error
}

// Ctor creates a database at the backend specific location, a file
// path for embedded stores or a URL for remote ones.
type Ctor func(path string) (Database, error)

var (
	mu           sync.RWMutex
	constructors = make(map[string]Ctor)
)

// Database backend should call this function to register itself
// in order to be used by application.
func Register(name string, ctor Ctor) {
	mu.Lock()
	defer mu.Unlock()
	constructors[name] = ctor
}

// Open creates the database of a registered backend.
func Open(name, path string) (Database, error) {
	mu.RLock()
	ctor, ok := constructors[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database %s not registered", name)
	}
	return ctor(path)
}

// Backends lists the registered backend names.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlatKey joins bucket and key for stores without native buckets.
func FlatKey(bucket string, key []byte) []byte {
	k := make([]byte, 0, len(bucket)+1+len(key))
	k = append(k, bucket...)
	k = append(k, '/')
	return append(k, key...)
}
