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

package redisdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ultiledger/go-stellarkit/db"
)

func init() {
	db.Register("redis", New)
}

const (
	opTimeout     = 5 * time.Second
	scanBatchSize = 100
)

type redisdb struct {
	client *redis.Client
}

// New connects to redis. The path is either a redis:// URL or a plain
// host:port address.
func New(path string) (db.Database, error) {
	opts := &redis.Options{Addr: path}
	if strings.HasPrefix(path, "redis://") || strings.HasPrefix(path, "rediss://") {
		var err error
		opts, err = redis.ParseURL(path)
		if err != nil {
			return nil, fmt.Errorf("parse redis url failed: %v", err)
		}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s failed: %v", opts.Addr, err)
	}
	return &redisdb{client: client}, nil
}

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Buckets only exist as key prefixes.
func (r *redisdb) NewBucket(name string) error {
	return nil
}

// Put writes the key/value pair to database.
func (r *redisdb) Put(bucket string, key, value []byte) error {
	c, cancel := ctx()
	defer cancel()
	return r.client.Set(c, string(db.FlatKey(bucket, key)), value, 0).Err()
}

// Delete deletes the key from the database.
func (r *redisdb) Delete(bucket string, key []byte) error {
	c, cancel := ctx()
	defer cancel()
	return r.client.Del(c, string(db.FlatKey(bucket, key))).Err()
}

// Get retrieves the value of the key from database.
func (r *redisdb) Get(bucket string, key []byte) ([]byte, error) {
	c, cancel := ctx()
	defer cancel()
	val, err := r.client.Get(c, string(db.FlatKey(bucket, key))).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// GetAll retrieves the values of the keys with prefix from database.
func (r *redisdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	c, cancel := ctx()
	defer cancel()

	pattern := escapeGlob(string(db.FlatKey(bucket, keyPrefix))) + "*"
	var (
		vals   [][]byte
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(c, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			v, err := r.client.Get(c, k).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		if next == 0 {
			return vals, nil
		}
		cursor = next
	}
}

// Close closes the client connection pool.
func (r *redisdb) Close() error {
	return r.client.Close()
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
