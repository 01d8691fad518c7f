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

package badgerdb

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/ultiledger/go-stellarkit/db"
)

func init() {
	db.Register("badger", New)
}

// badgerdb keeps every bucket in one keyspace using prefixed keys.
type badgerdb struct {
	db *badger.DB
}

// New opens or creates a badger database in the directory path.
func New(path string) (db.Database, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s failed: %v", path, err)
	}
	return &badgerdb{db: bdb}, nil
}

func (b *badgerdb) NewBucket(name string) error {
	return nil
}

// Put writes the key/value pair to database.
func (b *badgerdb) Put(bucket string, key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(db.FlatKey(bucket, key), value)
	})
}

// Delete deletes the key from the database.
func (b *badgerdb) Delete(bucket string, key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(db.FlatKey(bucket, key))
	})
}

// Get retrieves the value of the key from database.
func (b *badgerdb) Get(bucket string, key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(db.FlatKey(bucket, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// GetAll retrieves the values of the keys with prefix from database.
func (b *badgerdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	prefix := db.FlatKey(bucket, keyPrefix)
	var vals [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			vals = append(vals, v)
		}
		return nil
	})
	return vals, err
}

// Close closes the underlying database.
func (b *badgerdb) Close() error {
	return b.db.Close()
}
