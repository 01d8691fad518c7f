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

package leveldb

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ultiledger/go-stellarkit/db"
)

func init() {
	db.Register("leveldb", New)
}

type leveldbWrapper struct {
	db *leveldb.DB
}

// New opens or creates a leveldb database in the directory path.
func New(path string) (db.Database, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s failed: %v", path, err)
	}
	return &leveldbWrapper{db: ldb}, nil
}

func (lw *leveldbWrapper) NewBucket(name string) error {
	return nil
}

// Put writes the key/value pair to database.
func (lw *leveldbWrapper) Put(bucket string, key, value []byte) error {
	return lw.db.Put(db.FlatKey(bucket, key), value, nil)
}

// Delete deletes the key from the database.
func (lw *leveldbWrapper) Delete(bucket string, key []byte) error {
	return lw.db.Delete(db.FlatKey(bucket, key), nil)
}

// Get retrieves the value of the key from database.
func (lw *leveldbWrapper) Get(bucket string, key []byte) ([]byte, error) {
	val, err := lw.db.Get(db.FlatKey(bucket, key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return val, err
}

// GetAll retrieves the values of the keys with prefix from database.
func (lw *leveldbWrapper) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	it := lw.db.NewIterator(util.BytesPrefix(db.FlatKey(bucket, keyPrefix)), nil)
	defer it.Release()

	var vals [][]byte
	for it.Next() {
		vals = append(vals, append([]byte(nil), it.Value()...))
	}
	return vals, it.Error()
}

// Close closes the underlying database.
func (lw *leveldbWrapper) Close() error {
	return lw.db.Close()
}
