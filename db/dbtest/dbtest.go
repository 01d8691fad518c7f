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

// Package dbtest holds the behaviour every db backend must share.
package dbtest

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ultiledger/go-stellarkit/db"
)

// Exercise runs the common checks against an open database and closes
// it afterwards.
func Exercise(t *testing.T, d db.Database) {
	t.Helper()

	// create bucket
	err := d.NewBucket("TEST")
	assert.Nil(t, err)
	assert.Nil(t, d.NewBucket("OTHER"))

	// test get nonexistent key
	val, err := d.Get("TEST", []byte("none"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	// test set key/value pair
	err = d.Put("TEST", []byte("testKey"), []byte("testValue"))
	assert.Nil(t, err)
	assert.Nil(t, d.Put("OTHER", []byte("testKey"), []byte("otherValue")))

	// test get value of key
	val, err = d.Get("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("testValue"), val)

	// buckets do not leak into each other
	val, err = d.Get("OTHER", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("otherValue"), val)

	// overwrite
	assert.Nil(t, d.Put("TEST", []byte("testKey"), []byte("newValue")))
	val, err = d.Get("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("newValue"), val)

	// prefix scan
	assert.Nil(t, d.Put("TEST", []byte("prefix:a"), []byte("a")))
	assert.Nil(t, d.Put("TEST", []byte("prefix:b"), []byte("b")))
	vals, err := d.GetAll("TEST", []byte("prefix:"))
	assert.Nil(t, err)
	got := make([]string, 0, len(vals))
	for _, v := range vals {
		got = append(got, string(v))
	}
	sort.Strings(got)
	assert.Equal(t, []string{"a", "b"}, got)

	// delete
	assert.Nil(t, d.Delete("TEST", []byte("testKey")))
	val, err = d.Get("TEST", []byte("testKey"))
	assert.Nil(t, err)
	assert.Nil(t, val)

	assert.Nil(t, d.Close())
}
