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

package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ultiledger/go-stellarkit/db"
	"github.com/ultiledger/go-stellarkit/db/dbtest"
)

func TestBoltDB(t *testing.T) {
	d, err := db.Open("bolt", filepath.Join(t.TempDir(), "test.db"))
	assert.Nil(t, err)
	dbtest.Exercise(t, d)
}

func TestMissingBucket(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "test.db"))
	assert.Nil(t, err)
	defer d.Close()

	_, err = d.Get("NONE", []byte("key"))
	assert.NotNil(t, err)
	assert.NotNil(t, d.Put("NONE", []byte("key"), []byte("value")))
}
