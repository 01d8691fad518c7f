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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ultiledger/go-stellarkit/db"
	"github.com/ultiledger/go-stellarkit/db/dbtest"
)

func TestRedisDB(t *testing.T) {
	mr := miniredis.RunT(t)

	d, err := db.Open("redis", mr.Addr())
	assert.Nil(t, err)
	dbtest.Exercise(t, d)
}

func TestRedisURL(t *testing.T) {
	mr := miniredis.RunT(t)

	d, err := New("redis://" + mr.Addr() + "/0")
	assert.Nil(t, err)
	assert.Nil(t, d.Put("cursor", []byte("k"), []byte("v")))
	assert.Equal(t, "v", mustGet(t, mr, "cursor/k"))
	assert.Nil(t, d.Close())

	_, err = New("127.0.0.1:1")
	assert.NotNil(t, err)
	_, err = New("redis://:bad url")
	assert.NotNil(t, err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	v, err := mr.Get(key)
	assert.Nil(t, err)
	return v
}
