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

package codec

import (
	"errors"
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
)

func TestDecodePrice(t *testing.T) {
	cases := []struct {
		n, d int32
		want string
	}{
		{1, 3, "0.33333333333333333333"},
		{2, 3, "0.66666666666666666667"},
		{1, 2, "0.5"},
		{5, 1, "5"},
		{0, 7, "0"},
		{2147483647, 1, "2147483647"},
		{1, 2147483647, "0.00000000046566128752"},
	}
	for _, c := range cases {
		got, err := DecodePrice(xdr.Price{N: xdr.Int32(c.n), D: xdr.Int32(c.d)})
		assert.Nil(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := DecodePrice(xdr.Price{N: 1, D: 0})
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "price", de.Record)
}
