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

package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ed25519 test vector 1 of RFC 8032 signs the empty message
const testSignature = "5VZDAMNgrHKQhuLMgG6CioSHfx645dl02HPgZSJJAVVfuIIVkKM7rMYeOXAc+bRr0lv18FlbviRlUUFDjnoQCw=="

func TestKeypair(t *testing.T) {
	pub, seed, err := GetAccountKeypair()
	assert.Nil(t, err)
	assert.True(t, IsValidAccountKey(pub))
	assert.True(t, IsValidSeed(seed))

	addr, err := AccountFromSeed(seed)
	assert.Nil(t, err)
	assert.Equal(t, pub, addr)
}

func TestKeypairFromSeed(t *testing.T) {
	raw, _ := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	pub, seed, err := GetAccountKeypairFromSeed(raw)
	assert.Nil(t, err)
	assert.Equal(t, testPublicKey, pub)
	assert.Equal(t, testSeed, seed)

	_, _, err = GetAccountKeypairFromSeed(raw[:16])
	assert.NotNil(t, err)
}

func TestSignAndVerify(t *testing.T) {
	signature, err := Sign(testSeed, []byte{})
	assert.Nil(t, err)
	assert.Equal(t, testSignature, signature)
	assert.True(t, Verify(testPublicKey, signature, []byte{}))
	assert.False(t, Verify(testPublicKey, signature, []byte("tampered")))
	assert.False(t, Verify(testPublicKey, "%%%", []byte{}))
}
