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
	"encoding/base64"
	"errors"

	"github.com/stellar/go/keypair"
)

// Randomly generate a pair of account address and secret seed.
func GetAccountKeypair() (string, string, error) {
	kp, err := keypair.Random()
	if err != nil {
		return "", "", err
	}
	return kp.Address(), kp.Seed(), nil
}

// Generate account keypair from provided raw seed.
func GetAccountKeypairFromSeed(seed []byte) (string, string, error) {
	if len(seed) != 32 {
		return "", "", errors.New("invalid seed, byte length is not 32")
	}
	var raw [32]byte
	copy(raw[:], seed)
	kp, err := keypair.FromRawSeed(raw)
	if err != nil {
		return "", "", err
	}
	return kp.Address(), kp.Seed(), nil
}

// Sign the data with provided seed, the signature is base64 encoded.
func Sign(seed string, data []byte) (string, error) {
	kp, err := ParseSeed(seed)
	if err != nil {
		return "", err
	}
	sig, err := kp.Sign(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify the base64 data signature against an account address.
func Verify(publicKey, signature string, data []byte) bool {
	kp, err := keypair.ParseAddress(publicKey)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return kp.Verify(data, sig) == nil
}
