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
	"errors"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

var (
	ErrInvalidKey  = errors.New("invalid key string")
	ErrInvalidSeed = errors.New("invalid seed string")
)

// IsValidAccountKey checks whether the key is a valid account address.
func IsValidAccountKey(key string) bool {
	return strkey.IsValidEd25519PublicKey(key)
}

// IsValidSeed checks whether the seed is a valid secret seed.
func IsValidSeed(seed string) bool {
	return strkey.IsValidEd25519SecretSeed(seed)
}

// ParseSeed reconstructs the full keypair of a secret seed.
func ParseSeed(seed string) (*keypair.Full, error) {
	if !IsValidSeed(seed) {
		return nil, ErrInvalidSeed
	}
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}
	return kp, nil
}

// AccountFromSeed returns the account address controlled by the seed.
func AccountFromSeed(seed string) (string, error) {
	kp, err := ParseSeed(seed)
	if err != nil {
		return "", err
	}
	return kp.Address(), nil
}
