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
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// PricePrecision is the number of decimal places kept when a rational
// price is rendered.
const PricePrecision int32 = 20

// DecodePrice renders n/d as a decimal string rounded to PricePrecision
// places with trailing zeros trimmed.
func DecodePrice(raw xdr.Price) (string, error) {
	if raw.D == 0 {
		return "", decodeErr("price", "d", errors.New("zero denominator"))
	}
	if raw.N < 0 || raw.D < 0 {
		return "", decodeErr("price", "", fmt.Errorf("negative price %d/%d", raw.N, raw.D))
	}
	n := decimal.NewFromInt(int64(raw.N))
	d := decimal.NewFromInt(int64(raw.D))
	return n.DivRound(d, PricePrecision).String(), nil
}

// DecodeAccountID renders an account id in its textual strkey form.
func DecodeAccountID(raw xdr.AccountId) (string, error) {
	if raw.Type != xdr.PublicKeyTypePublicKeyTypeEd25519 || raw.Ed25519 == nil {
		return "", decodeErr("accountId", "", fmt.Errorf("unsupported public key type %d", raw.Type))
	}
	return encodeEd25519(raw.Ed25519[:])
}

// EncodeAccountID parses a textual account id into its binary form.
func EncodeAccountID(address string) (xdr.AccountId, error) {
	payload, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return xdr.AccountId{}, fmt.Errorf("invalid account id %q: %v", address, err)
	}
	var key xdr.Uint256
	copy(key[:], payload)
	return xdr.AccountId{Type: xdr.PublicKeyTypePublicKeyTypeEd25519, Ed25519: &key}, nil
}

func encodeEd25519(payload []byte) (string, error) {
	if len(payload) != 32 {
		return "", decodeErr("accountId", "", fmt.Errorf("public key has %d bytes", len(payload)))
	}
	addr, err := strkey.Encode(strkey.VersionByteAccountID, payload)
	if err != nil {
		return "", decodeErr("accountId", "", err)
	}
	return addr, nil
}
