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
	"strings"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/log"
)

// Asset type names as they appear in decoded records.
const (
	AssetTypeNative           = "native"
	AssetTypeCreditAlphanum4  = "creditAlphanum4"
	AssetTypeCreditAlphanum12 = "creditAlphanum12"
	AssetTypePoolShare        = "poolShare"
)

// Asset is the plain form of a ledger asset.
type Asset struct {
	Type   string `json:"assetType"`
	Code   string `json:"assetCode,omitempty"`
	Issuer string `json:"issuer,omitempty"`
	// PoolID is only set for pool share trust line assets.
	PoolID string `json:"liquidityPoolId,omitempty"`
}

// Native returns the native asset.
func Native() Asset {
	return Asset{Type: AssetTypeNative}
}

// Credit returns a credit asset typed by the length of its code.
func Credit(code, issuer string) Asset {
	t := AssetTypeCreditAlphanum4
	if len(code) > 4 {
		t = AssetTypeCreditAlphanum12
	}
	return Asset{Type: t, Code: code, Issuer: issuer}
}

// IsNative reports whether the asset is the native asset.
func (a Asset) IsNative() bool {
	return NormalizeAssetType(a.Type) == AssetTypeNative
}

func (a Asset) String() string {
	if a.IsNative() {
		return AssetTypeNative
	}
	if a.PoolID != "" {
		return a.PoolID
	}
	return a.Code + ":" + a.Issuer
}

// Validate checks the asset as operation input. Only native and credit
// assets are accepted and the code length must match the credit type.
func (a Asset) Validate() error {
	switch NormalizeAssetType(a.Type) {
	case AssetTypeNative:
		if a.Code != "" || a.Issuer != "" {
			return errors.New("native asset must not carry code or issuer")
		}
		return nil
	case AssetTypeCreditAlphanum4:
		if a.Code == "" {
			return errors.New("empty asset code")
		}
		if len(a.Code) > 4 {
			return errors.New("alphanum4 asset code is longer than 4 characters")
		}
	case AssetTypeCreditAlphanum12:
		if len(a.Code) < 5 || len(a.Code) > 12 {
			return errors.New("alphanum12 asset code must have 5 to 12 characters")
		}
	case AssetTypePoolShare:
		return errors.New("pool share asset cannot be used in an operation")
	case "":
		return errors.New("empty asset type")
	default:
		return fmt.Errorf("unknown asset type %q", a.Type)
	}
	if a.Issuer == "" {
		return errors.New("empty asset issuer")
	}
	if !strkey.IsValidEd25519PublicKey(a.Issuer) {
		return errors.New("invalid asset issuer")
	}
	return nil
}

// NormalizeAssetType maps the spellings used by the ledger, by Horizon
// and by this package onto the names above. Unknown names are returned
// unchanged.
func NormalizeAssetType(t string) string {
	switch t {
	case AssetTypeNative:
		return AssetTypeNative
	case AssetTypeCreditAlphanum4, "credit_alphanum4", "alphanum4":
		return AssetTypeCreditAlphanum4
	case AssetTypeCreditAlphanum12, "credit_alphanum12", "alphanum12":
		return AssetTypeCreditAlphanum12
	case AssetTypePoolShare, "liquidity_pool_shares", "pool_share":
		return AssetTypePoolShare
	}
	return t
}

// DecodeAsset decodes a ledger asset.
func DecodeAsset(raw xdr.Asset) (Asset, error) {
	switch raw.Type {
	case xdr.AssetTypeAssetTypeNative:
		return Native(), nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4:
		if raw.AlphaNum4 == nil {
			return Asset{}, decodeErr("asset", "alphaNum4", errMissingArm)
		}
		return decodeCredit(AssetTypeCreditAlphanum4, raw.AlphaNum4.AssetCode[:], raw.AlphaNum4.Issuer)
	case xdr.AssetTypeAssetTypeCreditAlphanum12:
		if raw.AlphaNum12 == nil {
			return Asset{}, decodeErr("asset", "alphaNum12", errMissingArm)
		}
		return decodeCredit(AssetTypeCreditAlphanum12, raw.AlphaNum12.AssetCode[:], raw.AlphaNum12.Issuer)
	}
	return unknownAsset(raw.Type), nil
}

// DecodeTrustLineAsset decodes the asset of a trust line, which may
// also be a liquidity pool share.
func DecodeTrustLineAsset(raw xdr.TrustLineAsset) (Asset, error) {
	switch raw.Type {
	case xdr.AssetTypeAssetTypeNative:
		return Native(), nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4:
		if raw.AlphaNum4 == nil {
			return Asset{}, decodeErr("trustLineAsset", "alphaNum4", errMissingArm)
		}
		return decodeCredit(AssetTypeCreditAlphanum4, raw.AlphaNum4.AssetCode[:], raw.AlphaNum4.Issuer)
	case xdr.AssetTypeAssetTypeCreditAlphanum12:
		if raw.AlphaNum12 == nil {
			return Asset{}, decodeErr("trustLineAsset", "alphaNum12", errMissingArm)
		}
		return decodeCredit(AssetTypeCreditAlphanum12, raw.AlphaNum12.AssetCode[:], raw.AlphaNum12.Issuer)
	case xdr.AssetTypeAssetTypePoolShare:
		if raw.LiquidityPoolId == nil {
			return Asset{}, decodeErr("trustLineAsset", "liquidityPoolId", errMissingArm)
		}
		return Asset{Type: AssetTypePoolShare, PoolID: poolIDString(*raw.LiquidityPoolId)}, nil
	}
	return unknownAsset(raw.Type), nil
}

func decodeCredit(t string, code []byte, issuer xdr.AccountId) (Asset, error) {
	addr, err := DecodeAccountID(issuer)
	if err != nil {
		return Asset{}, decodeErr("asset", "issuer", err)
	}
	return Asset{Type: t, Code: strings.TrimRight(string(code), "\x00"), Issuer: addr}, nil
}

func unknownAsset(t xdr.AssetType) Asset {
	name := armName(t.String(), "AssetTypeAssetType", "assetType", int32(t))
	log.Warnw("unknown asset type", "type", name)
	return Asset{Type: fmt.Sprintf("unknown(%s)", name)}
}

// EncodeAsset is the inverse of DecodeAsset.
func EncodeAsset(a Asset) (xdr.Asset, error) {
	switch NormalizeAssetType(a.Type) {
	case AssetTypeNative:
		return xdr.Asset{Type: xdr.AssetTypeAssetTypeNative}, nil
	case AssetTypeCreditAlphanum4:
		if len(a.Code) == 0 || len(a.Code) > 4 {
			return xdr.Asset{}, fmt.Errorf("invalid alphanum4 code %q", a.Code)
		}
		issuer, err := EncodeAccountID(a.Issuer)
		if err != nil {
			return xdr.Asset{}, err
		}
		var code xdr.AssetCode4
		copy(code[:], a.Code)
		return xdr.Asset{
			Type:      xdr.AssetTypeAssetTypeCreditAlphanum4,
			AlphaNum4: &xdr.AlphaNum4{AssetCode: code, Issuer: issuer},
		}, nil
	case AssetTypeCreditAlphanum12:
		if len(a.Code) == 0 || len(a.Code) > 12 {
			return xdr.Asset{}, fmt.Errorf("invalid alphanum12 code %q", a.Code)
		}
		issuer, err := EncodeAccountID(a.Issuer)
		if err != nil {
			return xdr.Asset{}, err
		}
		var code xdr.AssetCode12
		copy(code[:], a.Code)
		return xdr.Asset{
			Type:       xdr.AssetTypeAssetTypeCreditAlphanum12,
			AlphaNum12: &xdr.AlphaNum12{AssetCode: code, Issuer: issuer},
		}, nil
	}
	return xdr.Asset{}, fmt.Errorf("cannot encode asset type %q", a.Type)
}
