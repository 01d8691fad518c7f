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
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/log"
)

// Record is a decoded ledger record keyed by lower camel case field
// names.
type Record map[string]interface{}

// rule converts a single raw field value.
type rule func(v interface{}) (interface{}, error)

type rules map[string]rule

// decodeFields walks the exported fields of a struct. Fields with a rule
// are converted and the rest pass through unchanged.
func decodeFields(name string, raw interface{}, rs rules) (Record, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, decodeErr(name, "", fmt.Errorf("unexpected %T", raw))
	}
	rt := rv.Type()
	rec := make(Record, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		key := lowerFirst(f.Name)
		value := rv.Field(i).Interface()
		r, ok := rs[key]
		if !ok {
			rec[key] = value
			continue
		}
		decoded, err := r(value)
		if err != nil {
			return nil, decodeErr(name, key, err)
		}
		rec[key] = decoded
	}
	return rec, nil
}

// unknownArm renders a union arm this package does not understand.
func unknownArm(union, arm string) Record {
	log.Warnw("unknown union arm", "union", union, "arm", arm)
	return Record{arm: nil}
}

// armName derives the record key of a union arm from the generated
// enum name, falling back to fallback followed by the numeric tag.
func armName(enum, prefix, fallback string, tag int32) string {
	if enum == "" || !strings.HasPrefix(enum, prefix) || enum == prefix {
		return fallback + strconv.Itoa(int(tag))
	}
	return lowerFirst(strings.TrimPrefix(enum, prefix))
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

func poolIDString(id xdr.PoolId) string {
	return hex.EncodeToString(id[:])
}

func unexpected(v interface{}) error {
	return fmt.Errorf("unexpected field type %T", v)
}

func accountIDRule(v interface{}) (interface{}, error) {
	switch id := v.(type) {
	case xdr.AccountId:
		return DecodeAccountID(id)
	case *xdr.AccountId:
		if id == nil {
			return nil, nil
		}
		return DecodeAccountID(*id)
	}
	return nil, unexpected(v)
}

func ed25519Rule(v interface{}) (interface{}, error) {
	key, ok := v.(xdr.Uint256)
	if !ok {
		return nil, unexpected(v)
	}
	return encodeEd25519(key[:])
}

func int64Rule(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case xdr.Int64:
		return strconv.FormatInt(int64(n), 10), nil
	case xdr.SequenceNumber:
		return strconv.FormatInt(int64(n), 10), nil
	}
	return nil, unexpected(v)
}

func uint32Rule(v interface{}) (interface{}, error) {
	n, ok := v.(xdr.Uint32)
	if !ok {
		return nil, unexpected(v)
	}
	return uint32(n), nil
}

func stringRule(v interface{}) (interface{}, error) {
	s, ok := v.(xdr.String32)
	if !ok {
		return nil, unexpected(v)
	}
	return string(s), nil
}

func thresholdsRule(v interface{}) (interface{}, error) {
	t, ok := v.(xdr.Thresholds)
	if !ok {
		return nil, unexpected(v)
	}
	return base64.StdEncoding.EncodeToString(t[:]), nil
}

func assetRule(v interface{}) (interface{}, error) {
	switch a := v.(type) {
	case xdr.Asset:
		return DecodeAsset(a)
	case xdr.TrustLineAsset:
		return DecodeTrustLineAsset(a)
	}
	return nil, unexpected(v)
}

func priceRule(v interface{}) (interface{}, error) {
	p, ok := v.(xdr.Price)
	if !ok {
		return nil, unexpected(v)
	}
	return DecodePrice(p)
}

func poolIDRule(v interface{}) (interface{}, error) {
	id, ok := v.(xdr.PoolId)
	if !ok {
		return nil, unexpected(v)
	}
	return poolIDString(id), nil
}

var offerRules = rules{
	"sellerId": accountIDRule,
	"offerId":  int64Rule,
	"selling":  assetRule,
	"buying":   assetRule,
	"amount":   int64Rule,
	"price":    priceRule,
	"flags":    uint32Rule,
}

var claimRules = rules{
	"sellerId":        accountIDRule,
	"sellerEd25519":   ed25519Rule,
	"liquidityPoolId": poolIDRule,
	"offerId":         int64Rule,
	"assetSold":       assetRule,
	"amountSold":      int64Rule,
	"assetBought":     assetRule,
	"amountBought":    int64Rule,
}

var accountRules = rules{
	"accountId":     accountIDRule,
	"balance":       int64Rule,
	"seqNum":        int64Rule,
	"numSubEntries": uint32Rule,
	"inflationDest": accountIDRule,
	"flags":         uint32Rule,
	"homeDomain":    stringRule,
	"thresholds":    thresholdsRule,
}

var trustLineRules = rules{
	"accountId": accountIDRule,
	"asset":     assetRule,
	"balance":   int64Rule,
	"limit":     int64Rule,
	"flags":     uint32Rule,
}

var keyRules = rules{
	"accountId": accountIDRule,
	"asset":     assetRule,
	"sellerId":  accountIDRule,
	"offerId":   int64Rule,
}
