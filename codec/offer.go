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
	"fmt"

	"github.com/stellar/go/xdr"
)

// DecodeOfferEntry decodes an order book offer.
func DecodeOfferEntry(raw xdr.OfferEntry) (Record, error) {
	return decodeFields("offer", raw, offerRules)
}

// DecodeClaimOfferAtom decodes a single offer taken by a manage offer
// operation.
func DecodeClaimOfferAtom(raw xdr.ClaimOfferAtom) (Record, error) {
	return decodeFields("claimOfferAtom", raw, claimRules)
}

// DecodeClaimAtom decodes any kind of claim atom. The result carries
// the fields of the arm that is set.
func DecodeClaimAtom(raw xdr.ClaimAtom) (Record, error) {
	switch raw.Type {
	case xdr.ClaimAtomTypeClaimAtomTypeOrderBook:
		if raw.OrderBook == nil {
			return nil, decodeErr("claimAtom", "orderBook", errMissingArm)
		}
		return DecodeClaimOfferAtom(*raw.OrderBook)
	case xdr.ClaimAtomTypeClaimAtomTypeV0:
		if raw.V0 == nil {
			return nil, decodeErr("claimAtom", "v0", errMissingArm)
		}
		return decodeFields("claimOfferAtomV0", *raw.V0, claimRules)
	case xdr.ClaimAtomTypeClaimAtomTypeLiquidityPool:
		if raw.LiquidityPool == nil {
			return nil, decodeErr("claimAtom", "liquidityPool", errMissingArm)
		}
		return decodeFields("claimLiquidityAtom", *raw.LiquidityPool, claimRules)
	}
	return unknownArm("claimAtom", armName(raw.Type.String(), "ClaimAtomTypeClaimAtomType", "claimAtomType", int32(raw.Type))), nil
}

// ManageOfferResult is the decoded success result of an offer
// operation.
type ManageOfferResult struct {
	OffersClaimed []Record `json:"offersClaimed"`
	// Offer is nil when the operation deleted the offer.
	Offer Record `json:"offer"`
}

// DecodeManageOfferResult decodes the success arm of an offer result.
func DecodeManageOfferResult(raw xdr.ManageOfferSuccessResult) (*ManageOfferResult, error) {
	res := &ManageOfferResult{OffersClaimed: make([]Record, 0, len(raw.OffersClaimed))}
	for i, atom := range raw.OffersClaimed {
		rec, err := DecodeClaimAtom(atom)
		if err != nil {
			return nil, decodeErr("manageOfferResult", fmt.Sprintf("offersClaimed[%d]", i), err)
		}
		res.OffersClaimed = append(res.OffersClaimed, rec)
	}
	if raw.Offer.Effect == xdr.ManageOfferEffectManageOfferDeleted {
		return res, nil
	}
	if raw.Offer.Offer == nil {
		return nil, decodeErr("manageOfferResult", "offer", errMissingArm)
	}
	offer, err := DecodeOfferEntry(*raw.Offer.Offer)
	if err != nil {
		return nil, err
	}
	res.Offer = offer
	return res, nil
}

// DecodeManageSellOfferResult decodes a sell offer result. Only the
// success code carries a body.
func DecodeManageSellOfferResult(raw xdr.ManageSellOfferResult) (*ManageOfferResult, error) {
	success, ok := raw.GetSuccess()
	if raw.Code != xdr.ManageSellOfferResultCodeManageSellOfferSuccess || !ok {
		return nil, decodeErr("manageSellOfferResult", "code", fmt.Errorf("operation failed with code %d", raw.Code))
	}
	return DecodeManageOfferResult(success)
}

// OfferResult pairs a decoded offer result with the index of its
// operation in the transaction.
type OfferResult struct {
	Index  int                `json:"index"`
	Result *ManageOfferResult `json:"result"`
}

// DecodeOfferResultsXDR decodes the offer results of a base64
// transaction result as returned by Horizon. Operations that are not
// sell or passive offers are skipped.
func DecodeOfferResultsXDR(b64 string) ([]OfferResult, error) {
	var res xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(b64, &res); err != nil {
		return nil, decodeErr("transactionResult", "", err)
	}
	ops, ok := res.Result.GetResults()
	if !ok {
		return nil, decodeErr("transactionResult", "results", fmt.Errorf("no operation results for code %d", res.Result.Code))
	}
	var out []OfferResult
	for i, op := range ops {
		tr, ok := op.GetTr()
		if !ok {
			continue
		}
		var sell xdr.ManageSellOfferResult
		switch tr.Type {
		case xdr.OperationTypeManageSellOffer:
			sell, ok = tr.GetManageSellOfferResult()
		case xdr.OperationTypeCreatePassiveSellOffer:
			sell, ok = tr.GetCreatePassiveSellOfferResult()
		default:
			continue
		}
		if !ok {
			return nil, decodeErr("transactionResult", fmt.Sprintf("results[%d]", i), errMissingArm)
		}
		decoded, err := DecodeManageSellOfferResult(sell)
		if err != nil {
			return nil, err
		}
		out = append(out, OfferResult{Index: i, Result: decoded})
	}
	return out, nil
}
