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

package build

import (
	"errors"
	"fmt"

	"github.com/stellar/go/price"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/codec"
)

// Compile maps an operation to its network form. Operations outside the
// known set fail with an InvalidOperationError.
func Compile(op Operation) (txnbuild.Operation, error) {
	return compile(-1, op)
}

// CompileAll compiles a batch keeping the caller's order.
func CompileAll(ops []Operation) ([]txnbuild.Operation, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	out := make([]txnbuild.Operation, 0, len(ops))
	for i, op := range ops {
		compiled, err := compile(i, op)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

func compile(index int, op Operation) (txnbuild.Operation, error) {
	if err := validate(op); err != nil {
		return nil, invalid(index, op, err.Error())
	}

	switch o := op.(type) {
	case CreateAccount:
		return &txnbuild.CreateAccount{Destination: o.Destination, Amount: o.StartingBalance}, nil
	case Payment:
		return &txnbuild.Payment{Destination: o.Destination, Amount: o.Amount, Asset: toAsset(o.Asset)}, nil
	case PathPayment:
		path := make([]txnbuild.Asset, 0, len(o.Path))
		for _, a := range o.Path {
			path = append(path, toAsset(a))
		}
		return &txnbuild.PathPaymentStrictReceive{
			SendAsset:     toAsset(o.SendAsset),
			SendMax:       o.SendMax,
			Destination:   o.Destination,
			DestAsset:     toAsset(o.DestAsset),
			DestAmount:    o.DestAmount,
			Path:          path,
			SourceAccount: o.Source,
		}, nil
	case AccountMerge:
		return &txnbuild.AccountMerge{Destination: o.Destination}, nil
	case ManageOffer:
		args := o.args()
		p, err := args.resolvePrice()
		if err != nil {
			return nil, invalid(index, op, err.Error())
		}
		return &txnbuild.ManageSellOffer{
			Selling: toAsset(args.selling),
			Buying:  toAsset(args.buying),
			Amount:  args.amount,
			Price:   p,
			OfferID: args.offerID,
		}, nil
	case CreatePassiveOffer:
		args := o.args()
		p, err := args.resolvePrice()
		if err != nil {
			return nil, invalid(index, op, err.Error())
		}
		return &txnbuild.CreatePassiveSellOffer{
			Selling: toAsset(args.selling),
			Buying:  toAsset(args.buying),
			Amount:  args.amount,
			Price:   p,
		}, nil
	}
	return nil, invalid(index, op, fmt.Sprintf("unsupported operation type %T", op))
}

// resolvePrice returns the exact price if set, else parses the decimal
// one. Deleting an offer needs no price so an empty one resolves to 1/1
// when the amount is zero.
func (o offerArgs) resolvePrice() (xdr.Price, error) {
	if o.priceR != (xdr.Price{}) {
		if o.priceR.N <= 0 || o.priceR.D <= 0 {
			return xdr.Price{}, fmt.Errorf("price %d/%d must be positive", o.priceR.N, o.priceR.D)
		}
		return o.priceR, nil
	}
	if o.price == "" {
		if isZeroAmount(o.amount) {
			return xdr.Price{N: 1, D: 1}, nil
		}
		return xdr.Price{}, errors.New("price is required")
	}
	p, err := price.Parse(o.price)
	if err != nil {
		return xdr.Price{}, fmt.Errorf("invalid price %q: %v", o.price, err)
	}
	if p.N <= 0 || p.D <= 0 {
		return xdr.Price{}, fmt.Errorf("price %q must be positive", o.price)
	}
	return p, nil
}

func toAsset(a codec.Asset) txnbuild.Asset {
	if a.IsNative() {
		return txnbuild.NativeAsset{}
	}
	return txnbuild.CreditAsset{Code: a.Code, Issuer: a.Issuer}
}
