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

	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/codec"
	"github.com/ultiledger/go-stellarkit/crypto"
)

// MaxOperations is the largest number of operations a single
// transaction may carry.
const MaxOperations = 100

// Operation is one of the operations this package knows how to
// compile. The set is closed.
type Operation interface {
	Validate() error
	isOperation()
}

// CreateAccount funds a new account with the native asset.
type CreateAccount struct {
	Destination     string
	StartingBalance string
}

// Payment sends an amount of an asset to an existing account.
type Payment struct {
	Destination string
	Asset       codec.Asset
	Amount      string
}

// PathPayment sends exactly DestAmount of DestAsset, spending at most
// SendMax of SendAsset through the ordered Path of intermediate assets.
type PathPayment struct {
	Destination string
	// Source optionally overrides the source account of the operation.
	Source     string
	Path       []codec.Asset
	SendAsset  codec.Asset
	SendMax    string
	DestAsset  codec.Asset
	DestAmount string
}

// AccountMerge moves the whole native balance into Destination and
// removes the source account.
type AccountMerge struct {
	Destination string
}

// ManageOffer creates, updates or deletes an offer. An OfferID of zero
// creates a new offer and an Amount of zero deletes OfferID.
type ManageOffer struct {
	Selling codec.Asset
	Buying  codec.Asset
	Amount  string
	// Price is a decimal string, empty is only allowed when deleting.
	Price string
	// PriceR is the exact rational price and wins over Price when set.
	PriceR  xdr.Price
	OfferID int64
}

// CreatePassiveOffer creates an offer that does not take offers at the
// same price.
type CreatePassiveOffer struct {
	Selling codec.Asset
	Buying  codec.Asset
	Amount  string
	Price   string
	PriceR  xdr.Price
	// OfferID must be zero, passive offers are always new.
	OfferID int64
}

func (CreateAccount) isOperation()      {}
func (Payment) isOperation()            {}
func (PathPayment) isOperation()        {}
func (AccountMerge) isOperation()       {}
func (ManageOffer) isOperation()        {}
func (CreatePassiveOffer) isOperation() {}

func (ca CreateAccount) Validate() error {
	if err := validAccount(ca.Destination); err != nil {
		return err
	}
	return validAmount(ca.StartingBalance, false)
}

func (p Payment) Validate() error {
	if err := validAccount(p.Destination); err != nil {
		return err
	}
	if err := p.Asset.Validate(); err != nil {
		return err
	}
	return validAmount(p.Amount, false)
}

func (pp PathPayment) Validate() error {
	if err := validAccount(pp.Destination); err != nil {
		return err
	}
	if pp.Source != "" && !crypto.IsValidAccountKey(pp.Source) {
		return errors.New("invalid source account")
	}
	if err := pp.SendAsset.Validate(); err != nil {
		return fmt.Errorf("send asset: %v", err)
	}
	if err := pp.DestAsset.Validate(); err != nil {
		return fmt.Errorf("dest asset: %v", err)
	}
	for i, a := range pp.Path {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("path asset %d: %v", i, err)
		}
	}
	if err := validAmount(pp.SendMax, false); err != nil {
		return err
	}
	return validAmount(pp.DestAmount, false)
}

func (am AccountMerge) Validate() error {
	return validAccount(am.Destination)
}

func (mo ManageOffer) Validate() error {
	return mo.args().validate()
}

func (po CreatePassiveOffer) Validate() error {
	if po.OfferID != 0 {
		return errors.New("passive offers cannot reference an existing offer")
	}
	if err := validAmount(po.Amount, false); err != nil {
		return err
	}
	return po.args().validate()
}

func (mo ManageOffer) args() offerArgs {
	return offerArgs{mo.Selling, mo.Buying, mo.Amount, mo.Price, mo.PriceR, mo.OfferID}
}

func (po CreatePassiveOffer) args() offerArgs {
	return offerArgs{po.Selling, po.Buying, po.Amount, po.Price, po.PriceR, 0}
}

// offerArgs is the shape shared by both offer operations.
type offerArgs struct {
	selling codec.Asset
	buying  codec.Asset
	amount  string
	price   string
	priceR  xdr.Price
	offerID int64
}

func (o offerArgs) validate() error {
	if err := o.selling.Validate(); err != nil {
		return fmt.Errorf("selling asset: %v", err)
	}
	if err := o.buying.Validate(); err != nil {
		return fmt.Errorf("buying asset: %v", err)
	}
	if err := validAmount(o.amount, true); err != nil {
		return err
	}
	if o.offerID < 0 {
		return errors.New("negative offer id")
	}
	_, err := o.resolvePrice()
	return err
}

func validAccount(id string) error {
	if id == "" {
		return errors.New("empty destination")
	}
	if !crypto.IsValidAccountKey(id) {
		return fmt.Errorf("invalid destination %q", id)
	}
	return nil
}

func validAmount(s string, allowZero bool) error {
	v, err := amount.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %v", s, err)
	}
	if v < 0 || (v == 0 && !allowZero) {
		return fmt.Errorf("amount %q must be positive", s)
	}
	return nil
}

func isZeroAmount(s string) bool {
	v, err := amount.Parse(s)
	return err == nil && v == 0
}
