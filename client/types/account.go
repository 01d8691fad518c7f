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

package types

import (
	"github.com/ultiledger/go-stellarkit/codec"
)

// Account represents the state of a ledger account needed to build
// transactions on its behalf.
type Account struct {
	// Public key of this account.
	AccountID string
	// Latest transaction sequence number.
	Sequence int64
	// Number of entries belong to the account.
	SubentryCount int32
	// Balances of every asset the account holds.
	Balances []Balance
}

// Balance is the amount of a single asset held by an account.
type Balance struct {
	Asset   codec.Asset
	Balance string
	Limit   string
}

// Offer is a live resting order owned by an account.
type Offer struct {
	ID      int64
	Seller  string
	Selling codec.Asset
	Buying  codec.Asset
	Amount  string
	// Rational price, buying units per selling unit.
	PriceN int32
	PriceD int32
	Price  string
	// Position of the offer in the paged offer listing.
	PagingToken string
}

// OfferQuery selects a page of offers owned by one account.
type OfferQuery struct {
	Account string
	Cursor  string
	Limit   uint
}
