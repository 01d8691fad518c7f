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

package client

import (
	"context"
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/client/build"
	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/codec"
	"github.com/ultiledger/go-stellarkit/log"
)

// Largest page the ledger serves for an offer listing.
const offerPageSize uint = 200

// OfferResult is a submitted offer batch with the decoded outcome of
// every offer operation in it.
type OfferResult struct {
	Submission *types.SubmitResult
	Offers     []codec.OfferResult
}

// GetOffersForAccount pages through all live offers owned by account.
func (c *Client) GetOffersForAccount(ctx context.Context, account string) ([]types.Offer, error) {
	if account == "" {
		return nil, ErrBadAccount
	}
	var offers []types.Offer
	q := types.OfferQuery{Account: account, Limit: offerPageSize}
	for {
		page, err := c.ledger.Offers(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load offers of %s failed: %w", account, err)
		}
		offers = append(offers, page...)
		if uint(len(page)) < q.Limit {
			break
		}
		next := page[len(page)-1].PagingToken
		if next == "" || next == q.Cursor {
			break
		}
		q.Cursor = next
	}
	return offers, nil
}

// DropOffersForAccount deletes every live offer of the source account by
// resubmitting it with a zero amount. An account without offers is a no-op.
// Offers are dropped in batches of at most build.MaxOperations per tx.
func (c *Client) DropOffersForAccount(ctx context.Context, src Source) ([]*types.SubmitResult, error) {
	offers, err := c.GetOffersForAccount(ctx, src.Account)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		log.Debugw("no offers to drop", "account", src.Account)
		return nil, nil
	}

	ops := make([]build.Operation, 0, len(offers))
	for _, o := range offers {
		ops = append(ops, dropOffer(o))
	}
	var results []*types.SubmitResult
	for start := 0; start < len(ops); start += build.MaxOperations {
		end := min(start+build.MaxOperations, len(ops))
		res, err := c.Submit(ctx, Request{Source: src, Operations: ops[start:end]})
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	log.Infow("offers dropped", "account", src.Account, "count", len(offers))
	return results, nil
}

func dropOffer(o types.Offer) build.ManageOffer {
	mo := build.ManageOffer{
		Selling: o.Selling,
		Buying:  o.Buying,
		Amount:  "0",
		Price:   o.Price,
		OfferID: o.ID,
	}
	if o.PriceD != 0 {
		mo.PriceR = xdr.Price{N: xdr.Int32(o.PriceN), D: xdr.Int32(o.PriceD)}
	}
	return mo
}

// ManageOffers creates, updates or deletes offers in one transaction.
func (c *Client) ManageOffers(ctx context.Context, src Source, offers ...build.ManageOffer) (*OfferResult, error) {
	ops := make([]build.Operation, 0, len(offers))
	for _, o := range offers {
		ops = append(ops, o)
	}
	return c.submitOffers(ctx, src, ops)
}

// CreatePassiveOffer places passive offers in one transaction.
func (c *Client) CreatePassiveOffer(ctx context.Context, src Source, offers ...build.CreatePassiveOffer) (*OfferResult, error) {
	ops := make([]build.Operation, 0, len(offers))
	for _, o := range offers {
		ops = append(ops, o)
	}
	return c.submitOffers(ctx, src, ops)
}

// submitOffers returns the submission even when its results cannot be
// decoded, the tx is already applied at that point.
func (c *Client) submitOffers(ctx context.Context, src Source, ops []build.Operation) (*OfferResult, error) {
	if len(ops) == 0 {
		return nil, &SubmissionError{Account: src.Account, Err: ErrNoOffers}
	}
	res, err := c.Submit(ctx, Request{Source: src, Operations: ops})
	if err != nil {
		return nil, err
	}
	result := &OfferResult{Submission: res}
	if res.ResultXDR == "" {
		return result, nil
	}
	decoded, err := codec.DecodeOfferResultsXDR(res.ResultXDR)
	if err != nil {
		return result, &SubmissionError{Account: src.Account, Operations: ops, Err: err}
	}
	result.Offers = decoded
	return result, nil
}
