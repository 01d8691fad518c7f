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

// Package gateway talks to a Horizon server. It implements the ledger
// access port used by the client package and the subscriber used by
// stream connections.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/protocols/horizon/base"
	"github.com/stellar/go/protocols/horizon/effects"
	"github.com/stellar/go/protocols/horizon/operations"

	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/codec"
	"github.com/ultiledger/go-stellarkit/log"
)

// txBadSeq is the result code of a stale sequence number.
const txBadSeq = "tx_bad_seq"

// Horizon adapts a horizon client.
type Horizon struct {
	client horizonclient.ClientInterface
}

func New(client horizonclient.ClientInterface) *Horizon {
	return &Horizon{client: client}
}

// Dial creates a gateway for the Horizon server at url.
func Dial(url string) *Horizon {
	return New(&horizonclient.Client{HorizonURL: url, HTTP: http.DefaultClient})
}

// LoadAccount fetches the current sequence number and balances.
func (h *Horizon) LoadAccount(ctx context.Context, accountID string) (*types.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acc, err := h.client.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("load account %s failed: %w", accountID, err)
	}
	seq, err := acc.GetSequenceNumber()
	if err != nil {
		return nil, fmt.Errorf("account %s sequence number: %v", accountID, err)
	}
	account := &types.Account{
		AccountID:     acc.AccountID,
		Sequence:      seq,
		SubentryCount: acc.SubentryCount,
	}
	for _, b := range acc.Balances {
		account.Balances = append(account.Balances, types.Balance{
			Asset:   toAsset(b.Asset),
			Balance: b.Balance,
			Limit:   b.Limit,
		})
	}
	return account, nil
}

// SubmitTransaction submits a signed base64 envelope. A stale sequence
// number is reported as types.ErrStaleSequence and every other
// rejection as types.ErrSubmission.
func (h *Horizon) SubmitTransaction(ctx context.Context, envelope string) (*types.SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := h.client.SubmitTransactionXDR(envelope)
	if err != nil {
		return nil, submitError(err)
	}
	return &types.SubmitResult{
		Hash:          tx.Hash,
		Ledger:        tx.Ledger,
		Successful:    tx.Successful,
		EnvelopeXDR:   tx.EnvelopeXdr,
		ResultXDR:     tx.ResultXdr,
		ResultMetaXDR: tx.ResultMetaXdr,
	}, nil
}

func submitError(err error) error {
	hErr := horizonclient.GetError(err)
	if hErr == nil {
		return fmt.Errorf("%w: %v", types.ErrSubmission, err)
	}
	codes, cerr := hErr.ResultCodes()
	if cerr != nil || codes == nil {
		return fmt.Errorf("%w: %s", types.ErrSubmission, hErr.Problem.Title)
	}
	log.Debugw("transaction rejected", "tx", codes.TransactionCode, "ops", codes.OperationCodes)
	if codes.TransactionCode == txBadSeq {
		return fmt.Errorf("%w: %s", types.ErrStaleSequence, codes.TransactionCode)
	}
	return fmt.Errorf("%w: %s %v", types.ErrSubmission, codes.TransactionCode, codes.OperationCodes)
}

// Offers returns one page of offers owned by an account.
func (h *Horizon) Offers(ctx context.Context, q types.OfferQuery) ([]types.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := h.client.Offers(horizonclient.OfferRequest{
		ForAccount: q.Account,
		Cursor:     q.Cursor,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("load offers of %s failed: %w", q.Account, err)
	}
	offers := make([]types.Offer, 0, len(page.Embedded.Records))
	for _, o := range page.Embedded.Records {
		offers = append(offers, toOffer(o))
	}
	return offers, nil
}

func toOffer(o hProtocol.Offer) types.Offer {
	return types.Offer{
		ID:          o.ID,
		Seller:      o.Seller,
		Selling:     toAsset(base.Asset(o.Selling)),
		Buying:      toAsset(base.Asset(o.Buying)),
		Amount:      o.Amount,
		PriceN:      o.PriceR.N,
		PriceD:      o.PriceR.D,
		Price:       o.Price,
		PagingToken: o.PagingToken(),
	}
}

func toAsset(a base.Asset) codec.Asset {
	t := codec.NormalizeAssetType(a.Type)
	if t == codec.AssetTypeNative {
		return codec.Native()
	}
	return codec.Asset{Type: t, Code: a.Code, Issuer: a.Issuer}
}

// Subscribe streams one feed until ctx is done or the transport fails.
func (h *Horizon) Subscribe(ctx context.Context, req types.StreamRequest, handler func(types.Message)) error {
	order := horizonclient.Order(req.Order)
	emit := func(token string, payload interface{}) {
		handler(types.Message{Kind: req.Kind, PagingToken: token, Payload: payload})
	}

	switch req.Kind {
	case types.Effects:
		r := horizonclient.EffectRequest{ForAccount: req.Account, Cursor: req.Cursor, Order: order, Limit: req.Limit}
		return h.client.StreamEffects(ctx, r, func(e effects.Effect) {
			emit(e.PagingToken(), e)
		})
	case types.Payments:
		r := horizonclient.OperationRequest{ForAccount: req.Account, Cursor: req.Cursor, Order: order, Limit: req.Limit}
		return h.client.StreamPayments(ctx, r, func(op operations.Operation) {
			emit(op.PagingToken(), op)
		})
	case types.Operations:
		r := horizonclient.OperationRequest{ForAccount: req.Account, Cursor: req.Cursor, Order: order, Limit: req.Limit}
		return h.client.StreamOperations(ctx, r, func(op operations.Operation) {
			emit(op.PagingToken(), op)
		})
	case types.Trades:
		r := horizonclient.TradeRequest{ForAccount: req.Account, Cursor: req.Cursor, Order: order, Limit: req.Limit}
		return h.client.StreamTrades(ctx, r, func(tr hProtocol.Trade) {
			emit(tr.PagingToken(), tr)
		})
	case types.Transactions:
		r := horizonclient.TransactionRequest{ForAccount: req.Account, Cursor: req.Cursor, Order: order, Limit: req.Limit}
		return h.client.StreamTransactions(ctx, r, func(tx hProtocol.Transaction) {
			emit(tx.PagingToken(), tx)
		})
	}
	return fmt.Errorf("unknown resource kind %q", req.Kind)
}
