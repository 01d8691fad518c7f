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

// Package client assembles, signs and submits transactions against a
// ledger-access port and drives the offer lifecycle on top of it.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ultiledger/go-stellarkit/client/build"
	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/crypto"
	"github.com/ultiledger/go-stellarkit/future"
	"github.com/ultiledger/go-stellarkit/log"
	"github.com/ultiledger/go-stellarkit/metrics"
)

// Ledger is the ledger-access port the client submits through.
type Ledger interface {
	LoadAccount(ctx context.Context, accountID string) (*types.Account, error)
	SubmitTransaction(ctx context.Context, envelope string) (*types.SubmitResult, error)
	Offers(ctx context.Context, q types.OfferQuery) ([]types.Offer, error)
}

var (
	ErrNilLedger  = errors.New("ledger is nil")
	ErrNoNetwork  = errors.New("empty network passphrase")
	ErrNoSigners  = errors.New("no signing keys")
	ErrNoOffers   = errors.New("empty offer list")
	ErrBadAccount = errors.New("invalid account key")
)

// SubmissionError names the account and operation batch of a failed
// pipeline run. The underlying error is kept intact.
type SubmissionError struct {
	Account    string
	Operations []build.Operation
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit %d operations for account %s failed: %v", len(e.Operations), e.Account, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Source is the account a transaction is built for together with the
// keys that sign it.
type Source struct {
	Account string
	// Secret of Account, signs last when present.
	Secret       string
	ExtraSecrets []string
	Memo         *build.Memo
}

// signers lists the signing seeds in signature order.
func (s Source) signers() []string {
	seeds := make([]string, 0, len(s.ExtraSecrets)+1)
	seeds = append(seeds, s.ExtraSecrets...)
	if s.Secret != "" {
		seeds = append(seeds, s.Secret)
	}
	return seeds
}

// Request is a single transaction to run through the pipeline.
type Request struct {
	Source
	Operations []build.Operation
}

type Option func(*Client)

// WithBaseFee sets the per-operation fee in stroops.
func WithBaseFee(fee int64) Option {
	return func(c *Client) { c.baseFee = fee }
}

// WithTimeout bounds transaction validity in seconds, zero means no bound.
func WithTimeout(seconds int64) Option {
	return func(c *Client) { c.timeout = seconds }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client runs the load, compile, memo, sign and submit pipeline. It does
// not serialize submissions for the same account; concurrent callers race
// on the sequence number and the network settles the conflict.
type Client struct {
	ledger  Ledger
	network string
	baseFee int64
	timeout int64
	metrics *metrics.Metrics
}

func New(ledger Ledger, network string, opts ...Option) (*Client, error) {
	if ledger == nil {
		return nil, ErrNilLedger
	}
	if network == "" {
		return nil, ErrNoNetwork
	}
	c := &Client{
		ledger:  ledger,
		network: network,
		baseFee: build.DefaultBaseFee,
		timeout: build.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit builds one transaction out of the request and hands it to the
// ledger. Failures are logged and returned as *SubmissionError, there
// are no retries.
func (c *Client) Submit(ctx context.Context, req Request) (*types.SubmitResult, error) {
	start := time.Now()
	res, err := c.submit(ctx, req)
	c.metrics.Submitted(types.StatusOf(err).String(), time.Since(start))
	if err != nil {
		log.Errorw("submit transaction failed", "account", req.Account, "operations", req.Operations, "err", err)
		return nil, &SubmissionError{Account: req.Account, Operations: req.Operations, Err: err}
	}
	log.Debugw("transaction submitted", "account", req.Account, "hash", res.Hash, "ledger", res.Ledger)
	return res, nil
}

// SubmitAsync runs Submit in the background.
func (c *Client) SubmitAsync(ctx context.Context, req Request) *future.Submission {
	f := future.NewSubmission(req.Account, req.Operations)
	go func() {
		f.Resolve(c.Submit(ctx, req))
	}()
	return f
}

func (c *Client) submit(ctx context.Context, req Request) (*types.SubmitResult, error) {
	if !crypto.IsValidAccountKey(req.Account) {
		return nil, ErrBadAccount
	}
	if err := build.ValidateAll(req.Operations); err != nil {
		return nil, err
	}
	seeds := req.signers()
	if len(seeds) == 0 {
		return nil, ErrNoSigners
	}

	acc, err := c.ledger.LoadAccount(ctx, req.Account)
	if err != nil {
		return nil, fmt.Errorf("load account failed: %w", err)
	}

	tx := build.NewTx(c.network)
	ms := []build.TxMutator{
		&build.Source{AccountID: req.Account, Sequence: acc.Sequence},
		&build.Ops{Ops: req.Operations},
		&build.Fee{BaseFee: c.baseFee},
		&build.Timeout{Seconds: c.timeout},
	}
	if req.Memo != nil {
		ms = append(ms, req.Memo)
	}
	if err := tx.Add(ms...); err != nil {
		return nil, err
	}
	if _, err := tx.Build(); err != nil {
		return nil, err
	}
	if _, err := tx.Sign(seeds...); err != nil {
		return nil, err
	}
	env, err := tx.Envelope()
	if err != nil {
		return nil, fmt.Errorf("encode envelope failed: %v", err)
	}
	return c.ledger.SubmitTransaction(ctx, env)
}
