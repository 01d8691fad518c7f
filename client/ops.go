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

	"github.com/ultiledger/go-stellarkit/client/build"
	"github.com/ultiledger/go-stellarkit/client/types"
	"github.com/ultiledger/go-stellarkit/codec"
	"github.com/ultiledger/go-stellarkit/crypto"
	"github.com/ultiledger/go-stellarkit/log"
)

// GenerateKeyPair returns a random account address and its secret seed.
func GenerateKeyPair() (string, string, error) {
	return crypto.GetAccountKeypair()
}

// SendAssets pays amount of asset to destination.
func (c *Client) SendAssets(ctx context.Context, src Source, destination string, asset codec.Asset, amount string) (*types.SubmitResult, error) {
	log.Infow("send assets", "account", src.Account, "destination", destination, "asset", asset.String(), "amount", amount)
	op := build.Payment{Destination: destination, Asset: asset, Amount: amount}
	return c.Submit(ctx, Request{Source: src, Operations: []build.Operation{op}})
}

// CreateAccount funds a new account with startingBalance lumens.
func (c *Client) CreateAccount(ctx context.Context, src Source, destination, startingBalance string) (*types.SubmitResult, error) {
	log.Infow("create account", "account", src.Account, "destination", destination, "balance", startingBalance)
	op := build.CreateAccount{Destination: destination, StartingBalance: startingBalance}
	return c.Submit(ctx, Request{Source: src, Operations: []build.Operation{op}})
}

// AccountMerge moves the source balance into destination and removes
// the source account.
func (c *Client) AccountMerge(ctx context.Context, src Source, destination string) (*types.SubmitResult, error) {
	log.Infow("merge account", "account", src.Account, "destination", destination)
	op := build.AccountMerge{Destination: destination}
	return c.Submit(ctx, Request{Source: src, Operations: []build.Operation{op}})
}

func (c *Client) PathPayment(ctx context.Context, src Source, pp build.PathPayment) (*types.SubmitResult, error) {
	log.Infow("path payment", "account", src.Account, "destination", pp.Destination,
		"send", pp.SendAsset.String(), "dest", pp.DestAsset.String())
	return c.Submit(ctx, Request{Source: src, Operations: []build.Operation{pp}})
}
