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

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/ultiledger/go-stellarkit/crypto"
)

const (
	// Validity window of a tx in seconds.
	DefaultTimeout int64 = 300
	DefaultBaseFee int64 = txnbuild.MinBaseFee
)

// Tx serves as the main object for building a transaction. The network
// passphrase is fixed at construction so several networks can be used
// side by side.
type Tx struct {
	network string
	source  *txnbuild.SimpleAccount
	ops     []Operation
	memo    txnbuild.Memo
	baseFee int64
	timeout int64

	tx *txnbuild.Transaction
}

func NewTx(network string) *Tx {
	return &Tx{
		network: network,
		baseFee: DefaultBaseFee,
		timeout: DefaultTimeout,
	}
}

// Add adds one or more mutators to the underlying transaction
// builder and if any of the mutation fails the method fails.
func (t *Tx) Add(ms ...TxMutator) error {
	for _, m := range ms {
		if err := m.Mutate(t); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) validate() error {
	if t.network == "" {
		return errors.New("empty network passphrase")
	}
	if t.source == nil || t.source.AccountID == "" {
		return errors.New("empty account id")
	}
	if len(t.ops) == 0 {
		return ErrNoOperations
	}
	return nil
}

// Build compiles the operations in order and assembles the unsigned
// transaction. The source sequence number is incremented by one.
func (t *Tx) Build() (*txnbuild.Transaction, error) {
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("tx is invalid: %w", err)
	}
	ops, err := CompileAll(t.ops)
	if err != nil {
		return nil, err
	}

	tb := txnbuild.NewInfiniteTimeout()
	if t.timeout > 0 {
		tb = txnbuild.NewTimeout(t.timeout)
	}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        t.source,
		IncrementSequenceNum: true,
		Operations:           ops,
		BaseFee:              t.baseFee,
		Memo:                 t.memo,
		Preconditions:        txnbuild.Preconditions{TimeBounds: tb},
	})
	if err != nil {
		return nil, fmt.Errorf("build tx failed: %v", err)
	}
	t.tx = tx
	return tx, nil
}

// Sign the built transaction with every supplied secret seed, in order.
func (t *Tx) Sign(seeds ...string) (*txnbuild.Transaction, error) {
	if t.tx == nil {
		return nil, ErrNotBuilt
	}
	if len(seeds) == 0 {
		return nil, errors.New("no signing keys")
	}
	kps := make([]*keypair.Full, 0, len(seeds))
	for i, seed := range seeds {
		kp, err := crypto.ParseSeed(seed)
		if err != nil {
			// never echo the seed itself
			return nil, fmt.Errorf("signing key %d: %v", i, err)
		}
		kps = append(kps, kp)
	}
	signed, err := t.tx.Sign(t.network, kps...)
	if err != nil {
		return nil, fmt.Errorf("sign the tx failed: %v", err)
	}
	t.tx = signed
	return signed, nil
}

// Envelope returns the base64 encoded envelope of the current tx.
func (t *Tx) Envelope() (string, error) {
	if t.tx == nil {
		return "", ErrNotBuilt
	}
	return t.tx.Base64()
}

// Operations returns the operations added so far.
func (t *Tx) Operations() []Operation {
	return t.ops
}
