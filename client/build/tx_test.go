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
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"

	"github.com/ultiledger/go-stellarkit/codec"
	"github.com/ultiledger/go-stellarkit/crypto"
)

func TestTx(t *testing.T) {
	_, seed, err := crypto.GetAccountKeypair()
	assert.Nil(t, err)

	tx := NewTx(network.TestNetworkPassphrase)

	err = tx.Add(
		&Source{AccountID: testAccount, Sequence: 41},
		&Ops{Ops: []Operation{
			ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "5", Price: "0.25"},
			Payment{Destination: otherAccount, Asset: usd, Amount: "1"},
		}},
		&Memo{Type: MemoTypeID, Value: "18446744073709551615"},
		&Fee{BaseFee: 200},
		&Timeout{Seconds: 60},
	)
	assert.Nil(t, err)

	_, err = tx.Sign(seed)
	assert.Equal(t, ErrNotBuilt, err)

	built, err := tx.Build()
	assert.Nil(t, err)
	assert.Equal(t, int64(42), built.SequenceNumber())
	assert.Equal(t, int64(400), built.BaseFee()*int64(len(built.Operations())))
	assert.Equal(t, txnbuild.MemoID(18446744073709551615), built.Memo())
	ops := built.Operations()
	assert.Len(t, ops, 2)
	_, ok := ops[0].(*txnbuild.ManageSellOffer)
	assert.True(t, ok)
	_, ok = ops[1].(*txnbuild.Payment)
	assert.True(t, ok)

	// extra signer first, source account last
	signed, err := tx.Sign(seed, testSeed)
	assert.Nil(t, err)
	sigs := signed.Signatures()
	assert.Len(t, sigs, 2)
	extra := keypair.MustParseFull(seed)
	primary := keypair.MustParseFull(testSeed)
	assert.Equal(t, xdr.SignatureHint(extra.Hint()), sigs[0].Hint)
	assert.Equal(t, xdr.SignatureHint(primary.Hint()), sigs[1].Hint)

	env, err := tx.Envelope()
	assert.Nil(t, err)
	parsed, err := txnbuild.TransactionFromXDR(env)
	assert.Nil(t, err)
	ptx, ok := parsed.Transaction()
	assert.True(t, ok)
	assert.Len(t, ptx.Operations(), 2)
	assert.Len(t, ptx.Signatures(), 2)
}

func TestTxInvalid(t *testing.T) {
	tx := NewTx(network.TestNetworkPassphrase)
	_, err := tx.Build()
	assert.NotNil(t, err)

	assert.Nil(t, tx.Add(&Source{AccountID: testAccount, Sequence: 1}))
	_, err = tx.Build()
	assert.NotNil(t, err)

	err = tx.Add(&Ops{Ops: []Operation{Payment{Destination: "bad", Asset: codec.Native(), Amount: "1"}}})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	assert.Len(t, tx.Operations(), 0)

	bad := NewTx(network.TestNetworkPassphrase)
	assert.Nil(t, bad.Add(&Source{AccountID: testAccount}, &Ops{Ops: []Operation{bogus{}}}))
	_, err = bad.Build()
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	assert.Nil(t, tx.Add(&Ops{Ops: []Operation{AccountMerge{Destination: otherAccount}}}))
	_, err = tx.Build()
	assert.Nil(t, err)

	_, err = tx.Sign()
	assert.NotNil(t, err)
	_, err = tx.Sign(testAccount)
	assert.NotNil(t, err)
	assert.NotContains(t, err.Error(), testAccount)

	_, err = NewTx("").Build()
	assert.NotNil(t, err)
}

func TestMutators(t *testing.T) {
	tx := NewTx(network.PublicNetworkPassphrase)
	assert.NotNil(t, tx.Add(&Source{AccountID: ""}))
	assert.NotNil(t, tx.Add(&Source{AccountID: "GBAD"}))
	assert.NotNil(t, tx.Add(&Source{AccountID: testAccount, Sequence: -1}))
	assert.NotNil(t, tx.Add(&Fee{BaseFee: 0}))
	assert.NotNil(t, tx.Add(&Timeout{Seconds: -1}))
	assert.NotNil(t, tx.Add(&Memo{Type: MemoTypeText, Value: "this memo text is longer than 28 bytes"}))
	assert.NotNil(t, tx.Add(&Memo{Type: MemoTypeText, Value: "\xff\xfe"}))
	assert.NotNil(t, tx.Add(&Memo{Type: MemoTypeID, Value: "-1"}))
	assert.NotNil(t, tx.Add(&Memo{Type: "hash", Value: "abc"}))
	assert.Nil(t, tx.Add(&Memo{Type: MemoTypeText, Value: "rent"}))
	assert.Equal(t, txnbuild.MemoText("rent"), tx.memo)

	var nilTx *Tx
	assert.Equal(t, ErrNilTx, (&Fee{BaseFee: 100}).Mutate(nilTx))

	many := make([]Operation, MaxOperations+1)
	for i := range many {
		many[i] = AccountMerge{Destination: otherAccount}
	}
	assert.NotNil(t, tx.Add(&Ops{Ops: many}))
}
