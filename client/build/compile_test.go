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

	"github.com/hashicorp/go-multierror"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"

	"github.com/ultiledger/go-stellarkit/codec"
)

const (
	testSeed     = "SCOWDMM5576VUYF2QRFPJEXMFTCEISOFNF5TE2IZOA52YAY4VZ7WBQNO"
	testAccount  = "GDLVVGABQKYQVN6VJP7NHSLEA45A5YLS6PNKMIZFV4BBU2HXA5IRVHUR"
	otherAccount = "GAAQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAHV4"
)

var usd = codec.Credit("USD", otherAccount)

// bogus is an operation outside the compiled set.
type bogus struct{}

func (bogus) Validate() error { return nil }
func (bogus) isOperation()    {}

func TestCompileVariants(t *testing.T) {
	op, err := Compile(CreateAccount{Destination: otherAccount, StartingBalance: "10"})
	assert.Nil(t, err)
	assert.Equal(t, &txnbuild.CreateAccount{Destination: otherAccount, Amount: "10"}, op)

	op, err = Compile(Payment{Destination: otherAccount, Asset: codec.Native(), Amount: "1.5"})
	assert.Nil(t, err)
	assert.Equal(t, txnbuild.NativeAsset{}, op.(*txnbuild.Payment).Asset)

	op, err = Compile(Payment{Destination: otherAccount, Asset: usd, Amount: "2"})
	assert.Nil(t, err)
	assert.Equal(t, txnbuild.CreditAsset{Code: "USD", Issuer: otherAccount}, op.(*txnbuild.Payment).Asset)

	op, err = Compile(AccountMerge{Destination: otherAccount})
	assert.Nil(t, err)
	assert.Equal(t, otherAccount, op.(*txnbuild.AccountMerge).Destination)
}

func TestCompilePathPayment(t *testing.T) {
	eur := codec.Credit("EUR", otherAccount)
	op, err := Compile(PathPayment{
		Destination: otherAccount,
		Path:        []codec.Asset{eur, codec.Native()},
		SendAsset:   usd,
		SendMax:     "100",
		DestAsset:   codec.Native(),
		DestAmount:  "90",
	})
	assert.Nil(t, err)
	pp := op.(*txnbuild.PathPaymentStrictReceive)
	assert.Equal(t, []txnbuild.Asset{txnbuild.CreditAsset{Code: "EUR", Issuer: otherAccount}, txnbuild.NativeAsset{}}, pp.Path)
	assert.Equal(t, txnbuild.CreditAsset{Code: "USD", Issuer: otherAccount}, pp.SendAsset)
	assert.Equal(t, txnbuild.NativeAsset{}, pp.DestAsset)
	assert.Equal(t, "", pp.SourceAccount)
}

func TestCompileOffers(t *testing.T) {
	op, err := Compile(ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "5", Price: "0.5", OfferID: 7})
	assert.Nil(t, err)
	mo := op.(*txnbuild.ManageSellOffer)
	assert.Equal(t, xdr.Price{N: 1, D: 2}, mo.Price)
	assert.Equal(t, int64(7), mo.OfferID)

	// deleting needs no price
	op, err = Compile(ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "0", OfferID: 7})
	assert.Nil(t, err)
	assert.Equal(t, xdr.Price{N: 1, D: 1}, op.(*txnbuild.ManageSellOffer).Price)

	_, err = Compile(ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "5"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	op, err = Compile(CreatePassiveOffer{Selling: usd, Buying: codec.Native(), Amount: "3", Price: "2"})
	assert.Nil(t, err)
	po := op.(*txnbuild.CreatePassiveSellOffer)
	assert.Equal(t, xdr.Price{N: 2, D: 1}, po.Price)
	assert.Equal(t, "3", po.Amount)

	_, err = Compile(CreatePassiveOffer{Selling: usd, Buying: codec.Native(), Amount: "3", Price: "2", OfferID: 1})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	_, err = Compile(CreatePassiveOffer{Selling: usd, Buying: codec.Native(), Amount: "0", Price: "2"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
}

func TestCompileExactPrice(t *testing.T) {
	// the exact rational wins over the rounded decimal
	op, err := Compile(ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "0", Price: "0.3333333", PriceR: xdr.Price{N: 1, D: 3}, OfferID: 7})
	assert.Nil(t, err)
	assert.Equal(t, xdr.Price{N: 1, D: 3}, op.(*txnbuild.ManageSellOffer).Price)

	op, err = Compile(CreatePassiveOffer{Selling: usd, Buying: codec.Native(), Amount: "3", PriceR: xdr.Price{N: 3, D: 7}})
	assert.Nil(t, err)
	assert.Equal(t, xdr.Price{N: 3, D: 7}, op.(*txnbuild.CreatePassiveSellOffer).Price)

	for _, p := range []xdr.Price{{N: 0, D: 7}, {N: 3, D: 0}, {N: -1, D: 2}, {N: 1, D: -2}} {
		_, err = Compile(ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "5", PriceR: p})
		assert.True(t, errors.Is(err, ErrInvalidOperation), "price %d/%d", p.N, p.D)
	}
}

func TestCompileInvalid(t *testing.T) {
	_, err := Compile(bogus{})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	var ioe *InvalidOperationError
	assert.True(t, errors.As(err, &ioe))
	assert.Equal(t, -1, ioe.Index)

	_, err = Compile(nil)
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	// pointers are not part of the set
	_, err = Compile(&Payment{Destination: otherAccount, Asset: codec.Native(), Amount: "1"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	_, err = Compile(Payment{Destination: otherAccount, Asset: codec.Asset{Type: codec.AssetTypeNative, Code: "XLM"}, Amount: "1"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	for _, typ := range []string{"bogus", codec.AssetTypePoolShare, ""} {
		asset := codec.Asset{Type: typ, Code: "USD", Issuer: otherAccount}
		_, err = Compile(Payment{Destination: otherAccount, Asset: asset, Amount: "1"})
		assert.True(t, errors.Is(err, ErrInvalidOperation), typ)
		_, err = Compile(ManageOffer{Selling: asset, Buying: codec.Native(), Amount: "1", Price: "1"})
		assert.True(t, errors.Is(err, ErrInvalidOperation), typ)
	}
	_, err = Compile(Payment{Destination: "nobody", Asset: codec.Native(), Amount: "1"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	_, err = Compile(Payment{Destination: otherAccount, Asset: codec.Native(), Amount: "-1"})
	assert.True(t, errors.Is(err, ErrInvalidOperation))
}

func TestCompileAllOrder(t *testing.T) {
	ops := []Operation{
		ManageOffer{Selling: codec.Native(), Buying: usd, Amount: "5", Price: "1"},
		Payment{Destination: otherAccount, Asset: codec.Native(), Amount: "1"},
	}
	compiled, err := CompileAll(ops)
	assert.Nil(t, err)
	assert.Len(t, compiled, 2)
	for i, op := range ops {
		want, err := Compile(op)
		assert.Nil(t, err)
		assert.Equal(t, want, compiled[i])
	}

	_, err = CompileAll([]Operation{ops[0], bogus{}})
	var ioe *InvalidOperationError
	assert.True(t, errors.As(err, &ioe))
	assert.Equal(t, 1, ioe.Index)

	_, err = CompileAll(nil)
	assert.Equal(t, ErrNoOperations, err)
}

func TestValidateAll(t *testing.T) {
	err := ValidateAll([]Operation{
		Payment{Destination: otherAccount, Asset: codec.Native(), Amount: "1"},
		Payment{Destination: "bad", Asset: codec.Native(), Amount: "1"},
		AccountMerge{},
	})
	assert.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	assert.True(t, ok)
	assert.Len(t, merr.Errors, 2)
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	assert.Nil(t, ValidateAll([]Operation{AccountMerge{Destination: otherAccount}}))
	assert.Equal(t, ErrNoOperations, ValidateAll(nil))
}
