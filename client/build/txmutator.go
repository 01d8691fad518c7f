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

	"github.com/stellar/go/txnbuild"

	"github.com/ultiledger/go-stellarkit/crypto"
)

// TxMutator defines the method which all the transaction
// mutators should implement.
type TxMutator interface {
	Mutate(tx *Tx) error
}

// Source sets the source account and its current sequence number.
type Source struct {
	AccountID string
	Sequence  int64
}

func (s *Source) validate() error {
	if s.AccountID == "" {
		return errors.New("empty account id")
	}
	// Check whether the account id is a valid address.
	if !crypto.IsValidAccountKey(s.AccountID) {
		return errors.New("invalid account key")
	}
	if s.Sequence < 0 {
		return errors.New("negative sequence number")
	}
	return nil
}

// Mutate changes the source account of the Tx.
func (s *Source) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := s.validate(); err != nil {
		return err
	}
	tx.source = &txnbuild.SimpleAccount{AccountID: s.AccountID, Sequence: s.Sequence}
	return nil
}

// Ops appends operations to the Tx keeping their order.
type Ops struct {
	Ops []Operation
}

// Mutate validates and appends the operations.
func (o *Ops) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if len(tx.ops)+len(o.Ops) > MaxOperations {
		return errors.New("too many operations")
	}
	for i, op := range o.Ops {
		if err := validate(op); err != nil {
			return invalid(len(tx.ops)+i, op, err.Error())
		}
	}
	tx.ops = append(tx.ops, o.Ops...)
	return nil
}

// Fee sets the base fee per operation in stroops.
type Fee struct {
	BaseFee int64
}

func (f *Fee) validate() error {
	if f.BaseFee <= 0 {
		return errors.New("base fee should be positive")
	}
	return nil
}

// Mutate changes the base fee of the Tx.
func (f *Fee) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if err := f.validate(); err != nil {
		return err
	}
	tx.baseFee = f.BaseFee
	return nil
}

// Timeout sets the validity window of the Tx in seconds, zero means
// the tx never expires.
type Timeout struct {
	Seconds int64
}

// Mutate changes the validity window of the Tx.
func (to *Timeout) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	if to.Seconds < 0 {
		return errors.New("negative timeout")
	}
	tx.timeout = to.Seconds
	return nil
}
