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
	"errors"
)

var (
	// ErrStaleSequence is returned when the network rejects a
	// transaction because its sequence number is no longer current.
	ErrStaleSequence = errors.New("stale sequence number")
	// ErrSubmission is returned when the network rejects a transaction.
	ErrSubmission = errors.New("transaction submission failed")
	// ErrAccountNotFound is returned when the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// TxStatusCode represents the status of a submitted tx.
type TxStatusCode uint8

const (
	// The tx is being built, signed or submitted.
	Pending TxStatusCode = iota
	// The tx was rejected before reaching the network.
	Rejected
	// The tx has been applied successfully.
	Confirmed
	// The tx was rejected by the network.
	Failed
)

func (ts TxStatusCode) String() string {
	switch ts {
	case Pending:
		return "pending"
	case Rejected:
		return "rejected"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// StatusOf classifies the outcome of a submission pipeline run.
func StatusOf(err error) TxStatusCode {
	switch {
	case err == nil:
		return Confirmed
	case errors.Is(err, ErrSubmission), errors.Is(err, ErrStaleSequence):
		return Failed
	}
	return Rejected
}

// SubmitResult is what the network reports for an accepted tx.
type SubmitResult struct {
	Hash       string
	Ledger     int32
	Successful bool
	// Base64 encoded envelope, result and metadata.
	EnvelopeXDR   string
	ResultXDR     string
	ResultMetaXDR string
}
