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

package codec

import (
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/ultiledger/go-stellarkit/log"
)

// DecodeAccountEntry decodes an account ledger entry. Signers and the
// extension pass through untouched.
func DecodeAccountEntry(raw xdr.AccountEntry) (Record, error) {
	return decodeFields("account", raw, accountRules)
}

// DecodeTrustLineEntry decodes a trust line ledger entry.
func DecodeTrustLineEntry(raw xdr.TrustLineEntry) (Record, error) {
	return decodeFields("trustLine", raw, trustLineRules)
}

// DecodeLedgerKey decodes the key of a removed ledger entry.
func DecodeLedgerKey(raw xdr.LedgerKey) (Record, error) {
	var (
		arm  string
		body interface{}
	)
	switch raw.Type {
	case xdr.LedgerEntryTypeAccount:
		arm, body = "account", raw.Account
	case xdr.LedgerEntryTypeTrustline:
		arm, body = "trustLine", raw.TrustLine
	case xdr.LedgerEntryTypeOffer:
		arm, body = "offer", raw.Offer
	default:
		return unknownArm("ledgerKey", entryTypeName(raw.Type)), nil
	}
	rec, err := decodeFields("ledgerKey", body, keyRules)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, decodeErr("ledgerKey", arm, errMissingArm)
	}
	return Record{arm: rec}, nil
}

// DecodeLedgerEntryData decodes the body of a ledger entry. Entry kinds
// other than accounts, trust lines and offers are rendered as unknown
// arms.
func DecodeLedgerEntryData(raw xdr.LedgerEntryData) (Record, error) {
	switch raw.Type {
	case xdr.LedgerEntryTypeAccount:
		if raw.Account == nil {
			return nil, decodeErr("ledgerEntryData", "account", errMissingArm)
		}
		rec, err := DecodeAccountEntry(*raw.Account)
		if err != nil {
			return nil, err
		}
		return Record{"account": rec}, nil
	case xdr.LedgerEntryTypeTrustline:
		if raw.TrustLine == nil {
			return nil, decodeErr("ledgerEntryData", "trustLine", errMissingArm)
		}
		rec, err := DecodeTrustLineEntry(*raw.TrustLine)
		if err != nil {
			return nil, err
		}
		return Record{"trustLine": rec}, nil
	case xdr.LedgerEntryTypeOffer:
		if raw.Offer == nil {
			return nil, decodeErr("ledgerEntryData", "offer", errMissingArm)
		}
		rec, err := DecodeOfferEntry(*raw.Offer)
		if err != nil {
			return nil, err
		}
		return Record{"offer": rec}, nil
	}
	return unknownArm("ledgerEntryData", entryTypeName(raw.Type)), nil
}

// DecodeLedgerEntry decodes a full ledger entry.
func DecodeLedgerEntry(raw xdr.LedgerEntry) (Record, error) {
	data, err := DecodeLedgerEntryData(raw.Data)
	if err != nil {
		return nil, err
	}
	return Record{
		"lastModifiedLedgerSeq": uint32(raw.LastModifiedLedgerSeq),
		"data":                  data,
	}, nil
}

// DecodeLedgerEntryChange decodes one change of a transaction's
// metadata.
func DecodeLedgerEntryChange(raw xdr.LedgerEntryChange) (Record, error) {
	var (
		arm   string
		entry *xdr.LedgerEntry
	)
	switch raw.Type {
	case xdr.LedgerEntryChangeTypeLedgerEntryCreated:
		arm, entry = "created", raw.Created
	case xdr.LedgerEntryChangeTypeLedgerEntryUpdated:
		arm, entry = "updated", raw.Updated
	case xdr.LedgerEntryChangeTypeLedgerEntryState:
		arm, entry = "state", raw.State
	case xdr.LedgerEntryChangeTypeLedgerEntryRemoved:
		if raw.Removed == nil {
			return nil, decodeErr("ledgerEntryChange", "removed", errMissingArm)
		}
		key, err := DecodeLedgerKey(*raw.Removed)
		if err != nil {
			return nil, err
		}
		return Record{"removed": key}, nil
	default:
		name := armName(raw.Type.String(), "LedgerEntryChangeTypeLedgerEntry", "ledgerEntryChangeType", int32(raw.Type))
		return unknownArm("ledgerEntryChange", name), nil
	}
	if entry == nil {
		return nil, decodeErr("ledgerEntryChange", arm, errMissingArm)
	}
	rec, err := DecodeLedgerEntry(*entry)
	if err != nil {
		return nil, err
	}
	return Record{arm: rec}, nil
}

// DecodeOperationMeta decodes the changes caused by one operation.
func DecodeOperationMeta(raw xdr.OperationMeta) (Record, error) {
	changes := make([]Record, 0, len(raw.Changes))
	for i, c := range raw.Changes {
		rec, err := DecodeLedgerEntryChange(c)
		if err != nil {
			return nil, decodeErr("operationMeta", fmt.Sprintf("changes[%d]", i), err)
		}
		changes = append(changes, rec)
	}
	return Record{"changes": changes}, nil
}

// DecodeTransactionMeta decodes the per operation changes of any
// metadata version that carries them.
func DecodeTransactionMeta(raw xdr.TransactionMeta) (Record, error) {
	var ops []xdr.OperationMeta
	switch raw.V {
	case 0:
		if raw.Operations == nil {
			return nil, decodeErr("transactionMeta", "operations", errMissingArm)
		}
		ops = *raw.Operations
	case 1:
		if raw.V1 == nil {
			return nil, decodeErr("transactionMeta", "v1", errMissingArm)
		}
		ops = raw.V1.Operations
	case 2:
		if raw.V2 == nil {
			return nil, decodeErr("transactionMeta", "v2", errMissingArm)
		}
		ops = raw.V2.Operations
	case 3:
		if raw.V3 == nil {
			return nil, decodeErr("transactionMeta", "v3", errMissingArm)
		}
		ops = raw.V3.Operations
	default:
		return unknownArm("transactionMeta", fmt.Sprintf("v%d", raw.V)), nil
	}
	decoded := make([]Record, 0, len(ops))
	for i, op := range ops {
		rec, err := DecodeOperationMeta(op)
		if err != nil {
			return nil, decodeErr("transactionMeta", fmt.Sprintf("operations[%d]", i), err)
		}
		decoded = append(decoded, rec)
	}
	return Record{"v": raw.V, "operations": decoded}, nil
}

// DecodeTransactionMetaXDR decodes base64 transaction metadata as
// returned by Horizon.
func DecodeTransactionMetaXDR(b64 string) (Record, error) {
	var meta xdr.TransactionMeta
	if err := xdr.SafeUnmarshalBase64(b64, &meta); err != nil {
		return nil, decodeErr("transactionMeta", "", err)
	}
	rec, err := DecodeTransactionMeta(meta)
	if err != nil {
		log.Debugw("undecodable transaction meta", "err", err)
		return nil, err
	}
	return rec, nil
}

func entryTypeName(t xdr.LedgerEntryType) string {
	return armName(t.String(), "LedgerEntryType", "ledgerEntryType", int32(t))
}
