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
	"strconv"
	"unicode/utf8"

	"github.com/stellar/go/txnbuild"
)

const (
	MemoTypeID   = "id"
	MemoTypeText = "text"
	// MaxMemoText is the longest text memo in bytes.
	MaxMemoText = 28
)

// Memo attaches a text or numeric id memo to the tx. It is itself a
// TxMutator.
type Memo struct {
	Type  string
	Value string
}

func (m *Memo) validate() error {
	switch m.Type {
	case MemoTypeText:
		if len(m.Value) > MaxMemoText {
			return errors.New("memo text is too long")
		}
		if !utf8.ValidString(m.Value) {
			return errors.New("memo text is not valid utf-8")
		}
	case MemoTypeID:
		if _, err := strconv.ParseUint(m.Value, 10, 64); err != nil {
			return fmt.Errorf("invalid memo id %q", m.Value)
		}
	default:
		return fmt.Errorf("unknown memo type %q", m.Type)
	}
	return nil
}

func (m *Memo) compile() (txnbuild.Memo, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if m.Type == MemoTypeID {
		id, _ := strconv.ParseUint(m.Value, 10, 64)
		return txnbuild.MemoID(id), nil
	}
	return txnbuild.MemoText(m.Value), nil
}

// Mutate sets the memo of the tx.
func (m *Memo) Mutate(tx *Tx) error {
	if tx == nil {
		return ErrNilTx
	}
	memo, err := m.compile()
	if err != nil {
		return err
	}
	tx.memo = memo
	return nil
}
