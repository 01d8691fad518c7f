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

// Package codec turns binary ledger records into plain records that are
// easy to log, persist or marshal to JSON.
//
// Every decoder is pure. Unknown union discriminants never fail a decode,
// they are rendered as a single key naming the arm with a nil value and a
// warning is logged.
package codec

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every error returned from this package.
var ErrDecode = errors.New("decode error")

// DecodeError reports the record and field that could not be decoded.
type DecodeError struct {
	Record string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("decode %s.%s: %v", e.Record, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func decodeErr(record, field string, err error) error {
	// keep the innermost location
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Record: record, Field: field, Err: err}
}

var errMissingArm = errors.New("union arm is not set")
