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

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNilTx            = errors.New("tx is nil")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrNoOperations     = errors.New("empty op list")
	ErrNotBuilt         = errors.New("tx is not built")
)

// InvalidOperationError describes an operation rejected before any
// network call. Index is -1 when the operation is not part of a batch.
type InvalidOperationError struct {
	Index  int
	Op     Operation
	Reason string
}

func (e *InvalidOperationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid operation %T: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("invalid operation %d (%T): %s", e.Index, e.Op, e.Reason)
}

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

func invalid(index int, op Operation, reason string) error {
	return &InvalidOperationError{Index: index, Op: op, Reason: reason}
}

// ValidateAll validates every operation of a batch and reports all
// invalid operations at once.
func ValidateAll(ops []Operation) error {
	if len(ops) == 0 {
		return ErrNoOperations
	}
	if len(ops) > MaxOperations {
		return fmt.Errorf("%d operations exceed the limit of %d", len(ops), MaxOperations)
	}
	var result *multierror.Error
	for i, op := range ops {
		if err := validate(op); err != nil {
			result = multierror.Append(result, invalid(i, op, err.Error()))
		}
	}
	return result.ErrorOrNil()
}

func validate(op Operation) error {
	if op == nil {
		return errors.New("nil operation")
	}
	return op.Validate()
}
