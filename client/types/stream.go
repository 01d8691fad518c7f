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
	"fmt"
	"strings"
)

// ResourceKind is a ledger event feed that can be streamed.
type ResourceKind string

const (
	Effects      ResourceKind = "effects"
	Payments     ResourceKind = "payments"
	Trades       ResourceKind = "trades"
	Operations   ResourceKind = "operations"
	Transactions ResourceKind = "transactions"
)

// ResourceKinds lists every streamable kind.
var ResourceKinds = []ResourceKind{Effects, Payments, Trades, Operations, Transactions}

// ParseResourceKind parses the name of a resource kind.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(strings.ToLower(strings.TrimSpace(s)))
	for _, kind := range ResourceKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// Order is the direction of the initial backlog fetch.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// CursorNow starts a stream at the current ledger position.
const CursorNow = "now"

// StreamRequest describes one live subscription.
type StreamRequest struct {
	Kind ResourceKind
	// Empty account subscribes to the global feed.
	Account string
	Cursor  string
	Order   Order
	Limit   uint
}

// Message is a raw event delivered by a subscription.
type Message struct {
	Kind        ResourceKind `json:"kind"`
	PagingToken string       `json:"paging_token"`
	// Payload is the event as decoded by the ledger access layer.
	Payload interface{} `json:"payload"`
}
