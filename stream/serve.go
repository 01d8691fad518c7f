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

package stream

import (
	"context"

	"github.com/ultiledger/go-stellarkit/log"
)

// Handler processes one delivery. Returning an error closes the
// connection and makes Serve return it.
type Handler func(ctx context.Context, d Delivery) error

// ErrorHandler is told why a connection could not open or stopped.
type ErrorHandler func(err error)

// DefaultErrorHandler logs the error.
func DefaultErrorHandler(err error) {
	log.Errorw("stream error", "err", err)
}

// Serve opens a connection and feeds every delivery to handle until the
// connection is closed, ctx is done or the transport fails. A handler
// closing the connection through d.Conn ends Serve without error.
func Serve(ctx context.Context, sub Subscriber, store CursorStore, opts Options, handle Handler, onError ErrorHandler) error {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	conn, err := Open(ctx, sub, store, opts)
	if err != nil {
		onError(err)
		return err
	}
	defer conn.Close()

	for d := range conn.Messages() {
		if conn.State() == Closed {
			break
		}
		if err := handle(ctx, d); err != nil {
			return err
		}
	}
	if err := conn.Err(); err != nil {
		onError(err)
		return err
	}
	return ctx.Err()
}
