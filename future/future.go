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

package future

import (
	"context"
	"sync"

	"github.com/ultiledger/go-stellarkit/client/build"
	"github.com/ultiledger/go-stellarkit/client/types"
)

// Allow a future to respond an error in the future
type deferError struct {
	once sync.Once
	err  error
	done chan struct{}
}

// Every future should call this method to initialize
// underlying done channel
func (d *deferError) Init() {
	d.done = make(chan struct{})
}

// Each future should respond error once and multiple
// calling with different error on the same future will
// have no effects.
func (d *deferError) Respond(err error) {
	if d.done == nil {
		return
	}
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Error blocks until the future is responded and always
// returns the first responded error.
func (d *deferError) Error() error {
	if d.done == nil {
		panic("waiting for response on nil channel")
	}
	<-d.done
	return d.err
}

// Done is closed once the future is responded.
func (d *deferError) Done() <-chan struct{} {
	return d.done
}

// Wait is Error bounded by ctx.
func (d *deferError) Wait(ctx context.Context) error {
	if d.done == nil {
		panic("waiting for response on nil channel")
	}
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Future for a transaction handed to the submission pipeline
type Submission struct {
	deferError
	Account    string
	Operations []build.Operation

	mu     sync.Mutex
	status types.TxStatusCode
	result *types.SubmitResult
}

func NewSubmission(account string, ops []build.Operation) *Submission {
	s := &Submission{Account: account, Operations: ops, status: types.Pending}
	s.Init()
	return s
}

// Resolve records the pipeline outcome. Only the first call counts.
func (s *Submission) Resolve(res *types.SubmitResult, err error) {
	s.mu.Lock()
	if s.status == types.Pending {
		s.result = res
		s.status = types.StatusOf(err)
	}
	s.mu.Unlock()
	s.Respond(err)
}

// Result waits for the outcome.
func (s *Submission) Result(ctx context.Context) (*types.SubmitResult, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, nil
}

func (s *Submission) Status() types.TxStatusCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
