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

package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLogger(t *testing.T) {
	Error("test error level")
	Errorf("test error level %s", "format")
	Errorw("test error level", "ctx", "error")
	Info("test info level")
	Infof("test info level %s", "format")
	Infow("test info level", "account", "GABC", "kind", "effects")
	Debug("test debug level (closed)")
	OpenDebug()
	assert.True(t, config.Level.Enabled(zap.DebugLevel))
	Debugw("test debug level (opened)", "cursor", "now")
	CloseDebug()
	assert.False(t, config.Level.Enabled(zap.DebugLevel))
	Warn("test warn level")
	Warnf("test warn level %s", "format")
	Warnw("test warn level", "ctx", "warn")
}

func TestInitializeFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stellarkit.log")
	assert.Nil(t, Initialize(path))
	Infow("written to file", "path", path)
	Sync()
	assert.FileExists(t, path)

	// An empty path keeps the current sinks.
	assert.Nil(t, Initialize(""))
}
