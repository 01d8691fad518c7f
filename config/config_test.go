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

package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c, err := NewConfig(viper.New())
	assert.Nil(t, err)
	assert.Equal(t, network.TestNetworkPassphrase, c.Network)
	assert.Equal(t, "https://horizon-testnet.stellar.org/", c.HorizonURL)
	assert.Equal(t, int64(100), c.BaseFee)
	assert.Equal(t, int64(300), c.TxTimeout)
	assert.Equal(t, "memory", c.CursorBackend)
	assert.Equal(t, 1024, c.CursorCacheSize)
}

func TestReadConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(`
network: public
base_fee: 200
tx_timeout: 0
cursor_backend: bolt
cursor_path: /tmp/cursors.db
cursor_prefix: prod
metrics_addr: ":9100"
debug: true
`))
	assert.Nil(t, err)

	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, network.PublicNetworkPassphrase, c.Network)
	assert.Equal(t, "https://horizon.stellar.org/", c.HorizonURL)
	assert.Equal(t, int64(200), c.BaseFee)
	assert.Equal(t, int64(0), c.TxTimeout)
	assert.Equal(t, "bolt", c.CursorBackend)
	assert.Equal(t, "prod", c.CursorPrefix)
	assert.True(t, c.Debug)
}

func TestCustomNetwork(t *testing.T) {
	v := viper.New()
	v.Set("network", "Standalone Network ; February 2017")
	// a custom network has no default horizon
	_, err := NewConfig(v)
	assert.NotNil(t, err)

	v.Set("horizon_url", "http://localhost:8000")
	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, "Standalone Network ; February 2017", c.Network)
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]interface{}{
		"base_fee":          10,
		"tx_timeout":        -1,
		"cursor_backend":    "mongo",
		"cursor_cache_size": 0,
		"horizon_url":       "not a url",
		"metrics_addr":      "nope",
	}
	for key, value := range cases {
		v := viper.New()
		v.Set(key, value)
		_, err := NewConfig(v)
		assert.NotNil(t, err, key)
	}

	v := viper.New()
	v.Set("cursor_backend", "leveldb")
	_, err := NewConfig(v)
	assert.NotNil(t, err)
}

func TestPassphrase(t *testing.T) {
	assert.Equal(t, network.TestNetworkPassphrase, Passphrase(" TestNet "))
	assert.Equal(t, network.PublicNetworkPassphrase, Passphrase("public"))
	assert.Equal(t, "custom", Passphrase("custom"))
	assert.Equal(t, "", DefaultHorizonURL("custom"))
}
