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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/network"
)

// Well known network names, anything else is taken as a literal passphrase.
const (
	Testnet = "testnet"
	Public  = "public"
)

type Config struct {
	// Network passphrase every tx is signed for.
	Network string `validate:"required"`
	// Base url of the horizon server
	HorizonURL string `validate:"required,url"`
	// Fee per operation in stroops
	BaseFee int64 `validate:"gte=100"`
	// Validity window of a tx in seconds, zero for no bound
	TxTimeout int64 `validate:"gte=0"`
	// Cursor database backend and its path, address or url
	CursorBackend   string `validate:"required,oneof=bolt badger leveldb redis memory"`
	CursorPath      string `validate:"required_unless=CursorBackend memory"`
	CursorPrefix    string
	CursorCacheSize int `validate:"gt=0"`
	Debug           bool
	LogFile         string
	// Address of the prometheus endpoint, empty disables it
	MetricsAddr string `validate:"omitempty,hostname_port"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", Testnet)
	v.SetDefault("base_fee", 100)
	v.SetDefault("tx_timeout", 300)
	v.SetDefault("cursor_backend", "memory")
	v.SetDefault("cursor_prefix", "stellarkit")
	v.SetDefault("cursor_cache_size", 1024)
}

func NewConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("viper is nil")
	}
	setDefaults(v)

	name := v.GetString("network")
	horizonURL := v.GetString("horizon_url")
	if horizonURL == "" {
		horizonURL = DefaultHorizonURL(name)
	}

	c := Config{
		Network:         Passphrase(name),
		HorizonURL:      horizonURL,
		BaseFee:         v.GetInt64("base_fee"),
		TxTimeout:       v.GetInt64("tx_timeout"),
		CursorBackend:   v.GetString("cursor_backend"),
		CursorPath:      v.GetString("cursor_path"),
		CursorPrefix:    v.GetString("cursor_prefix"),
		CursorCacheSize: v.GetInt("cursor_cache_size"),
		Debug:           v.GetBool("debug"),
		LogFile:         v.GetString("log_file"),
		MetricsAddr:     v.GetString("metrics_addr"),
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	return &c, nil
}

// Passphrase resolves a network name to its passphrase.
func Passphrase(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Testnet:
		return network.TestNetworkPassphrase
	case Public:
		return network.PublicNetworkPassphrase
	}
	return name
}

// DefaultHorizonURL is the public horizon instance of a well known
// network, empty for a custom one.
func DefaultHorizonURL(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Testnet:
		return horizonclient.DefaultTestNetClient.HorizonURL
	case Public:
		return horizonclient.DefaultPublicNetClient.HorizonURL
	}
	return ""
}
