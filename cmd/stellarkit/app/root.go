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

package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ultiledger/go-stellarkit/client"
	"github.com/ultiledger/go-stellarkit/config"
	"github.com/ultiledger/go-stellarkit/gateway"
	"github.com/ultiledger/go-stellarkit/log"
	"github.com/ultiledger/go-stellarkit/metrics"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stellarkit",
	Short: "Stream ledger events and submit transactions",
	Long: `stellarkit follows account scoped event feeds of a horizon server with
resumable cursors, and builds, signs and submits transactions.`,
	SilenceUsage: true,
}

func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file")
	pf.String("network", "", "testnet, public or a network passphrase")
	pf.String("horizon-url", "", "horizon server url")
	pf.Bool("debug", false, "enable debug logging")
}

// newViper reads the config file if any and overlays env and flags.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("stellarkit")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s failed: %v", cfgFile, err)
		}
	}
	binds := map[string]string{
		"network":     "network",
		"horizon_url": "horizon-url",
		"debug":       "debug",
	}
	for key, flag := range binds {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// loadConfig builds the config and sets up logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, nil, err
	}
	c, err := config.NewConfig(v)
	if err != nil {
		return nil, nil, err
	}
	if c.LogFile != "" {
		if err := log.Initialize(c.LogFile); err != nil {
			return nil, nil, fmt.Errorf("init log file failed: %v", err)
		}
	}
	if c.Debug {
		log.OpenDebug()
	}
	return c, v, nil
}

func newClient(c *config.Config, m *metrics.Metrics) (*client.Client, error) {
	return client.New(gateway.Dial(c.HorizonURL), c.Network,
		client.WithBaseFee(c.BaseFee),
		client.WithTimeout(c.TxTimeout),
		client.WithMetrics(m))
}

// secret prefers the flag over STELLARKIT_SECRET.
func secret(cmd *cobra.Command, v *viper.Viper) string {
	if s, _ := cmd.Flags().GetString("secret"); s != "" {
		return s
	}
	return v.GetString("secret")
}
