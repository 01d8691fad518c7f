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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultiledger/go-stellarkit/client"
	"github.com/ultiledger/go-stellarkit/client/build"
	"github.com/ultiledger/go-stellarkit/codec"
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Send an asset to another account",
	Long: `Send an amount of an asset to another account. The asset is either
"native" or CODE:ISSUER.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, v, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cli, err := newClient(c, nil)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		account, _ := f.GetString("account")
		to, _ := f.GetString("to")
		amount, _ := f.GetString("amount")
		assetFlag, _ := f.GetString("asset")
		asset, err := parseAsset(assetFlag)
		if err != nil {
			return err
		}
		src := client.Source{Account: account, Secret: secret(cmd, v)}
		if memo, _ := f.GetString("memo"); memo != "" {
			memoType, _ := f.GetString("memo-type")
			src.Memo = &build.Memo{Type: memoType, Value: memo}
		}

		res, err := cli.SendAssets(cmd.Context(), src, to, asset, amount)
		if err != nil {
			return err
		}
		fmt.Printf("Hash: %s, Ledger: %d\n", res.Hash, res.Ledger)
		return nil
	},
}

// parseAsset reads "native" or CODE:ISSUER.
func parseAsset(s string) (codec.Asset, error) {
	if strings.EqualFold(s, codec.AssetTypeNative) {
		return codec.Native(), nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return codec.Asset{}, fmt.Errorf("invalid asset %q, want native or CODE:ISSUER", s)
	}
	a := codec.Credit(parts[0], parts[1])
	if err := a.Validate(); err != nil {
		return codec.Asset{}, err
	}
	return a, nil
}

func init() {
	f := payCmd.Flags()
	f.StringP("account", "a", "", "paying account address")
	f.StringP("secret", "s", "", "secret seed of the account, defaults to STELLARKIT_SECRET")
	f.String("to", "", "destination account address")
	f.String("amount", "", "amount to send")
	f.String("asset", codec.AssetTypeNative, "native or CODE:ISSUER")
	f.String("memo", "", "optional memo")
	f.String("memo-type", build.MemoTypeText, "text or id")
	payCmd.MarkFlagRequired("account")
	payCmd.MarkFlagRequired("to")
	payCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(payCmd)
}
