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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ultiledger/go-stellarkit/client"
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Inspect or drop the live offers of an account",
}

var offersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the live offers of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cli, err := newClient(c, nil)
		if err != nil {
			return err
		}
		account, _ := cmd.Flags().GetString("account")
		offers, err := cli.GetOffersForAccount(cmd.Context(), account)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSELLING\tBUYING\tAMOUNT\tPRICE")
		for _, o := range offers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Selling, o.Buying, o.Amount, o.Price)
		}
		return w.Flush()
	},
}

var offersDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete every live offer of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, v, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cli, err := newClient(c, nil)
		if err != nil {
			return err
		}
		account, _ := cmd.Flags().GetString("account")
		results, err := cli.DropOffersForAccount(cmd.Context(), client.Source{
			Account: account,
			Secret:  secret(cmd, v),
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no offers to drop")
		}
		for _, r := range results {
			fmt.Printf("Hash: %s, Ledger: %d\n", r.Hash, r.Ledger)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{offersListCmd, offersDropCmd} {
		c.Flags().StringP("account", "a", "", "account address")
		c.MarkFlagRequired("account")
	}
	offersDropCmd.Flags().StringP("secret", "s", "", "secret seed of the account, defaults to STELLARKIT_SECRET")
	offersCmd.AddCommand(offersListCmd, offersDropCmd)
	rootCmd.AddCommand(offersCmd)
}
