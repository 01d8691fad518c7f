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
	"time"

	"github.com/spf13/cobra"

	"github.com/ultiledger/go-stellarkit/client/types"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Inspect or reset stored stream cursors",
}

var cursorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored stream cursors",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cursors, d, err := openCursors(c)
		if err != nil {
			return err
		}
		defer d.Close()

		records, err := cursors.All(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tACCOUNT\tCURSOR\tUPDATED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Kind, r.Account, r.Cursor, time.Unix(r.UpdatedAt, 0).Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var cursorResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored cursor of a stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := types.ParseResourceKind(kindFlag)
		if err != nil {
			return err
		}
		account, _ := cmd.Flags().GetString("account")

		cursors, d, err := openCursors(c)
		if err != nil {
			return err
		}
		defer d.Close()
		return cursors.Reset(cmd.Context(), kind, account)
	},
}

func init() {
	cursorResetCmd.Flags().StringP("kind", "k", "", "resource kind")
	cursorResetCmd.Flags().StringP("account", "a", "", "account, empty for the global feed")
	cursorResetCmd.MarkFlagRequired("kind")
	cursorCmd.AddCommand(cursorListCmd, cursorResetCmd)
	rootCmd.AddCommand(cursorCmd)
}
