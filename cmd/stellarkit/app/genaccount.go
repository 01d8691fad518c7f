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

	"github.com/spf13/cobra"

	"github.com/ultiledger/go-stellarkit/client"
	"github.com/ultiledger/go-stellarkit/log"
)

var genaccountCmd = &cobra.Command{
	Use:   "genaccount",
	Short: "Generate a random keypair for an account",
	Long: `Generate a random keypair for an account, the keypair contains the secret
seed and the public key. The public key is the address of the account.
The seed is used for signing transactions of the account.`,
	Run: func(cmd *cobra.Command, args []string) {
		address, seed, err := client.GenerateKeyPair()
		if err != nil {
			log.Fatalf("generate random account failed: %v", err)
		}
		fmt.Printf("AccountID: %s, Seed: %s\n", address, seed)
	},
}

func init() {
	rootCmd.AddCommand(genaccountCmd)
}
