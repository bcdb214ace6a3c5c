/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/tntsource"
)

var (
	proFormaFileName string
	passphrase       string
	cnt              string
	keySize          int
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random invertible key",
	Long: `Generate a random key matrix that is invertible modulo 26.  With
--passphrase the key is drawn from a TNT cipher machine keyed by the
passphrase, so the same passphrase, proforma machine and count always give
the same key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeygen(cmd.OutOrStdout(), keySize, passphrase, proFormaFileName, cnt)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().IntVarP(&keySize, "size", "n", defaultSize, "key matrix size (2 or 3)")
	keygenCmd.Flags().StringVar(&passphrase, "passphrase", "", "derive the key from this passphrase")
	keygenCmd.Flags().StringVarP(&proFormaFileName, "proformafile", "f", "", "the file name containing the proforma machine to use instead of the builtin proforma machine.")
	keygenCmd.Flags().StringVar(&cnt, "count", "", "initial block count of the passphrase machine")
}

func runKeygen(w io.Writer, size int, secret, proForma, count string) error {
	var src key.Source
	var tnt *tntsource.Source

	if secret != "" {
		var iCnt *big.Int
		if len(count) != 0 {
			var good bool
			iCnt, good = new(big.Int).SetString(count, 10)
			if !good || iCnt.Sign() < 0 {
				return fmt.Errorf("failed converting the count to a big.Int: [%s]", count)
			}
		}

		s, err := tntsource.New(secret, proForma, iCnt)
		if err != nil {
			return err
		}
		defer s.Close()
		src, tnt = s, s
	}

	m, err := key.Random(size, src, 0)
	if err != nil {
		return err
	}

	k, err := key.New(m)
	if err != nil {
		return err
	}

	values := make([]string, 0, size*size)
	for _, v := range m.Flatten() {
		values = append(values, strconv.Itoa(v))
	}

	fmt.Fprintf(w, "%s\n", m)
	fmt.Fprintf(w, "key:     %q\n", strings.Join(values, " "))
	fmt.Fprintf(w, "letters: %s\n", k)
	if tnt != nil {
		// Passing this back as --count draws the next key.
		fmt.Fprintf(w, "next:    --count %s\n", tnt.Index())
	}
	return nil
}
