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
	"github.com/spf13/cobra"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:     "decrypt [files...]",
	Aliases: []string{"dec", "decode"},
	Short:   "Decrypt a Hill encrypted file.",
	Long: `Decrypt text encrypted by the Hill cipher.  PEM and ASCII85 armor is
detected from the input; anything else is read as ciphertext letters.  Each
named file must end in .hill and is written without that suffix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCipher(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	addCipherFlags(decryptCmd.Flags())
}
