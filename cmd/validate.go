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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/internal/config"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether a key can be used",
	Long: `Check whether a key matrix is invertible modulo 26.  For a key phrase the
number of letters needed is reported, and a singular phrase gets up to three
single letter repairs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		return runValidate(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addKeyFlags(validateCmd.Flags())
}

// runValidate prints a report on the configured key to w.  An unusable key
// is reported and returned as an error.
func runValidate(w io.Writer, cfg config.Config) error {
	if cfg.Key != "" {
		m, err := key.Parse(cfg.Key, cfg.Size)
		if err != nil {
			return err
		}
		return reportMatrix(w, m)
	}

	if cfg.Phrase == "" {
		return errNoKey
	}

	size := cfg.Size
	if size == 0 {
		size = defaultSize
	}

	r, err := key.Inspect(cfg.Phrase, size)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "letters: %d of %d\n", r.Have, r.Needed)
	if !r.Ready() {
		return &key.InsufficientLengthError{Needed: r.Needed, Have: r.Have}
	}

	if err := reportMatrix(w, r.Matrix); err == nil {
		return nil
	}

	if len(r.Suggestions) == 0 {
		fmt.Fprintln(w, "no single letter change makes the key invertible")
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "try %s: %s\n", s.Key, s)
	}

	return hill.ErrSingularKey
}

func reportMatrix(w io.Writer, m matrix.Matrix) error {
	if err := matrix.Validate(m); err != nil {
		return err
	}

	mach := hill.NewMachine()
	mach.OnTransition = func(from, to hill.State) {
		logger.WithFields(logrus.Fields{"from": from, "to": to}).Debug("key state")
	}

	state := mach.SetKey(m)
	det, inv, _ := matrix.DeterminantInverse(m)
	fmt.Fprintf(w, "%s\n", m.Normalized())
	fmt.Fprintf(w, "determinant mod 26: %d\n", det)
	if state != hill.Ready {
		fmt.Fprintln(w, "invertible: no")
		return mach.Reason()
	}

	fmt.Fprintf(w, "invertible: yes (det⁻¹ = %d)\n", inv)
	return nil
}
