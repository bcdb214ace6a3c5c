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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/internal/config"
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:     "encrypt [files...]",
	Aliases: []string{"enc", "encode"},
	Short:   "Encrypt plaintext using the Hill cipher",
	Long: `Encrypt plaintext using the Hill cipher.  Non-letters are dropped, the
remaining letters are uppercased and padded with X to a multiple of the key
size.  Each named file is written to <file>.hill; without files the input is
read from --inputFile (default stdin).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCipher(cmd, args, true)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	addCipherFlags(encryptCmd.Flags())
	encryptCmd.Flags().StringP("format", "F", config.FormatText, "output format: text, pem or ascii85")
	encryptCmd.Flags().BoolP("compress", "c", false, "compress the ciphertext using flate (pem and ascii85 only)")
	encryptCmd.Flags().BoolP("wrap", "w", false, "split text output into lines")
}

// runCipher is the body of the encrypt and decrypt commands.
func runCipher(cmd *cobra.Command, args []string, encode bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := keyFromConfig(cfg)
	if err != nil {
		return err
	}

	c, err := hill.NewCipher(m)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return processFiles(cmd.Context(), args, encode, cfg.Parallel, func(in, out string) error {
			return cipherFile(in, out, c, cfg, encode)
		})
	}

	fin, fout, err := getInputAndOutputFiles(encode)
	if err != nil {
		return err
	}
	defer closeFiles(fin, fout)

	return cipherStream(fout, fin, c, cfg, inputFileName, encode)
}

// cipherStream moves one input through the cipher, rendering the trace to
// stderr when --steps is set.
func cipherStream(w io.Writer, rdr io.Reader, c *hill.Cipher, cfg config.Config, name string, encode bool) error {
	var trace *hill.Trace
	if cfg.Steps {
		trace = new(hill.Trace)
	}

	var err error
	if encode {
		err = encryptTo(w, rdr, c, armorFromConfig(cfg, name), trace)
	} else {
		err = decryptTo(w, rdr, c, trace)
	}

	if trace != nil && err == nil {
		err = renderSteps(os.Stderr, *trace)
	}

	return err
}

func cipherFile(in, out string, c *hill.Cipher, cfg config.Config, encode bool) error {
	fin, err := os.Open(in)
	if err != nil {
		return err
	}
	defer fin.Close()

	fout, err := os.Create(out)
	if err != nil {
		return err
	}

	if err = cipherStream(fout, fin, c, cfg, in, encode); err != nil {
		fout.Close()
		os.Remove(out)
		return fmt.Errorf("%s: %w", in, err)
	}

	logger.Infof("%s -> %s", in, out)
	return fout.Close()
}

// processFiles runs fn for every file with at most parallel calls in
// flight.  The first failure cancels the files not yet started.
func processFiles(ctx context.Context, files []string, encode bool, parallel int, fn func(in, out string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	outs := make([]string, len(files))
	for i, file := range files {
		out, err := outputName(file, encode)
		if err != nil {
			return err
		}
		outs[i] = out
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(file, outs[i])
		})
	}

	return g.Wait()
}

func closeFiles(fin, fout *os.File) {
	if fin != os.Stdin {
		fin.Close()
	}
	if fout != os.Stdout {
		fout.Close()
	}
}
