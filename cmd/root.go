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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/internal/config"
)

var (
	cfgFile        string
	inputFileName  string
	outputFileName string
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
	logger                = logrus.New()
)

const (
	hillApiLevel  = 1
	hillSuffix    = ".hill"
	defaultSize   = 2
	envPrefix     = "HILL"
	configName    = ".hill"
	pemBlockType  = "HILL Encrypted Message"
	headerMarker  = "+HILL"
	promptMessage = "Enter the key phrase: "
)

var errNoKey = errors.New("you must supply a key or a key phrase")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "hill",
	Short:   "A Hill cipher engine",
	Long:    `hill encrypts and decrypts text with the Hill cipher, a block cipher over the 26 letter alphabet keyed by an invertible 2x2 or 3x3 matrix.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hill.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debugging information")
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hill" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(configName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// addKeyFlags registers the flags that select a key matrix.
func addKeyFlags(fs *pflag.FlagSet) {
	fs.StringP("key", "k", "", `numeric key matrix in row-major order, eg. "3 3 2 5"`)
	fs.StringP("phrase", "p", "", "key phrase; its first N² letters fill the key matrix")
	fs.IntP("size", "n", 0, "key matrix size (2 or 3); inferred from a numeric key, 2 for a phrase")
}

// addCipherFlags registers the flags shared by encrypt and decrypt.
func addCipherFlags(fs *pflag.FlagSet) {
	addKeyFlags(fs)
	fs.StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file to encrypt/decrypt.")
	fs.StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file containing the encrypted/decrypted text.")
	fs.Bool("steps", false, "print every intermediate step to stderr")
	fs.IntP("parallel", "j", runtime.NumCPU(), "Number of files processed in parallel")
}

// loadConfig binds the flags of cmd to viper and returns the validated
// configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	return config.Load(viper.GetViper())
}

// keyFromConfig obtains the key matrix from either:
// 1. The --key or --phrase flags
// 2. The 'HILL_KEY' or 'HILL_PHRASE' environment variables
// 3. A key phrase entered at the terminal
func keyFromConfig(cfg config.Config) (matrix.Matrix, error) {
	if cfg.Key != "" {
		return key.Parse(cfg.Key, cfg.Size)
	}

	phrase := cfg.Phrase
	if phrase == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, promptMessage)
		bytePhrase, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr, "")
		if err != nil {
			return nil, fmt.Errorf("reading key phrase: %w", err)
		}
		phrase = string(bytePhrase)
	}

	if phrase == "" {
		return nil, errNoKey
	}

	size := cfg.Size
	if size == 0 {
		size = defaultSize
	}

	return key.DeriveFromText(phrase, size)
}

/*
getInputAndOutputFiles will return the input and output files to use while
encrypting/decrypting data.  If input and/or output files names were given,
then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles(encode bool) (*os.File, *os.File, error) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		if err != nil {
			return nil, nil, err
		}
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	switch {
	case outputFileName == "-":
		fout = os.Stdout
	case len(outputFileName) > 0:
		fout, err = os.Create(outputFileName)
	case len(inputFileName) == 0 || inputFileName == "-":
		fout = os.Stdout
	default:
		var name string
		name, err = outputName(inputFileName, encode)
		if err == nil {
			fout, err = os.Create(name)
		}
	}

	if err != nil {
		if fin != os.Stdin {
			fin.Close()
		}
		return nil, nil, err
	}

	return fin, fout, nil
}

// outputName derives the name of the file written for input file name:
// encrypting appends ".hill", decrypting strips it.
func outputName(name string, encode bool) (string, error) {
	if encode {
		return name + hillSuffix, nil
	}

	if !strings.HasSuffix(name, hillSuffix) || len(name) == len(hillSuffix) {
		return "", fmt.Errorf("%s: encrypted file names must end in %s", name, hillSuffix)
	}

	return strings.TrimSuffix(name, hillSuffix), nil
}
