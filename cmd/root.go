package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration (from .bankparser.yaml)
const defaultConfigYAML = `
history:
  db: .bankparser-history.db
banks:
# Built-in banks (HDFC, ICICI, SBI) need no configuration. Additional banks
# are registered here as data, for example:
#  - name: AXIS
#    indicators: ["AXIS BANK"]
#    date_patterns: ['^\d{2}-\d{2}-\d{4}\b']
#    date_layouts: ["02-01-2006"]
#    mode_keywords: ["UPI", "NEFT", "IMPS"]
#    noise_lines: ["Tran Date", "Particulars", "Debit", "Credit", "Balance"]
#    footer_patterns: ['^Page \d+$']
#    summary_markers: ["STATEMENT SUMMARY"]`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "bankparser [filename]",
		Short: "Extract and validate bank statement ledgers",
		Long:  `bankparser turns bank statement PDFs into validated transaction ledgers`,
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				runExtract(extractCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.bankparser.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory and home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")  // First check current directory
		viper.AddConfigPath(home) // Then check home directory
		viper.SetConfigName(".bankparser")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
