package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crednx/bankparser/parser"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List supported banks",
	Long:  `Lists every bank the parser can handle: built-ins plus any registered in the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := parser.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading bank profiles: %v\n", err)
			os.Exit(1)
		}
		for _, p := range profiles {
			fmt.Printf("%-8s date layouts %v\n", p.Name, p.DateLayouts)
		}
	},
}

func init() {
	rootCmd.AddCommand(banksCmd)
}
