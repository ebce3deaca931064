package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crednx/bankparser/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past extraction runs",
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := viper.GetString("history.db")
		if dbPath == "" {
			fmt.Fprintln(os.Stderr, "No history database configured")
			os.Exit(1)
		}
		runLog, err := history.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
			os.Exit(1)
		}
		defer runLog.Close()

		runs, err := runLog.Runs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet")
			return
		}
		for _, run := range runs {
			fmt.Printf("#%d  %s  %-8s %4d txns  %d mismatches  %d gaps  %s\n",
				run.ID, run.At.Format("2006-01-02 15:04"), run.Bank,
				run.Count, run.Mismatches, run.Gaps, run.Source)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
