package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crednx/bankparser/history"
	"github.com/crednx/bankparser/ledger"
	"github.com/crednx/bankparser/parser"
	"github.com/crednx/bankparser/pdftext"
	"github.com/crednx/bankparser/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extracts and validates statement(s)",
	Long: `Extracts a given statement or statements.
Statements split across multiple PDFs of the same bank are merged into one
ledger, with duplicate rows at file boundaries dropped. Every ledger is
balance-validated before it is written out.`,
	Run: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("folder", "f", ".", "File or folder to scan for statements")
	extractCmd.Flags().StringP("bank", "b", "", "Bank name, skips format detection")
	extractCmd.Flags().StringP("password", "p", "", "Password for locked statements")
	extractCmd.Flags().StringP("out", "o", "", "CSV output path")
	extractCmd.Flags().StringP("json", "j", "", "JSON output path")
	extractCmd.Flags().Bool("no-history", false, "Skip recording this run")
	viper.BindPFlag("target", extractCmd.Flags().Lookup("folder"))
	viper.BindPFlag("bank", extractCmd.Flags().Lookup("bank"))
	viper.BindPFlag("password", extractCmd.Flags().Lookup("password"))
	viper.BindPFlag("out", extractCmd.Flags().Lookup("out"))
	viper.BindPFlag("json", extractCmd.Flags().Lookup("json"))
	viper.BindPFlag("no_history", extractCmd.Flags().Lookup("no-history"))
}

// batch is one parsed source file, grouped by bank before assembly.
type batch struct {
	source string
	txs    []ledger.Transaction
	gaps   []parser.Gap
}

func runExtract(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")

	profiles, err := parser.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bank profiles: %v\n", err)
		os.Exit(1)
	}

	paths, err := statementPaths(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No PDF statements found in", target)
		os.Exit(1)
	}

	byBank := map[string][]batch{}
	for _, path := range paths {
		bank, b, err := processFile(path, profiles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		byBank[bank] = append(byBank[bank], b)
	}
	if len(byBank) == 0 {
		os.Exit(1)
	}

	banks := make([]string, 0, len(byBank))
	for bank := range byBank {
		banks = append(banks, bank)
	}
	sort.Strings(banks)

	for _, bank := range banks {
		batches := byBank[bank]
		parts := make([][]ledger.Transaction, 0, len(batches))
		sources := make([]string, 0, len(batches))
		gaps := 0
		for _, b := range batches {
			parts = append(parts, b.txs)
			sources = append(sources, b.source)
			gaps += len(b.gaps)
			for _, g := range b.gaps {
				log.Printf("%s: skipped page %d line %d: %s", b.source, g.Page, g.Line, g.Reason)
			}
		}

		led := ledger.Assemble(parts, bank)
		report.Console(os.Stdout, &led)
		writeOutputs(&led)
		recordRun(strings.Join(sources, ","), &led, gaps)
	}
}

// processFile extracts one PDF, resolves its bank and parses its
// transactions.
func processFile(path string, profiles []*parser.BankProfile) (string, batch, error) {
	log.Println("scanning", path)

	pages, err := extractPages(path)
	if err != nil {
		return "", batch{}, err
	}

	profile, err := resolveProfile(pages, profiles)
	if err != nil {
		return "", batch{}, err
	}

	txs, gaps, err := parser.Parse(pages, profile)
	if err != nil {
		return "", batch{}, err
	}
	return profile.Name, batch{source: path, txs: txs, gaps: gaps}, nil
}

func extractPages(path string) ([][]parser.RawLine, error) {
	encrypted, err := pdftext.IsEncrypted(path)
	if err != nil {
		return nil, err
	}
	if !encrypted {
		return pdftext.Extract(path)
	}

	password := viper.GetString("password")
	if password == "" {
		return nil, errors.New("statement is password protected, supply --password")
	}
	unlocked, err := pdftext.Unlock(path, password)
	if err != nil {
		return nil, err
	}
	return pdftext.ExtractReader(unlocked)
}

func resolveProfile(pages [][]parser.RawLine, profiles []*parser.BankProfile) (*parser.BankProfile, error) {
	if name := viper.GetString("bank"); name != "" {
		profile, ok := parser.Find(profiles, name)
		if !ok {
			return nil, fmt.Errorf("unknown bank %q", name)
		}
		return profile, nil
	}
	return parser.Detect(pdftext.Flatten(pages), profiles)
}

func writeOutputs(led *ledger.Ledger) {
	if out := viper.GetString("out"); out != "" {
		w := report.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(out, led); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			log.Println("wrote", out)
		}
	}
	if out := viper.GetString("json"); out != "" {
		if err := report.WriteJSONFile(out, led); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			log.Println("wrote", out)
		}
	}
}

func recordRun(source string, led *ledger.Ledger, gaps int) {
	if viper.GetBool("no_history") {
		return
	}
	dbPath := viper.GetString("history.db")
	if dbPath == "" {
		return
	}
	runLog, err := history.Open(dbPath)
	if err != nil {
		log.Printf("history disabled: %v", err)
		return
	}
	defer runLog.Close()

	err = runLog.Record(history.Run{
		Source:     source,
		Bank:       led.Bank,
		Count:      led.Summary.Transactions,
		Mismatches: led.Summary.Mismatches,
		Gaps:       gaps,
	})
	if err != nil {
		log.Printf("recording run: %v", err)
	}
}

func statementPaths(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(target, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
