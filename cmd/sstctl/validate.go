package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/sstreader/internal/directory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate <table-dir>",
		Short: "Validate a table directory's generation and component layout",
		Long: `validate walks table-dir, groups its files by generation, checks each
generation's required-component set against its format ("big" or "da"),
and cross-checks any TOC.txt file against what is actually on disk. It
never aborts on the first problem; every generation is reported.

Example:
  sstctl validate ./ks/users-abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
	rootCmd.AddCommand(cmd)
}

func runValidate(path string) error {
	summary, err := directory.Scan(path)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}

	ok := printValidationReports(path, summary)
	for name, sub := range summary.SecondaryIndexes {
		fmt.Printf("-- secondary index %s --\n", name)
		if !printValidationReports(name, sub) {
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}

func printValidationReports(path string, summary directory.DirectorySummary) bool {
	if len(summary.Reports) == 0 {
		fmt.Printf("%s: no generations found\n", path)
		return false
	}
	ok := true
	for _, r := range summary.Reports {
		fmt.Printf("generation %d (%s): %d required present, %d optional present\n",
			r.Generation, r.Format, len(r.RequiredPresent), len(r.OptionalPresent))
		if len(r.RequiredMissing) > 0 {
			ok = false
			fmt.Printf("  missing required components: %v\n", r.RequiredMissing)
		}
		for _, m := range r.TOCMismatch {
			ok = false
			fmt.Printf("  TOC mismatch: %s\n", m)
		}
	}
	return ok
}
