package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/convert"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

const appVersion = "1.0.0"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		verbose bool
		asJSON  bool
		logr    *zap.Logger
	)

	root := &cobra.Command{
		Use:           "timetable-convert",
		Short:         "Convert teacher workbooks into uploadable timetable CSV files",
		Version:       appVersion,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				logr = zap.NewNop()
				return nil
			}
			l, err := logger.New(&config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "debug", Format: "console"}})
			if err != nil {
				return err
			}
			logr = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each converted sheet")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	var outputDir string
	split := &cobra.Command{
		Use:   "split <file|dir>...",
		Short: "Write one CSV per sheet, named <file>_<sheet>_<kind>.csv",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := convert.ExpandInputs(args)
			if err != nil {
				return err
			}
			converter := convert.New(logr)
			all := make([]convert.Result, 0)
			for _, input := range inputs {
				results, err := converter.SplitFile(input, outputDir)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", input, err)
					continue
				}
				all = append(all, results...)
			}
			return printSummary(out, all, asJSON)
		},
	}
	split.Flags().StringVarP(&outputDir, "output-dir", "o", "csv_output", "directory for the generated CSV files")

	var outputFile string
	merge := &cobra.Command{
		Use:   "merge <file|dir>...",
		Short: "Flatten every timetable sheet into one canonical CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := convert.ExpandInputs(args)
			if err != nil {
				return err
			}
			result, err := convert.New(logr).Merge(inputs, outputFile)
			if err != nil {
				return err
			}
			return printSummary(out, []convert.Result{result}, asJSON)
		},
	}
	merge.Flags().StringVarP(&outputFile, "output", "o", "final_timetable.csv", "merged CSV path")

	root.AddCommand(split, merge)
	return root
}

func printSummary(out io.Writer, results []convert.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-15s %5d rows  %s\n", r.Kind, r.Rows, r.Output)
		if len(r.Teachers) > 0 {
			fmt.Fprintf(out, "%15s teachers: %v\n", "", r.Teachers)
		}
	}
	return nil
}
