// Command coldframe is a small CLI over the frame engine: convert between
// CSV, Parquet and snapshot files, print a summary, or sort a file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coldframe/coldframe"
	"github.com/coldframe/coldframe/internal/version"
)

var (
	flagNoHeader   bool
	flagDelimiter  string
	flagNThreads   int
	flagVerbose    bool
	flagSortBy     []string
	flagDescending bool
)

func main() {
	root := &cobra.Command{
		Use:          "coldframe",
		Short:        "column-oriented frame engine CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagNThreads > 0 {
				coldframe.SetNThreads(flagNThreads)
			}
			if flagVerbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				coldframe.SetLogger(logger)
			}
			return nil
		},
	}
	root.PersistentFlags().IntVar(&flagNThreads, "nthreads", 0, "worker pool size (0 = hardware default)")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	root.AddCommand(newConvertCmd(), newSummaryCmd(), newSortCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "convert between csv, parquet and snapshot files (by extension)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			return writeFile(f, args[1])
		},
	}
	addCSVFlags(cmd)
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <input>",
		Short: "print shape, column types and a preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows x %d columns\n", f.NRows(), f.NCols())
			names, stypes := f.Names(), f.STypes()
			for i, name := range names {
				if !stypes[i].IsNumeric() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", name, stypes[i])
					continue
				}
				stats, err := f.Reduce(
					coldframe.Min(name).As("min"),
					coldframe.Mean(name).As("mean"),
					coldframe.Max(name).As("max"),
				)
				if err != nil {
					return err
				}
				mn, _ := stats.Get(0, "min")
				mean, _ := stats.Get(0, "mean")
				mx, _ := stats.Get(0, "max")
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %-8s min=%v mean=%v max=%v\n",
					name, stypes[i], mn, mean, mx)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), f.String())
			return nil
		},
	}
	addCSVFlags(cmd)
	return cmd
}

func newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <input> <output>",
		Short: "sort a file by one or more columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(flagSortBy) == 0 {
				return fmt.Errorf("--by is required")
			}
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			desc := make([]bool, len(flagSortBy))
			for i := range desc {
				desc[i] = flagDescending
			}
			sorted, err := f.SortBy(flagSortBy, desc, coldframe.NADefault)
			if err != nil {
				return err
			}
			return writeFile(sorted, args[1])
		},
	}
	cmd.Flags().StringSliceVar(&flagSortBy, "by", nil, "columns to sort by")
	cmd.Flags().BoolVar(&flagDescending, "desc", false, "sort descending")
	addCSVFlags(cmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info().String())
		},
	}
}

func addCSVFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagNoHeader, "no-header", false, "CSV input has no header row")
	cmd.Flags().StringVar(&flagDelimiter, "delimiter", ",", "CSV field delimiter")
}

func csvOptions() coldframe.CSVOptions {
	opts := coldframe.DefaultCSVOptions()
	opts.Header = !flagNoHeader
	if flagDelimiter != "" {
		opts.Delimiter = []rune(flagDelimiter)[0]
	}
	return opts
}

func readFile(path string) (*coldframe.Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return coldframe.ReadCSV(in, csvOptions())
	case ".parquet":
		return coldframe.ReadParquet(in, coldframe.DefaultParquetOptions())
	case ".cf", ".jay":
		return coldframe.Open(in)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

func writeFile(f *coldframe.Frame, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return f.WriteCSV(out, csvOptions())
	case ".parquet":
		return f.WriteParquet(out, coldframe.DefaultParquetOptions())
	case ".cf", ".jay":
		return f.Save(out)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}
