package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/viant/spectra-search/search"
)

var (
	verbose    bool
	topK       int
	outFile    string
	accelerate string
)

var rootCmd = &cobra.Command{
	Use:   "spectra-search <indexfile> <embedded>...",
	Short: "kNN search of embedded spectra against a prebuilt vector index",
	Long: `spectra-search loads a prebuilt vector index, concatenates the given
embedded spectra files into one query matrix, runs a k nearest neighbor
search and writes the spectrum_ids, D and I datasets to a result
container.

Index formats:    .fvi, .db/.sqlite/.sqlite3, .usearch
Embedded formats: .txt/.tsv, .fvm, .db/.sqlite/.sqlite3, .parquet
Result formats:   SQLite (default), .parquet

Examples:
  spectra-search library.fvi run1.fvm run2.fvm --out run_result.db
  spectra-search library.db queries.tsv --k 10 --out result.parquet --accelerate on`,
	Args:          cobra.MinimumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		job := search.Job{
			Index:      args[0],
			Embedded:   args[1:],
			K:          topK,
			Out:        outFile,
			Accelerate: accelerate,
		}
		return search.Run(job, logger())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().IntVar(&topK, "k", search.DefaultK, "neighbors to retrieve per query")
	rootCmd.Flags().StringVar(&outFile, "out", "", "result file path (required)")
	rootCmd.Flags().StringVar(&accelerate, "accelerate", "auto", "index acceleration: auto, on or off")
	_ = rootCmd.MarkFlagRequired("out")
}

func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "02/01 15:04:05"}).
		Level(level).With().Timestamp().Logger()
}
