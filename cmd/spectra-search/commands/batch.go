package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/spectra-search/search"
)

var jobsFile string

var batchCmd = &cobra.Command{
	Use:   "batch --jobs <jobs.yaml>",
	Short: "Run multiple search jobs from a YAML file",
	Long: `Run search jobs sequentially from a YAML batch file. The first
failing job aborts the batch.

Example jobs file:

  jobs:
    - index: library.fvi
      embedded: [run1.fvm, run2.fvm]
      k: 5
      out: run1_result.db
    - index: library.db
      embedded: [run3.tsv]
      out: run3_result.parquet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := search.LoadJobs(jobsFile)
		if err != nil {
			return err
		}
		lg := logger()
		for i, job := range jobs {
			lg.Info().Int("job", i).Str("index", job.Index).Str("out", job.Out).Msg("running job")
			if err := search.Run(job, lg); err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Out, err)
			}
		}
		lg.Info().Int("jobs", len(jobs)).Msg("batch complete")
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&jobsFile, "jobs", "", "YAML jobs file (required)")
	_ = batchCmd.MarkFlagRequired("jobs")
	rootCmd.AddCommand(batchCmd)
}
