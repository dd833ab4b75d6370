package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/store"
)

var (
	jobsStatus string
	jobsLimit  int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect stored analysis jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		list, err := env.Manager.List(ctx, store.JobFilter{
			Status: model.JobStatus(jobsStatus),
			Limit:  jobsLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPROGRESS\tCREATED\tFILE")
		for _, job := range list {
			fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\t%s\n",
				job.ID, job.Status, job.Progress*100,
				job.CreatedAt.Format("2006-01-02 15:04"),
				job.Input.FileName,
			)
		}
		return w.Flush()
	},
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job metrics over the last 24 hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := env.Collector.Collect(ctx, 24)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	jobsListCmd.Flags().StringVar(&jobsStatus, "status", "", "filter by status (queued|running|succeeded|failed)")
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 50, "maximum jobs to list")
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatsCmd)
	rootCmd.AddCommand(jobsCmd)
}
