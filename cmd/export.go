package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/export"
	"github.com/sells-group/foresight-cli/internal/model"
)

var (
	exportJobID string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a finished job's report as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		job, err := env.Manager.Get(ctx, exportJobID)
		if err != nil {
			return err
		}
		if job.Status != model.JobStatusSucceeded {
			return eris.Errorf("job %s is %s, nothing to export", job.ID, job.Status)
		}

		if err := export.WriteXLSX(job, exportOut); err != nil {
			return err
		}
		zap.L().Info("report exported", zap.String("job_id", job.ID), zap.String("path", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportJobID, "job", "", "job id to export (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "report.xlsx", "output workbook path")
	_ = exportCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(exportCmd)
}
