package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/foresight-cli/internal/jobs"
	"github.com/sells-group/foresight-cli/internal/model"
)

var (
	analyzeText    string
	analyzeFiles   []string
	analyzeDemo    bool
	analyzeOutDir  string
	analyzeWorkers int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the foresight pipeline over text or documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if analyzeText == "" && len(analyzeFiles) == 0 {
			return eris.New("provide --text or at least one --file")
		}
		if analyzeDemo {
			cfg.Anthropic.DemoMode = true
		}

		if analyzeOutDir != "" {
			if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
				return eris.Wrapf(err, "create %s", analyzeOutDir)
			}
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if analyzeText != "" {
			job, err := runOne(cmd, env, jobs.SubmitRequest{Text: analyzeText, DemoMode: env.Offline})
			if err != nil {
				return err
			}
			return writeReport(job, "")
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(analyzeWorkers)
		for _, path := range analyzeFiles {
			path := path
			g.Go(func() error {
				data, err := os.ReadFile(path)
				if err != nil {
					return eris.Wrapf(err, "read %s", path)
				}
				job, err := env.Manager.Submit(gctx, jobs.SubmitRequest{
					FileName:  filepath.Base(path),
					FileBytes: data,
					DemoMode:  env.Offline,
				})
				if err != nil {
					return eris.Wrapf(err, "submit %s", path)
				}
				done, err := env.Manager.Await(gctx, job.ID, 200*time.Millisecond)
				if err != nil {
					return err
				}
				if done.Status == model.JobStatusFailed {
					return eris.Errorf("analysis of %s failed: %s", path, done.Error)
				}
				zap.L().Info("analysis complete",
					zap.String("file", path),
					zap.String("job_id", done.ID),
				)
				return writeReport(done, path)
			})
		}
		return g.Wait()
	},
}

func runOne(cmd *cobra.Command, env *appEnv, req jobs.SubmitRequest) (*model.Job, error) {
	job, err := env.Manager.Submit(cmd.Context(), req)
	if err != nil {
		return nil, err
	}
	done, err := env.Manager.Await(cmd.Context(), job.ID, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if done.Status == model.JobStatusFailed {
		return nil, eris.Errorf("analysis failed: %s", done.Error)
	}
	return done, nil
}

// writeReport prints the report to stdout, or to <out-dir>/<source>.json when
// an output directory is set.
func writeReport(job *model.Job, sourcePath string) error {
	if analyzeOutDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(job.Report)
	}

	name := job.ID + ".json"
	if sourcePath != "" {
		base := filepath.Base(sourcePath)
		name = base[:len(base)-len(filepath.Ext(base))] + ".json"
	}
	out := filepath.Join(analyzeOutDir, name)

	data, err := json.MarshalIndent(job.Report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal report")
	}
	return eris.Wrapf(os.WriteFile(out, data, 0o644), "write %s", out)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "raw text to analyse")
	analyzeCmd.Flags().StringArrayVar(&analyzeFiles, "file", nil, "document to analyse (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeDemo, "demo", false, "force offline fallbacks even with a configured key")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "write reports to this directory instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 2, "concurrent document analyses")
	rootCmd.AddCommand(analyzeCmd)
}
