package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// runStage wraps one pipeline stage with timing and structured logging. The
// returned error is the stage's own, unchanged; failures are logged here so
// the orchestrator only has to propagate them.
func runStage[T any](jobID, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	val, err := fn()
	elapsed := time.Since(start)

	if err != nil {
		zap.L().Error("stage failed",
			zap.String("job_id", jobID),
			zap.String("stage", stage),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return val, err
	}

	zap.L().Info("stage complete",
		zap.String("job_id", jobID),
		zap.String("stage", stage),
		zap.Duration("elapsed", elapsed),
	)
	return val, nil
}
