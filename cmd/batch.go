package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/recommend"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Recommend for several job postings concurrently",
	Long: `Generate recommendations for a list of job postings. Postings are processed
concurrently (batch.max_concurrent); a failure on one posting is reported in
its result and does not abort the others. Results are written as a JSON array
in input order.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ids, _ := cmd.Flags().GetInt64Slice("job-ids")
		if len(ids) == 0 {
			return eris.New("batch: --job-ids is required")
		}

		st, eng, err := initEngine(ctx, "batch")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		results, err := processBatch(ctx, ids, cfg.Batch.MaxConcurrent, eng)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	batchCmd.Flags().Int64Slice("job-ids", nil, "comma-separated job posting ids")
	rootCmd.AddCommand(batchCmd)
}

// batchResult is the outcome for one job posting.
type batchResult struct {
	JobID          int64                 `json:"job_id"`
	Recommendation *model.Recommendation `json:"recommendation,omitempty"`
	Error          string                `json:"error,omitempty"`
	ErrorKind      string                `json:"error_kind,omitempty"`
}

// processBatch runs eng for every id with at most concurrency in flight.
// Per-posting failures are recorded in the results, never returned.
func processBatch(ctx context.Context, ids []int64, concurrency int, eng recommender) ([]batchResult, error) {
	zap.L().Info("processing batch",
		zap.Int("jobs", len(ids)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]batchResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var succeeded, failed atomic.Int64

	for i, id := range ids {
		g.Go(func() error {
			log := zap.L().With(zap.Int64("job_id", id))
			results[i].JobID = id

			rec, err := eng.Recommend(gctx, id)
			if err != nil {
				failed.Add(1)
				results[i].Error = err.Error()
				results[i].ErrorKind = errorKind(err)
				log.Error("recommendation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			results[i].Recommendation = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results, nil
}

func errorKind(err error) string {
	switch {
	case recommend.IsNotFound(err):
		return recommend.KindNotFound.String()
	case recommend.IsDataAccess(err):
		return recommend.KindDataAccess.String()
	default:
		return recommend.KindInternal.String()
	}
}
