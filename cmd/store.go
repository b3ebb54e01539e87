package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/recommend"
	"github.com/sells-group/ad-recommender/internal/resilience"
	"github.com/sells-group/ad-recommender/internal/store"
)

// recommender is the part of recommend.Engine the commands depend on.
type recommender interface {
	Recommend(ctx context.Context, jobID int64) (*model.Recommendation, error)
}

// initStore validates the config for mode and opens the configured store.
func initStore(ctx context.Context, mode string) (store.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// initEngine opens the store and builds an engine on top of it. The caller
// closes the returned store.
func initEngine(ctx context.Context, mode string) (store.Store, recommender, error) {
	st, err := initStore(ctx, mode)
	if err != nil {
		return nil, nil, err
	}
	eng, err := recommend.New(st, cfg.Engine)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "init engine")
	}
	return st, &retryingRecommender{next: eng, policy: resilience.FromConfig(cfg.Retry)}, nil
}

// retryingRecommender retries recommendations that failed on a transient
// store error. The engine itself never retries.
type retryingRecommender struct {
	next   recommender
	policy resilience.Policy
}

func (r *retryingRecommender) Recommend(ctx context.Context, jobID int64) (*model.Recommendation, error) {
	return resilience.Do(ctx, r.policy, "recommend", retryableRecommendError, func(ctx context.Context) (*model.Recommendation, error) {
		return r.next.Recommend(ctx, jobID)
	})
}

func retryableRecommendError(err error) bool {
	return recommend.IsDataAccess(err) && resilience.IsTransient(err)
}
