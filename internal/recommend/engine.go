// Package recommend picks an ad platform, daily budget and targeting hints for
// a job posting by blending historical campaign performance of similar
// postings with a keyword heuristic.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/store"
)

// Pipeline stages, reported on errors and log lines.
const (
	StageLoadJob     = "load_job"
	StageCandidates  = "find_candidates"
	StageSimilarity  = "similarity"
	StageAggregate   = "aggregate"
	StageExploratory = "exploratory"
	StageBlend       = "blend"
	StageColdStart   = "cold_start"
	StageBudget      = "budget"
	StageTargeting   = "targeting"
)

// Engine produces recommendations. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	reader store.Reader
	cfg    config.EngineConfig
	now    func() time.Time
	log    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for the insight window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine reading history from reader.
func New(reader store.Reader, cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	if reader == nil {
		return nil, eris.New("recommend: reader is required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	e := &Engine{reader: reader, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.L()
	}
	return e, nil
}

// Recommend returns the recommendation for the job posting with the given id.
// Errors are always *Error; a missing posting yields KindNotFound and a store
// failure KindDataAccess.
func (e *Engine) Recommend(ctx context.Context, jobID int64) (rec *model.Recommendation, err error) {
	stage := StageLoadJob
	log := e.log.With(zap.Int64("job_id", jobID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("recommend: panic during scoring",
				zap.String("stage", stage),
				zap.Any("panic", r),
			)
			rec = nil
			err = &Error{Kind: KindInternal, JobID: jobID, Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	job, err := e.reader.FindJobPosting(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, JobID: jobID, Stage: stage, Err: err}
		}
		return nil, e.dataAccess(log, jobID, stage, err)
	}

	stage = StageCandidates
	candidates, err := e.reader.FindCandidateJobsWithCampaigns(ctx, jobID)
	if err != nil {
		return nil, e.dataAccess(log, jobID, stage, err)
	}

	stage = StageSimilarity
	similar := FindSimilar(*job, candidates, e.cfg.Similarity)

	var profiles Profiles
	if len(similar) > 0 {
		stage = StageAggregate
		profiles, err = Aggregate(ctx, e.reader, similar, e.now(), e.cfg.Aggregation)
		if err != nil {
			return nil, e.dataAccess(log, jobID, stage, err)
		}
	}

	rec = &model.Recommendation{JobPostingID: jobID}

	var ranking Ranking
	if profiles.HasData() {
		stage = StageExploratory
		exploratory := ScoreAll(*job, profiles.CampaignCounts(), e.cfg.Keywords, e.cfg.Exploratory)

		stage = StageBlend
		ranking = Blend(profiles, exploratory, e.cfg.Blend)
		rec.BasedOnHistorical = true
		rec.SimilarJobCount = len(similar)
	} else {
		stage = StageColdStart
		ranking = ColdStart(*job, e.cfg.Keywords, e.cfg.ColdStart)
	}

	rec.BestPlatform = ranking.Best
	rec.Ranking = ranking.Entries
	rec.ConfidenceScore = ranking.Entries[0].Confidence
	rec.SuggestedConfig = suggestedConfig(*job, ranking.Profiles[ranking.Best])

	stage = StageBudget
	rec.Budget = RecommendBudget(ranking.Best, ranking.Profiles, e.cfg.Budget)

	stage = StageTargeting
	rec.Targeting = Suggest(*job, e.cfg.Targeting, e.cfg.Keywords)

	log.Info("recommend: generated recommendation",
		zap.String("best_platform", string(rec.BestPlatform)),
		zap.Float64("confidence", rec.ConfidenceScore),
		zap.Bool("based_on_historical", rec.BasedOnHistorical),
		zap.Int("similar_jobs", rec.SimilarJobCount),
		zap.Int64("budget_recommended", rec.Budget.Recommended),
	)

	return rec, nil
}

func (e *Engine) dataAccess(log *zap.Logger, jobID int64, stage string, err error) error {
	log.Error("recommend: historical store read failed",
		zap.String("stage", stage),
		zap.Error(err),
	)
	return &Error{Kind: KindDataAccess, JobID: jobID, Stage: stage, Err: err}
}

// suggestedConfig seeds campaign settings from the best platform's recurring
// historical values, falling back to the posting's own segments.
func suggestedConfig(job model.JobPosting, best *model.PlatformProfile) model.PlatformConfig {
	var pc model.PlatformConfig
	if best != nil {
		pc.TargetSegments = best.TopSegments
		if len(best.TopObjectives) > 0 {
			pc.Objective = best.TopObjectives[0]
		}
	}
	if len(pc.TargetSegments) == 0 && len(job.TargetSegments) > 0 {
		pc.TargetSegments = dedupe(job.TargetSegments)
	}
	return pc
}
