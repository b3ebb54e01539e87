package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/store"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, reader store.Reader) *Engine {
	t.Helper()
	e, err := New(reader, config.DefaultEngineConfig(),
		WithClock(func() time.Time { return testNow }),
		WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)
	return e
}

// metaHistory stubs one similar posting advertised six times on meta with
// ctr 2.0, conversion rate 8.0 and cpc 5, plus a weaker history on every
// other platform so that the underutilization bonus is shared evenly.
func metaHistory(reader *mockReader) {
	target := model.JobPosting{ID: 100, Title: "Accountant", Skills: []string{"Excel"}, Location: "Madrid", EmploymentType: model.EmploymentFullTime}
	similar := model.JobPosting{ID: 1, Title: "Accountant", Skills: []string{"Excel"}, Location: "Madrid", EmploymentType: model.EmploymentFullTime}

	var campaigns []model.Campaign
	var ids []string
	id := int64(1)
	for _, p := range model.Platforms {
		for i := 0; i < 6; i++ {
			ext := fmt.Sprintf("%s_%d", p, i)
			campaigns = append(campaigns, model.Campaign{
				ID: id, ExternalID: ext, JobPostingID: 1, Platform: p,
				DailyBudget: 2000, TargetSegments: []int{4}, Objective: "OUTCOME_LEADS",
			})
			ids = append(ids, ext)
			id++
		}
	}

	insights := []model.Insight{
		{CampaignExternalID: "meta_0", DateStart: testNow.AddDate(0, 0, -10), Impressions: 10000, Clicks: 200, Spend: 1000, Actions: map[string]int64{"lead": 16}},
		{CampaignExternalID: "google_0", DateStart: testNow.AddDate(0, 0, -10), Impressions: 2000, Clicks: 10, Spend: 500},
		{CampaignExternalID: "tiktok_0", DateStart: testNow.AddDate(0, 0, -10), Impressions: 2000, Clicks: 10, Spend: 500},
		{CampaignExternalID: "snapchat_0", DateStart: testNow.AddDate(0, 0, -10), Impressions: 2000, Clicks: 10, Spend: 500},
	}

	reader.On("FindJobPosting", mock.Anything, int64(100)).Return(&target, nil)
	reader.On("FindCandidateJobsWithCampaigns", mock.Anything, int64(100)).Return([]model.JobPosting{similar}, nil)
	reader.On("FindCampaignsForJobs", mock.Anything, []int64{1}).Return(campaigns, nil)
	reader.On("FindInsights", mock.Anything, ids, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)).Return(insights, nil)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, config.DefaultEngineConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader is required")

	cfg := config.DefaultEngineConfig()
	cfg.Similarity.MaxResults = 0
	_, err = New(new(mockReader), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestRecommend_HistoricalMeta(t *testing.T) {
	reader := new(mockReader)
	metaHistory(reader)
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, int64(100), rec.JobPostingID)
	assert.True(t, rec.BasedOnHistorical)
	assert.Equal(t, 1, rec.SimilarJobCount)
	assert.Equal(t, model.PlatformMeta, rec.BestPlatform)
	require.Len(t, rec.Ranking, 4)
	assert.Equal(t, rec.BestPlatform, rec.Ranking[0].Platform)
	assert.Equal(t, 100.0, rec.Ranking[0].Confidence)
	assert.Equal(t, 100.0, rec.ConfidenceScore)
	assert.Contains(t, rec.Ranking[0].Reasons, ReasonHighCTR)
	assert.Contains(t, rec.Ranking[0].Reasons, ReasonStrongConvRate)

	assert.Equal(t, model.BudgetRange{Min: 1400, Recommended: 2000, Max: 3000, IsBasedOnData: true}, rec.Budget)
	assert.Equal(t, model.PlatformConfig{TargetSegments: []int{4}, Objective: "OUTCOME_LEADS"}, rec.SuggestedConfig)
	reader.AssertExpectations(t)
}

// With history on meta alone, the underutilization bonus (30 points for
// each untried platform, scaled by 2 and weighted by 0.7) outweighs meta's
// blended performance. This exploration pressure is intended.
func TestRecommend_SinglePlatformHistoryFavoursUntriedPlatforms(t *testing.T) {
	reader := new(mockReader)
	target := model.JobPosting{ID: 100, Title: "Accountant", Skills: []string{"Excel"}, Location: "Madrid", EmploymentType: model.EmploymentFullTime}
	similar := model.JobPosting{ID: 1, Title: "Accountant", Skills: []string{"Excel"}, Location: "Madrid", EmploymentType: model.EmploymentFullTime}

	var campaigns []model.Campaign
	var ids []string
	for i := 0; i < 6; i++ {
		ext := fmt.Sprintf("meta_%d", i)
		campaigns = append(campaigns, model.Campaign{
			ID: int64(i + 1), ExternalID: ext, JobPostingID: 1, Platform: model.PlatformMeta, DailyBudget: 2000,
		})
		ids = append(ids, ext)
	}
	insights := []model.Insight{
		{CampaignExternalID: "meta_0", DateStart: testNow.AddDate(0, 0, -10), Impressions: 10000, Clicks: 200, Spend: 1000, Actions: map[string]int64{"lead": 16}},
	}

	reader.On("FindJobPosting", mock.Anything, int64(100)).Return(&target, nil)
	reader.On("FindCandidateJobsWithCampaigns", mock.Anything, int64(100)).Return([]model.JobPosting{similar}, nil)
	reader.On("FindCampaignsForJobs", mock.Anything, []int64{1}).Return(campaigns, nil)
	reader.On("FindInsights", mock.Anything, ids, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)).Return(insights, nil)
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, rec.BasedOnHistorical)
	assert.Equal(t, 1, rec.SimilarJobCount)

	// Untried platforms tie at 30*2*0.7 = 42 and keep declaration order.
	want := []model.Platform{model.PlatformGoogle, model.PlatformTikTok, model.PlatformSnapchat, model.PlatformMeta}
	require.Len(t, rec.Ranking, 4)
	for i, p := range want {
		assert.Equal(t, p, rec.Ranking[i].Platform)
	}
	for _, r := range rec.Ranking[:3] {
		assert.InDelta(t, 42.0, r.Score, 1e-9)
		assert.Equal(t, 50.0, r.Confidence)
	}
	assert.Equal(t, model.PlatformGoogle, rec.BestPlatform)

	// meta: performance 4.5+18+0.1+0.05 = 22.65, weighted by 0.3.
	metaRank := rec.Ranking[3]
	assert.InDelta(t, 6.8, metaRank.Score, 0.011)
	assert.Equal(t, 100.0, metaRank.Confidence)
	assert.Contains(t, metaRank.Reasons, ReasonHighCTR)
	assert.Contains(t, metaRank.Reasons, ReasonStrongConvRate)

	// The best platform has no real profile, so the budget falls back.
	assert.Equal(t, model.BudgetRange{Min: 500, Recommended: 1500, Max: 5000}, rec.Budget)
	assert.Equal(t, 50.0, rec.ConfidenceScore)
	reader.AssertExpectations(t)
}

func TestRecommend_ColdStartWithoutCandidates(t *testing.T) {
	reader := new(mockReader)
	job := pythonJob()
	reader.On("FindJobPosting", mock.Anything, job.ID).Return(&job, nil)
	reader.On("FindCandidateJobsWithCampaigns", mock.Anything, job.ID).Return([]model.JobPosting{}, nil)
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, model.PlatformGoogle, rec.BestPlatform)
	assert.False(t, rec.BasedOnHistorical)
	assert.Equal(t, 0, rec.SimilarJobCount)
	assert.Equal(t, 60.0, rec.ConfidenceScore)
	for _, r := range rec.Ranking {
		assert.Equal(t, 60.0, r.Confidence)
	}
	assert.Equal(t, model.BudgetRange{Min: 500, Recommended: 1500, Max: 5000}, rec.Budget)
	assert.Equal(t, []string{"Programming/Tech"}, rec.Targeting.Interests)
	assert.Equal(t, []string{"Bachelor's Degree"}, rec.Targeting.EducationLevels)
	// No history: the posting's own segments seed the configuration.
	assert.Equal(t, []int{1, 2}, rec.SuggestedConfig.TargetSegments)

	reader.AssertNotCalled(t, "FindCampaignsForJobs", mock.Anything, mock.Anything)
}

func TestRecommend_ColdStartWhenSimilarJobsHaveNoCampaigns(t *testing.T) {
	reader := new(mockReader)
	job := pythonJob()
	similar := pythonJob()
	similar.ID = 5
	reader.On("FindJobPosting", mock.Anything, job.ID).Return(&job, nil)
	reader.On("FindCandidateJobsWithCampaigns", mock.Anything, job.ID).Return([]model.JobPosting{similar}, nil)
	reader.On("FindCampaignsForJobs", mock.Anything, []int64{5}).Return([]model.Campaign{}, nil)
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), job.ID)
	require.NoError(t, err)
	assert.False(t, rec.BasedOnHistorical)
	assert.Equal(t, 0, rec.SimilarJobCount)
	assert.Equal(t, model.PlatformGoogle, rec.BestPlatform)
}

func TestRecommend_NotFound(t *testing.T) {
	reader := new(mockReader)
	reader.On("FindJobPosting", mock.Anything, int64(404)).Return(nil, fmt.Errorf("lookup: %w", store.ErrNotFound))
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), 404)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, store.ErrNotFound))

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, int64(404), re.JobID)
	assert.Equal(t, StageLoadJob, re.Stage)
	reader.AssertNotCalled(t, "FindCandidateJobsWithCampaigns", mock.Anything, mock.Anything)
}

func TestRecommend_DataAccessFailures(t *testing.T) {
	cause := errors.New("connection reset by peer")
	job := pythonJob()
	similar := pythonJob()
	similar.ID = 5

	tests := []struct {
		name  string
		setup func(r *mockReader)
		stage string
	}{
		{
			name: "load job",
			setup: func(r *mockReader) {
				r.On("FindJobPosting", mock.Anything, job.ID).Return(nil, cause)
			},
			stage: StageLoadJob,
		},
		{
			name: "candidates",
			setup: func(r *mockReader) {
				r.On("FindJobPosting", mock.Anything, job.ID).Return(&job, nil)
				r.On("FindCandidateJobsWithCampaigns", mock.Anything, job.ID).Return(nil, cause)
			},
			stage: StageCandidates,
		},
		{
			name: "campaigns",
			setup: func(r *mockReader) {
				r.On("FindJobPosting", mock.Anything, job.ID).Return(&job, nil)
				r.On("FindCandidateJobsWithCampaigns", mock.Anything, job.ID).Return([]model.JobPosting{similar}, nil)
				r.On("FindCampaignsForJobs", mock.Anything, []int64{5}).Return(nil, cause)
			},
			stage: StageAggregate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(mockReader)
			tt.setup(reader)
			e := newTestEngine(t, reader)

			rec, err := e.Recommend(context.Background(), job.ID)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.True(t, IsDataAccess(err))
			assert.True(t, errors.Is(err, cause))

			var re *Error
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.stage, re.Stage)
		})
	}
}

func TestRecommend_RecoversPanics(t *testing.T) {
	reader := new(mockReader)
	// A nil posting without an error is a broken store contract.
	reader.On("FindJobPosting", mock.Anything, int64(9)).Return(nil, nil)
	reader.On("FindCandidateJobsWithCampaigns", mock.Anything, int64(9)).Return([]model.JobPosting{}, nil)
	e := newTestEngine(t, reader)

	rec, err := e.Recommend(context.Background(), 9)
	require.Error(t, err)
	assert.Nil(t, rec)

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindInternal, re.Kind)
	assert.Equal(t, StageSimilarity, re.Stage)
	assert.Contains(t, err.Error(), "panic")
}

func TestRecommend_Idempotent(t *testing.T) {
	reader := new(mockReader)
	metaHistory(reader)
	e := newTestEngine(t, reader)

	first, err := e.Recommend(context.Background(), 100)
	require.NoError(t, err)
	second, err := e.Recommend(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_BestIsRankingHead(t *testing.T) {
	titles := []string{
		"Senior Python Developer",
		"Junior Graphic Designer",
		"Head of Sales",
		"Warehouse Operative",
		"Becario de Diseño",
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			reader := new(mockReader)
			job := model.JobPosting{ID: 1, Title: title}
			reader.On("FindJobPosting", mock.Anything, int64(1)).Return(&job, nil)
			reader.On("FindCandidateJobsWithCampaigns", mock.Anything, int64(1)).Return([]model.JobPosting{}, nil)
			e := newTestEngine(t, reader)

			rec, err := e.Recommend(context.Background(), 1)
			require.NoError(t, err)
			assert.True(t, rec.BestPlatform.Valid())
			assert.Equal(t, rec.BestPlatform, rec.Ranking[0].Platform)
			for i := 1; i < len(rec.Ranking); i++ {
				assert.GreaterOrEqual(t, rec.Ranking[i-1].Score, rec.Ranking[i].Score)
			}
			assert.LessOrEqual(t, rec.Budget.Min, rec.Budget.Recommended)
			assert.LessOrEqual(t, rec.Budget.Recommended, rec.Budget.Max)
		})
	}
}
