package recommend

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ad-recommender/internal/model"
)

// mockReader implements store.Reader.
type mockReader struct {
	mock.Mock
}

func (m *mockReader) FindJobPosting(ctx context.Context, id int64) (*model.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobPosting), args.Error(1)
}

func (m *mockReader) FindCampaignsForJobs(ctx context.Context, jobIDs []int64) ([]model.Campaign, error) {
	args := m.Called(ctx, jobIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *mockReader) FindInsights(ctx context.Context, campaignExternalIDs []string, since time.Time) ([]model.Insight, error) {
	args := m.Called(ctx, campaignExternalIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Insight), args.Error(1)
}

func (m *mockReader) FindCandidateJobsWithCampaigns(ctx context.Context, excludeID int64) ([]model.JobPosting, error) {
	args := m.Called(ctx, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JobPosting), args.Error(1)
}
