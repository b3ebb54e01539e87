// Package store provides read access to historical job postings, ad
// campaigns and performance insights, plus loaders used to seed them.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-recommender/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// Reader is the read-only historical data source consumed by the engine.
// Results are returned in a stable order (by id) so that identical store
// state yields identical recommendations.
type Reader interface {
	// FindJobPosting returns ErrNotFound when no posting has the given id.
	FindJobPosting(ctx context.Context, id int64) (*model.JobPosting, error)
	FindCampaignsForJobs(ctx context.Context, jobIDs []int64) ([]model.Campaign, error)
	// FindInsights returns insights whose date range starts on or after since.
	FindInsights(ctx context.Context, campaignExternalIDs []string, since time.Time) ([]model.Insight, error)
	// FindCandidateJobsWithCampaigns returns every posting other than
	// excludeID that has at least one campaign.
	FindCandidateJobsWithCampaigns(ctx context.Context, excludeID int64) ([]model.JobPosting, error)
}

// Writer loads historical data. Job postings and campaigns are upserted by
// id; insights are upserted by campaign and date range, so reloading the
// same data never double counts performance.
type Writer interface {
	UpsertJobPostings(ctx context.Context, jobs []model.JobPosting) (int64, error)
	UpsertCampaigns(ctx context.Context, campaigns []model.Campaign) (int64, error)
	UpsertInsights(ctx context.Context, insights []model.Insight) (int64, error)
}

// Store is a full historical data backend.
type Store interface {
	Reader
	Writer

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// dateLayout is the storage format for insight date ranges.
const dateLayout = "2006-01-02"

// insightKey identifies an insight row: one campaign over one date range.
type insightKey struct {
	campaign    string
	start, stop string
}

// dedupeInsights keeps the last insight per campaign and date range,
// preserving first-seen order. A single upsert statement cannot touch the
// same key twice.
func dedupeInsights(insights []model.Insight) []model.Insight {
	pos := make(map[insightKey]int, len(insights))
	out := make([]model.Insight, 0, len(insights))
	for _, in := range insights {
		k := insightKey{
			campaign: in.CampaignExternalID,
			start:    in.DateStart.UTC().Format(dateLayout),
			stop:     in.DateStop.UTC().Format(dateLayout),
		}
		if i, ok := pos[k]; ok {
			out[i] = in
			continue
		}
		pos[k] = len(out)
		out = append(out, in)
	}
	return out
}
