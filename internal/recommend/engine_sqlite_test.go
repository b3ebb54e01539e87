package recommend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/store"
)

func TestRecommend_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	_, err = st.UpsertJobPostings(ctx, []model.JobPosting{
		{ID: 1, Title: "Graphic Designer", Skills: []string{"Figma", "Photoshop"}, TargetSegments: []int{3}, Location: "Lisbon", EmploymentType: model.EmploymentFullTime},
		{ID: 2, Title: "Senior Graphic Designer", Skills: []string{"Figma"}, TargetSegments: []int{3}, Location: "Lisbon", EmploymentType: model.EmploymentFullTime},
		{ID: 3, Title: "Truck Driver", Location: "Porto", EmploymentType: model.EmploymentContract},
	})
	require.NoError(t, err)

	_, err = st.UpsertCampaigns(ctx, []model.Campaign{
		{ID: 10, ExternalID: "tt_10", JobPostingID: 1, Platform: model.PlatformTikTok, DailyBudget: 1200, TargetSegments: []int{3}, Objective: "LEAD_GENERATION"},
		{ID: 11, ExternalID: "tt_11", JobPostingID: 1, Platform: model.PlatformTikTok, DailyBudget: 1800, TargetSegments: []int{3, 5}, Objective: "LEAD_GENERATION"},
		{ID: 12, ExternalID: "dr_12", JobPostingID: 3, Platform: model.PlatformSnapchat, DailyBudget: 900},
	})
	require.NoError(t, err)

	_, err = st.UpsertInsights(ctx, []model.Insight{
		{CampaignExternalID: "tt_10", DateStart: testNow.AddDate(0, 0, -20), DateStop: testNow.AddDate(0, 0, -14), Impressions: 40000, Clicks: 900, Spend: 2700, Actions: map[string]int64{"lead": 60}},
		{CampaignExternalID: "tt_11", DateStart: testNow.AddDate(0, 0, -400), DateStop: testNow.AddDate(0, 0, -390), Impressions: 90000, Clicks: 10, Spend: 9000},
	})
	require.NoError(t, err)

	e := newTestEngine(t, st)
	rec, err := e.Recommend(ctx, 2)
	require.NoError(t, err)

	// Only posting 1 is similar; posting 3 shares nothing.
	assert.True(t, rec.BasedOnHistorical)
	assert.Equal(t, 1, rec.SimilarJobCount)

	// The creative and senior title keywords plus the underutilization bonus
	// outweigh the tiktok history.
	assert.Equal(t, model.PlatformMeta, rec.BestPlatform)
	assert.InDelta(t, 112.0, rec.Ranking[0].Score, 0.01)
	assert.Equal(t, model.BudgetRange{Min: 500, Recommended: 1500, Max: 5000}, rec.Budget)
	assert.Equal(t, model.PlatformConfig{TargetSegments: []int{3}}, rec.SuggestedConfig)

	var tiktok *model.PlatformRanking
	for i := range rec.Ranking {
		if rec.Ranking[i].Platform == model.PlatformTikTok {
			tiktok = &rec.Ranking[i]
		}
	}
	require.NotNil(t, tiktok)
	assert.Equal(t, 76.0, tiktok.Confidence)
	// The 400 day old insight is outside the window; with it the CTR would
	// drop below the threshold.
	assert.Contains(t, tiktok.Reasons, ReasonHighCTR)
	assert.Contains(t, tiktok.Reasons, ReasonStrongConvRate)

	assert.Equal(t, []string{"Graphic/UX Design"}, rec.Targeting.Interests)
	assert.Equal(t, []string{"Bachelor's Degree"}, rec.Targeting.EducationLevels)

	_, err = e.Recommend(ctx, 999)
	assert.True(t, IsNotFound(err))
}
