package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/store"
)

// Profiles maps each platform with historical campaigns to its aggregated profile.
type Profiles map[model.Platform]*model.PlatformProfile

// HasData reports whether any platform has at least one historical campaign.
func (p Profiles) HasData() bool {
	for _, prof := range p {
		if prof != nil && prof.CampaignCount > 0 {
			return true
		}
	}
	return false
}

// CampaignCounts returns the historical campaign count per platform.
func (p Profiles) CampaignCounts() map[model.Platform]int {
	counts := make(map[model.Platform]int, len(p))
	for platform, prof := range p {
		counts[platform] = prof.CampaignCount
	}
	return counts
}

// Aggregate reads the campaigns of the similar postings and their insights
// inside the trailing window ending at now, and rolls them up per platform.
func Aggregate(ctx context.Context, reader store.Reader, similar []SimilarJob, now time.Time, cfg config.AggregationConfig) (Profiles, error) {
	if len(similar) == 0 {
		return Profiles{}, nil
	}

	campaigns, err := reader.FindCampaignsForJobs(ctx, jobIDs(similar))
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: find campaigns")
	}
	if len(campaigns) == 0 {
		return Profiles{}, nil
	}

	externalIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		if c.ExternalID != "" {
			externalIDs = append(externalIDs, c.ExternalID)
		}
	}

	var insights []model.Insight
	if len(externalIDs) > 0 {
		insights, err = reader.FindInsights(ctx, dedupe(externalIDs), windowStart(now, cfg.WindowDays))
		if err != nil {
			return nil, eris.Wrap(err, "aggregate: find insights")
		}
	}

	return aggregateProfiles(campaigns, insights, cfg), nil
}

// windowStart is midnight UTC, cfg.WindowDays before now.
func windowStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}

type profileAccumulator struct {
	profile     *model.PlatformProfile
	budgetSum   int64
	budgetCount int
	segments    []int
	objectives  []string
}

// aggregateProfiles groups campaigns by platform and sums their insights.
// Insights whose campaign is not in campaigns are ignored.
func aggregateProfiles(campaigns []model.Campaign, insights []model.Insight, cfg config.AggregationConfig) Profiles {
	accs := make(map[model.Platform]*profileAccumulator)
	byExternalID := make(map[string]model.Platform, len(campaigns))
	seen := make(map[int64]struct{}, len(campaigns))

	for _, c := range campaigns {
		if !c.Platform.Valid() {
			zap.L().Warn("recommend: skipping campaign with unsupported platform",
				zap.Int64("campaign_id", c.ID),
				zap.String("platform", string(c.Platform)),
			)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		acc, ok := accs[c.Platform]
		if !ok {
			acc = &profileAccumulator{profile: &model.PlatformProfile{Platform: c.Platform}}
			accs[c.Platform] = acc
		}
		acc.profile.CampaignCount++
		if c.DailyBudget > 0 {
			acc.budgetSum += c.DailyBudget
			acc.budgetCount++
		}
		acc.segments = append(acc.segments, c.TargetSegments...)
		if c.Objective != "" {
			acc.objectives = append(acc.objectives, c.Objective)
		}
		if c.ExternalID != "" {
			byExternalID[c.ExternalID] = c.Platform
		}
	}

	for _, in := range insights {
		platform, ok := byExternalID[in.CampaignExternalID]
		if !ok {
			continue
		}
		p := accs[platform].profile
		p.Impressions += in.Impressions
		p.Clicks += in.Clicks
		p.Spend += in.Spend
		p.Conversions += in.Conversions(cfg.ConversionActions)
	}

	profiles := make(Profiles, len(accs))
	for platform, acc := range accs {
		p := acc.profile
		p.CTR = ratio(float64(p.Clicks), float64(p.Impressions)) * 100
		p.CPC = ratio(p.Spend, float64(p.Clicks))
		p.ConversionRate = ratio(float64(p.Conversions), float64(p.Clicks)) * 100
		p.AvgDailyBudget = ratio(float64(acc.budgetSum), float64(acc.budgetCount))
		p.Confidence = math.Min(cfg.MaxConfidence, cfg.BaseConfidence+float64(p.CampaignCount)*cfg.ConfidencePerCampaign)
		p.TopSegments = topValues(acc.segments, cfg.TopValues)
		p.TopObjectives = topValues(acc.objectives, cfg.TopValues)
		profiles[platform] = p
	}
	return profiles
}

// ratio returns num/denom, or 0 when denom is 0.
func ratio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}

// topValues returns up to n of the most frequent values, ties broken by the
// order in which values were first seen.
func topValues[T comparable](values []T, n int) []T {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	distinct := dedupe(values)
	sort.SliceStable(distinct, func(i, j int) bool {
		return counts[distinct[i]] > counts[distinct[j]]
	})
	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}
