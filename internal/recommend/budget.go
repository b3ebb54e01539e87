package recommend

import (
	"math"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// RecommendBudget derives a daily budget range for platform. Only real
// historical profiles count as data; synthesized placeholders fall back to
// the configured defaults.
func RecommendBudget(platform model.Platform, profiles Profiles, cfg config.BudgetConfig) model.BudgetRange {
	p, ok := profiles[platform]
	if !ok || p == nil || p.Synthesized || p.CampaignCount == 0 || p.AvgDailyBudget <= 0 {
		return model.BudgetRange{
			Min:         cfg.Min,
			Recommended: cfg.Recommended,
			Max:         cfg.Max,
		}
	}

	avg := p.AvgDailyBudget
	recommended := int64(math.Round(avg))
	minBudget := int64(math.Round(math.Max(float64(cfg.Min), cfg.MinRatio*avg)))
	maxBudget := int64(math.Round(cfg.MaxRatio * avg))

	// A small average would put the floor above the recommendation.
	minBudget = min(minBudget, recommended)
	maxBudget = max(maxBudget, recommended)

	return model.BudgetRange{
		Min:           minBudget,
		Recommended:   recommended,
		Max:           maxBudget,
		IsBasedOnData: true,
	}
}
