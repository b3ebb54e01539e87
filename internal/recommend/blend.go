package recommend

import (
	"math"
	"sort"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// Reason strings attached to ranking entries.
const (
	ReasonHighCTR        = "high CTR"
	ReasonStrongConvRate = "strong conversion rate"
	ReasonLowCPC         = "low cost per click"
	ReasonJobTypeMatch   = "recommended for this job type"
	ReasonDiversify      = "alternative option to diversify reach"
)

// Ranking is the ordered outcome of either the blend or the cold-start path.
type Ranking struct {
	Best    model.Platform
	Entries []model.PlatformRanking

	// Profiles holds one profile per supported platform, synthesized where
	// no history exists.
	Profiles Profiles
}

// Blend ranks every supported platform by combining its historical
// performance with its exploratory score. Platforms missing from profiles
// get a synthesized zero-performance profile. The input map is not modified.
func Blend(profiles Profiles, exploratory map[model.Platform]float64, cfg config.BlendConfig) Ranking {
	all := make(Profiles, len(model.Platforms))
	list := make([]*model.PlatformProfile, 0, len(model.Platforms))

	for _, platform := range model.Platforms {
		var p model.PlatformProfile
		if existing, ok := profiles[platform]; ok && existing != nil {
			p = *existing
		} else {
			p = model.PlatformProfile{
				Platform:       platform,
				Confidence:     cfg.DefaultConfidence,
				AvgDailyBudget: cfg.DefaultDailyBudget,
				Synthesized:    true,
			}
		}

		p.ExploratoryScore = exploratory[platform]
		perf := performanceScore(&p, cfg)
		factor := math.Min(1, float64(p.CampaignCount)/cfg.CampaignSaturation)
		e := cfg.ExploratoryFactor
		final := perf*factor*(1-e) + p.ExploratoryScore*cfg.ExploratoryScale*e

		p.PerformanceScore = round2(perf)
		p.FinalScore = round2(final)
		all[platform] = &p
		list = append(list, &p)
	}

	sortProfiles(list)

	entries := make([]model.PlatformRanking, len(list))
	for i, p := range list {
		entries[i] = model.PlatformRanking{
			Platform:   p.Platform,
			Score:      p.FinalScore,
			Confidence: p.Confidence,
			Reasons:    blendReasons(p, cfg),
		}
	}

	return Ranking{Best: list[0].Platform, Entries: entries, Profiles: all}
}

// performanceScore is the weighted metric sub-score before the campaign factor.
func performanceScore(p *model.PlatformProfile, cfg config.BlendConfig) float64 {
	score := p.CTR*cfg.CTRWeight*cfg.CTRMultiplier +
		p.ConversionRate*cfg.ConversionWeight*cfg.ConversionMultiplier
	if p.CPC > 0 {
		score += (1 / p.CPC) * cfg.CPCWeight * cfg.CPCMultiplier
	}
	volume := math.Min(cfg.ImpressionsCap, float64(p.Impressions)/cfg.ImpressionsUnit)
	score += volume * cfg.ImpressionsWeight * cfg.ImpressionsMultiplier
	return score
}

func blendReasons(p *model.PlatformProfile, cfg config.BlendConfig) []string {
	var reasons []string
	if p.CTR > cfg.HighCTR {
		reasons = append(reasons, ReasonHighCTR)
	}
	if p.ConversionRate > cfg.StrongConversionRate {
		reasons = append(reasons, ReasonStrongConvRate)
	}
	if p.CPC > 0 && p.CPC < cfg.LowCPC {
		reasons = append(reasons, ReasonLowCPC)
	}
	if p.ExploratoryScore > cfg.JobTypeMatch {
		reasons = append(reasons, ReasonJobTypeMatch)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonDiversify)
	}
	return reasons
}

// sortProfiles orders by final score descending, ties by platform declaration order.
func sortProfiles(list []*model.PlatformProfile) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].FinalScore != list[j].FinalScore {
			return list[i].FinalScore > list[j].FinalScore
		}
		return list[i].Platform.Index() < list[j].Platform.Index()
	})
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
