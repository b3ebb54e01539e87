package recommend

import (
	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// ColdStart ranks platforms from title keywords alone. It is used when no
// similar posting has any historical campaign. Every platform gets the same
// fixed confidence.
func ColdStart(job model.JobPosting, kw config.KeywordConfig, cfg config.ColdStartConfig) Ranking {
	hits := matchBuckets(job.Title, kw)
	technical := float64(hits.Technical) * cfg.KeywordPoints
	creative := float64(hits.Creative) * cfg.KeywordPoints
	junior := float64(hits.Junior) * cfg.KeywordPoints
	executive := float64(hits.Executive) * cfg.KeywordPoints

	// Keyword contribution per platform, on top of its base score.
	boost := map[model.Platform]float64{
		model.PlatformMeta:     cfg.MetaCreative*creative + cfg.MetaExecutive*executive,
		model.PlatformGoogle:   cfg.GoogleTechnical*technical + cfg.GoogleExecutive*executive,
		model.PlatformTikTok:   cfg.TikTokCreative*creative + cfg.TikTokJunior*junior,
		model.PlatformSnapchat: cfg.SnapchatJunior*junior + cfg.SnapchatCreative*creative,
	}
	base := map[model.Platform]float64{
		model.PlatformMeta:     cfg.MetaBase,
		model.PlatformGoogle:   cfg.GoogleBase,
		model.PlatformTikTok:   cfg.TikTokBase,
		model.PlatformSnapchat: cfg.SnapchatBase,
	}

	all := make(Profiles, len(model.Platforms))
	list := make([]*model.PlatformProfile, 0, len(model.Platforms))
	for _, platform := range model.Platforms {
		p := &model.PlatformProfile{
			Platform:         platform,
			Confidence:       cfg.Confidence,
			ExploratoryScore: round2(boost[platform]),
			FinalScore:       round2(base[platform] + boost[platform]),
			Synthesized:      true,
		}
		all[platform] = p
		list = append(list, p)
	}

	sortProfiles(list)

	entries := make([]model.PlatformRanking, len(list))
	for i, p := range list {
		reason := ReasonDiversify
		if p.ExploratoryScore > 0 {
			reason = ReasonJobTypeMatch
		}
		entries[i] = model.PlatformRanking{
			Platform:   p.Platform,
			Score:      p.FinalScore,
			Confidence: p.Confidence,
			Reasons:    []string{reason},
		}
	}

	return Ranking{Best: list[0].Platform, Entries: entries, Profiles: all}
}
