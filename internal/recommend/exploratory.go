package recommend

import (
	"math"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// keywordHits counts the matching keywords per title bucket.
type keywordHits struct {
	Technical int
	Creative  int
	Junior    int
	Executive int
}

func matchBuckets(title string, kw config.KeywordConfig) keywordHits {
	return keywordHits{
		Technical: countKeywords(title, kw.Technical),
		Creative:  countKeywords(title, kw.Creative),
		Junior:    countKeywords(title, kw.Junior),
		Executive: countKeywords(title, kw.Executive),
	}
}

// ScoreAll returns the additive keyword score of every supported platform.
// campaignCounts feeds the underutilization bonus and may be empty, in which
// case the bonus is omitted. Scores are not normalized.
func ScoreAll(job model.JobPosting, campaignCounts map[model.Platform]int, kw config.KeywordConfig, cfg config.ExploratoryConfig) map[model.Platform]float64 {
	hits := matchBuckets(job.Title, kw)
	scores := make(map[model.Platform]float64, len(model.Platforms))
	for _, p := range model.Platforms {
		scores[p] = 0
	}

	if hits.Technical > 0 {
		scores[model.PlatformGoogle] += cfg.GoogleTechnical
	}
	if hits.Creative > 0 {
		scores[model.PlatformMeta] += cfg.MetaCreative
		scores[model.PlatformTikTok] += cfg.TikTokCreative
	}
	if hits.Executive > 0 {
		scores[model.PlatformMeta] += cfg.MetaExecutive
	}
	if hits.Junior > 0 {
		scores[model.PlatformTikTok] += cfg.TikTokJunior
		scores[model.PlatformSnapchat] += cfg.SnapchatJunior
	}

	total := 0
	for _, n := range campaignCounts {
		total += n
	}
	if total > 0 {
		for _, p := range model.Platforms {
			share := float64(campaignCounts[p]) / float64(total)
			scores[p] += math.Round(cfg.UnderutilizationBonus * (1 - share))
		}
	}
	return scores
}
