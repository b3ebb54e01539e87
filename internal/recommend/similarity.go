package recommend

import (
	"sort"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// SimilarJob is a historical posting together with its similarity score.
type SimilarJob struct {
	Job   model.JobPosting
	Score float64
}

// FindSimilar scores every candidate against job and returns those scoring
// above cfg.MinScore, best first, at most cfg.MaxResults. Candidates are
// expected to already have at least one campaign. An empty result is not an
// error; it selects the cold-start path downstream.
func FindSimilar(job model.JobPosting, candidates []model.JobPosting, cfg config.SimilarityConfig) []SimilarJob {
	var matches []SimilarJob
	for _, c := range candidates {
		if c.ID == job.ID {
			continue
		}
		score := similarityScore(job, c, cfg)
		if score > cfg.MinScore {
			matches = append(matches, SimilarJob{Job: c, Score: score})
		}
	}

	// Stable so equal scores keep the store's candidate order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if cfg.MaxResults > 0 && len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}
	return matches
}

// similarityScore is the weighted attribute overlap between two postings.
func similarityScore(a, b model.JobPosting, cfg config.SimilarityConfig) float64 {
	score := overlap(words(a.Title), words(b.Title)) * cfg.TitleWeight

	// Skills only count when both postings list some.
	if len(a.Skills) > 0 && len(b.Skills) > 0 {
		score += overlap(normalizeAll(a.Skills), normalizeAll(b.Skills)) * cfg.SkillWeight
	}

	score += overlap(a.TargetSegments, b.TargetSegments) * cfg.SegmentWeight

	if la, lb := normalize(a.Location), normalize(b.Location); la != "" && la == lb {
		score += cfg.LocationBonus
	}
	if a.EmploymentType != "" && a.EmploymentType == b.EmploymentType {
		score += cfg.EmploymentBonus
	}
	return score
}

// overlap returns |common| / max(|a|, |b|) over the distinct values of a and b.
func overlap[T comparable](a, b []T) float64 {
	a, b = dedupe(a), dedupe(b)
	denom := max(len(a), len(b))
	if denom == 0 {
		return 0
	}

	set := make(map[T]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	common := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			common++
		}
	}
	return float64(common) / float64(denom)
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func jobIDs(similar []SimilarJob) []int64 {
	ids := make([]int64, len(similar))
	for i, s := range similar {
		ids[i] = s.Job.ID
	}
	return ids
}
