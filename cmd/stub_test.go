package main

import (
	"context"
	"sync"

	"github.com/sells-group/ad-recommender/internal/model"
)

// stubRecommender answers from a fixed table. Unknown ids get a default
// recommendation; ids in errs fail with the mapped error.
type stubRecommender struct {
	mu    sync.Mutex
	errs  map[int64]error
	calls []int64
}

func (s *stubRecommender) Recommend(_ context.Context, jobID int64) (*model.Recommendation, error) {
	s.mu.Lock()
	s.calls = append(s.calls, jobID)
	s.mu.Unlock()

	if err, ok := s.errs[jobID]; ok {
		return nil, err
	}
	return sampleRecommendation(jobID), nil
}

func sampleRecommendation(jobID int64) *model.Recommendation {
	return &model.Recommendation{
		JobPostingID: jobID,
		BestPlatform: model.PlatformMeta,
		Ranking: []model.PlatformRanking{
			{Platform: model.PlatformMeta, Score: 81.5, Confidence: 76, Reasons: []string{"high click-through rate"}},
			{Platform: model.PlatformGoogle, Score: 50, Confidence: 50, Reasons: []string{}},
		},
		Budget: model.BudgetRange{Min: 1200, Recommended: 1600, Max: 2400, IsBasedOnData: true},
		Targeting: model.Targeting{
			Interests:       []string{"design"},
			JobTitles:       []string{"Graphic Designer"},
			EducationLevels: []string{},
			Demographics:    model.Demographics{AgeMin: 22, AgeMax: 45},
		},
		SuggestedConfig:   model.PlatformConfig{TargetSegments: []int{3}, Objective: "LEAD_GENERATION"},
		ConfidenceScore:   76,
		BasedOnHistorical: true,
		SimilarJobCount:   2,
	}
}
