package model

// PlatformProfile is the per-invocation performance summary of one platform.
// It is never persisted.
type PlatformProfile struct {
	Platform         Platform `json:"platform"`
	CampaignCount    int      `json:"campaign_count"`
	Spend            float64  `json:"spend"`
	Impressions      int64    `json:"impressions"`
	Clicks           int64    `json:"clicks"`
	Conversions      int64    `json:"conversions"`
	CTR              float64  `json:"ctr"`
	CPC              float64  `json:"cpc"`
	ConversionRate   float64  `json:"conversion_rate"`
	AvgDailyBudget   float64  `json:"avg_daily_budget"`
	TopSegments      []int    `json:"top_segments,omitempty"`
	TopObjectives    []string `json:"top_objectives,omitempty"`
	Confidence       float64  `json:"confidence"`
	ExploratoryScore float64  `json:"exploratory_score"`
	PerformanceScore float64  `json:"performance_score"`
	FinalScore       float64  `json:"final_score"`

	// Synthesized marks a zero-performance placeholder for a platform with
	// no historical campaigns.
	Synthesized bool `json:"synthesized,omitempty"`
}

// PlatformRanking is one entry of the ordered platform ranking.
type PlatformRanking struct {
	Platform   Platform `json:"platform"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// BudgetRange is a recommended daily budget in minor currency units.
type BudgetRange struct {
	Min           int64 `json:"min"`
	Recommended   int64 `json:"recommended"`
	Max           int64 `json:"max"`
	IsBasedOnData bool  `json:"is_based_on_data"`
}

// Demographics is a suggested audience age range.
type Demographics struct {
	AgeMin int `json:"age_min"`
	AgeMax int `json:"age_max"`
}

// Targeting bundles audience-targeting hints for a posting.
type Targeting struct {
	Interests       []string     `json:"interests"`
	JobTitles       []string     `json:"job_titles"`
	EducationLevels []string     `json:"education_levels"`
	Demographics    Demographics `json:"demographics"`
}

// PlatformConfig seeds campaign settings from recurring historical values.
type PlatformConfig struct {
	TargetSegments []int  `json:"target_segments,omitempty"`
	Objective      string `json:"objective,omitempty"`
}

// Recommendation is the engine's answer for a single job posting.
type Recommendation struct {
	JobPostingID      int64             `json:"job_posting_id"`
	BestPlatform      Platform          `json:"best_platform"`
	Ranking           []PlatformRanking `json:"ranking"`
	Budget            BudgetRange       `json:"budget"`
	Targeting         Targeting         `json:"targeting"`
	SuggestedConfig   PlatformConfig    `json:"suggested_config"`
	ConfidenceScore   float64           `json:"confidence_score"`
	BasedOnHistorical bool              `json:"based_on_historical"`
	SimilarJobCount   int               `json:"similar_job_count"`
}
