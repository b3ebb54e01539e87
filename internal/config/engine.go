package config

// EngineConfig holds every constant used by the recommendation engine.
// None of these values are learned; they are tunable by configuration only.
type EngineConfig struct {
	Similarity  SimilarityConfig  `yaml:"similarity" mapstructure:"similarity"`
	Aggregation AggregationConfig `yaml:"aggregation" mapstructure:"aggregation"`
	Keywords    KeywordConfig     `yaml:"keywords" mapstructure:"keywords"`
	Exploratory ExploratoryConfig `yaml:"exploratory" mapstructure:"exploratory"`
	Blend       BlendConfig       `yaml:"blend" mapstructure:"blend"`
	ColdStart   ColdStartConfig   `yaml:"cold_start" mapstructure:"cold_start"`
	Budget      BudgetConfig      `yaml:"budget" mapstructure:"budget"`
	Targeting   TargetingConfig   `yaml:"targeting" mapstructure:"targeting"`
}

// SimilarityConfig weights the signals used to match historical postings.
type SimilarityConfig struct {
	TitleWeight     float64 `yaml:"title_weight" mapstructure:"title_weight"`
	SkillWeight     float64 `yaml:"skill_weight" mapstructure:"skill_weight"`
	SegmentWeight   float64 `yaml:"segment_weight" mapstructure:"segment_weight"`
	LocationBonus   float64 `yaml:"location_bonus" mapstructure:"location_bonus"`
	EmploymentBonus float64 `yaml:"employment_bonus" mapstructure:"employment_bonus"`
	MinScore        float64 `yaml:"min_score" mapstructure:"min_score"` // exclusive
	MaxResults      int     `yaml:"max_results" mapstructure:"max_results"`
}

// AggregationConfig controls how insights are rolled up per platform.
type AggregationConfig struct {
	WindowDays            int      `yaml:"window_days" mapstructure:"window_days"`
	ConversionActions     []string `yaml:"conversion_actions" mapstructure:"conversion_actions"`
	BaseConfidence        float64  `yaml:"base_confidence" mapstructure:"base_confidence"`
	ConfidencePerCampaign float64  `yaml:"confidence_per_campaign" mapstructure:"confidence_per_campaign"`
	MaxConfidence         float64  `yaml:"max_confidence" mapstructure:"max_confidence"`
	TopValues             int      `yaml:"top_values" mapstructure:"top_values"`
}

// KeywordConfig holds the title keyword buckets. Matching is case- and
// accent-insensitive substring matching.
type KeywordConfig struct {
	Technical []string `yaml:"technical" mapstructure:"technical"`
	Creative  []string `yaml:"creative" mapstructure:"creative"`
	Junior    []string `yaml:"junior" mapstructure:"junior"`
	Executive []string `yaml:"executive" mapstructure:"executive"`
	Seniority []string `yaml:"seniority" mapstructure:"seniority"`
}

// ExploratoryConfig holds the additive keyword bonuses used alongside history.
type ExploratoryConfig struct {
	GoogleTechnical       float64 `yaml:"google_technical" mapstructure:"google_technical"`
	MetaCreative          float64 `yaml:"meta_creative" mapstructure:"meta_creative"`
	MetaExecutive         float64 `yaml:"meta_executive" mapstructure:"meta_executive"`
	TikTokCreative        float64 `yaml:"tiktok_creative" mapstructure:"tiktok_creative"`
	TikTokJunior          float64 `yaml:"tiktok_junior" mapstructure:"tiktok_junior"`
	SnapchatJunior        float64 `yaml:"snapchat_junior" mapstructure:"snapchat_junior"`
	UnderutilizationBonus float64 `yaml:"underutilization_bonus" mapstructure:"underutilization_bonus"`
}

// BlendConfig holds the weights combining performance and exploratory scores.
type BlendConfig struct {
	CTRWeight             float64 `yaml:"ctr_weight" mapstructure:"ctr_weight"`
	ConversionWeight      float64 `yaml:"conversion_weight" mapstructure:"conversion_weight"`
	CPCWeight             float64 `yaml:"cpc_weight" mapstructure:"cpc_weight"`
	ImpressionsWeight     float64 `yaml:"impressions_weight" mapstructure:"impressions_weight"`
	CTRMultiplier         float64 `yaml:"ctr_multiplier" mapstructure:"ctr_multiplier"`
	ConversionMultiplier  float64 `yaml:"conversion_multiplier" mapstructure:"conversion_multiplier"`
	CPCMultiplier         float64 `yaml:"cpc_multiplier" mapstructure:"cpc_multiplier"`
	ImpressionsMultiplier float64 `yaml:"impressions_multiplier" mapstructure:"impressions_multiplier"`
	ImpressionsUnit       float64 `yaml:"impressions_unit" mapstructure:"impressions_unit"`
	ImpressionsCap        float64 `yaml:"impressions_cap" mapstructure:"impressions_cap"`
	CampaignSaturation    float64 `yaml:"campaign_saturation" mapstructure:"campaign_saturation"`
	ExploratoryFactor     float64 `yaml:"exploratory_factor" mapstructure:"exploratory_factor"`
	ExploratoryScale      float64 `yaml:"exploratory_scale" mapstructure:"exploratory_scale"`
	DefaultConfidence     float64 `yaml:"default_confidence" mapstructure:"default_confidence"`
	DefaultDailyBudget    float64 `yaml:"default_daily_budget" mapstructure:"default_daily_budget"`

	// Reason thresholds.
	HighCTR              float64 `yaml:"high_ctr" mapstructure:"high_ctr"`
	StrongConversionRate float64 `yaml:"strong_conversion_rate" mapstructure:"strong_conversion_rate"`
	LowCPC               float64 `yaml:"low_cpc" mapstructure:"low_cpc"`
	JobTypeMatch         float64 `yaml:"job_type_match" mapstructure:"job_type_match"`
}

// ColdStartConfig holds the pure keyword model used without history.
type ColdStartConfig struct {
	Confidence       float64 `yaml:"confidence" mapstructure:"confidence"`
	KeywordPoints    float64 `yaml:"keyword_points" mapstructure:"keyword_points"`
	MetaBase         float64 `yaml:"meta_base" mapstructure:"meta_base"`
	MetaCreative     float64 `yaml:"meta_creative" mapstructure:"meta_creative"`
	MetaExecutive    float64 `yaml:"meta_executive" mapstructure:"meta_executive"`
	GoogleBase       float64 `yaml:"google_base" mapstructure:"google_base"`
	GoogleTechnical  float64 `yaml:"google_technical" mapstructure:"google_technical"`
	GoogleExecutive  float64 `yaml:"google_executive" mapstructure:"google_executive"`
	TikTokBase       float64 `yaml:"tiktok_base" mapstructure:"tiktok_base"`
	TikTokCreative   float64 `yaml:"tiktok_creative" mapstructure:"tiktok_creative"`
	TikTokJunior     float64 `yaml:"tiktok_junior" mapstructure:"tiktok_junior"`
	SnapchatBase     float64 `yaml:"snapchat_base" mapstructure:"snapchat_base"`
	SnapchatJunior   float64 `yaml:"snapchat_junior" mapstructure:"snapchat_junior"`
	SnapchatCreative float64 `yaml:"snapchat_creative" mapstructure:"snapchat_creative"`
}

// BudgetConfig holds the daily budget defaults, in minor currency units.
type BudgetConfig struct {
	Min         int64   `yaml:"min" mapstructure:"min"`
	Recommended int64   `yaml:"recommended" mapstructure:"recommended"`
	Max         int64   `yaml:"max" mapstructure:"max"`
	MinRatio    float64 `yaml:"min_ratio" mapstructure:"min_ratio"`
	MaxRatio    float64 `yaml:"max_ratio" mapstructure:"max_ratio"`
}

// InterestRule maps skill substrings to an audience interest category.
type InterestRule struct {
	Category string   `yaml:"category" mapstructure:"category"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// TitleRule maps title substrings to canonical job title synonyms.
type TitleRule struct {
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
	Titles   []string `yaml:"titles" mapstructure:"titles"`
}

// AgeRange is an inclusive audience age range.
type AgeRange struct {
	Min int `yaml:"min" mapstructure:"min"`
	Max int `yaml:"max" mapstructure:"max"`
}

// TargetingConfig drives audience-targeting suggestions.
type TargetingConfig struct {
	Interests         []InterestRule `yaml:"interests" mapstructure:"interests"`
	Titles            []TitleRule    `yaml:"titles" mapstructure:"titles"`
	InferredEducation string         `yaml:"inferred_education" mapstructure:"inferred_education"`
	InternshipAges    AgeRange       `yaml:"internship_ages" mapstructure:"internship_ages"`
	StandardAges      AgeRange       `yaml:"standard_ages" mapstructure:"standard_ages"`
	OtherAges         AgeRange       `yaml:"other_ages" mapstructure:"other_ages"`
}

// DefaultEngineConfig returns the engine constants. The blend weights and
// multipliers are empirical and kept as-is for behavioral compatibility.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Similarity: SimilarityConfig{
			TitleWeight:     0.4,
			SkillWeight:     0.4,
			SegmentWeight:   0.2,
			LocationBonus:   0.1,
			EmploymentBonus: 0.1,
			MinScore:        0.2,
			MaxResults:      8,
		},
		Aggregation: AggregationConfig{
			WindowDays:            120,
			ConversionActions:     []string{"lead", "complete_registration", "submit_application"},
			BaseConfidence:        60,
			ConfidencePerCampaign: 8,
			MaxConfidence:         100,
			TopValues:             3,
		},
		Keywords: KeywordConfig{
			Technical: []string{
				"developer", "engineer", "programmer", "software", "python",
				"java", "devops", "backend", "frontend", "data",
				"desarrollador", "programador", "ingeniero",
			},
			Creative: []string{
				"design", "creative", "artist", "video", "content", "copywriter",
				"photographer", "social media", "diseño", "diseñador", "creativo",
			},
			Junior: []string{
				"junior", "intern", "trainee", "assistant", "entry level",
				"graduate", "becario", "practicante", "auxiliar",
			},
			Executive: []string{
				"senior", "director", "manager", "head of", "chief", "executive",
				"vp", "gerente", "jefe", "ejecutivo",
			},
			Seniority: []string{
				"senior", "lead", "manager", "director", "head", "chief",
				"gerente", "jefe",
			},
		},
		Exploratory: ExploratoryConfig{
			GoogleTechnical:       30,
			MetaCreative:          25,
			MetaExecutive:         25,
			TikTokCreative:        35,
			TikTokJunior:          30,
			SnapchatJunior:        30,
			UnderutilizationBonus: 30,
		},
		Blend: BlendConfig{
			CTRWeight:             0.45,
			ConversionWeight:      0.45,
			CPCWeight:             0.05,
			ImpressionsWeight:     0.05,
			CTRMultiplier:         5,
			ConversionMultiplier:  5,
			CPCMultiplier:         10,
			ImpressionsMultiplier: 0.1,
			ImpressionsUnit:       1000,
			ImpressionsCap:        100,
			CampaignSaturation:    5,
			ExploratoryFactor:     0.7,
			ExploratoryScale:      2,
			DefaultConfidence:     50,
			DefaultDailyBudget:    1500,
			HighCTR:               1.5,
			StrongConversionRate:  5,
			LowCPC:                10,
			JobTypeMatch:          20,
		},
		ColdStart: ColdStartConfig{
			Confidence:       60,
			KeywordPoints:    10,
			MetaBase:         70,
			MetaCreative:     0.5,
			MetaExecutive:    0.5,
			GoogleBase:       60,
			GoogleTechnical:  0.7,
			GoogleExecutive:  0.3,
			TikTokBase:       50,
			TikTokCreative:   0.7,
			TikTokJunior:     0.5,
			SnapchatBase:     40,
			SnapchatJunior:   0.7,
			SnapchatCreative: 0.3,
		},
		Budget: BudgetConfig{
			Min:         500,
			Recommended: 1500,
			Max:         5000,
			MinRatio:    0.7,
			MaxRatio:    1.5,
		},
		Targeting: TargetingConfig{
			Interests: []InterestRule{
				{Category: "Programming/Tech", Keywords: []string{
					"python", "java", "sql", "programming", "software", "react",
					"node", "golang", "c++", "c#", "programación",
				}},
				{Category: "Graphic/UX Design", Keywords: []string{
					"design", "photoshop", "illustrator", "figma", "sketch", "ux", "diseño",
				}},
				{Category: "Sales/Business", Keywords: []string{
					"sales", "negotiation", "business", "crm", "ventas", "negociación",
				}},
				{Category: "Digital Marketing", Keywords: []string{
					"marketing", "seo", "sem", "social media", "google ads", "analytics",
				}},
			},
			Titles: []TitleRule{
				{
					Keywords: []string{"developer", "programmer", "engineer", "desarrollador", "programador"},
					Titles:   []string{"Software Developer", "Software Engineer", "Programmer", "Web Developer"},
				},
				{
					Keywords: []string{"designer", "diseñador"},
					Titles:   []string{"Graphic Designer", "UX Designer", "Visual Designer"},
				},
				{
					Keywords: []string{"sales", "ventas", "account executive", "vendedor"},
					Titles:   []string{"Sales Representative", "Account Executive", "Sales Manager"},
				},
			},
			InferredEducation: "Bachelor's Degree",
			InternshipAges:    AgeRange{Min: 18, Max: 30},
			StandardAges:      AgeRange{Min: 22, Max: 55},
			OtherAges:         AgeRange{Min: 22, Max: 65},
		},
	}
}

// engineDefaults flattens an EngineConfig into viper keys relative to "engine".
func engineDefaults(d EngineConfig) map[string]any {
	return map[string]any{
		"similarity.title_weight":     d.Similarity.TitleWeight,
		"similarity.skill_weight":     d.Similarity.SkillWeight,
		"similarity.segment_weight":   d.Similarity.SegmentWeight,
		"similarity.location_bonus":   d.Similarity.LocationBonus,
		"similarity.employment_bonus": d.Similarity.EmploymentBonus,
		"similarity.min_score":        d.Similarity.MinScore,
		"similarity.max_results":      d.Similarity.MaxResults,

		"aggregation.window_days":             d.Aggregation.WindowDays,
		"aggregation.conversion_actions":      d.Aggregation.ConversionActions,
		"aggregation.base_confidence":         d.Aggregation.BaseConfidence,
		"aggregation.confidence_per_campaign": d.Aggregation.ConfidencePerCampaign,
		"aggregation.max_confidence":          d.Aggregation.MaxConfidence,
		"aggregation.top_values":              d.Aggregation.TopValues,

		"keywords.technical": d.Keywords.Technical,
		"keywords.creative":  d.Keywords.Creative,
		"keywords.junior":    d.Keywords.Junior,
		"keywords.executive": d.Keywords.Executive,
		"keywords.seniority": d.Keywords.Seniority,

		"exploratory.google_technical":       d.Exploratory.GoogleTechnical,
		"exploratory.meta_creative":          d.Exploratory.MetaCreative,
		"exploratory.meta_executive":         d.Exploratory.MetaExecutive,
		"exploratory.tiktok_creative":        d.Exploratory.TikTokCreative,
		"exploratory.tiktok_junior":          d.Exploratory.TikTokJunior,
		"exploratory.snapchat_junior":        d.Exploratory.SnapchatJunior,
		"exploratory.underutilization_bonus": d.Exploratory.UnderutilizationBonus,

		"blend.ctr_weight":             d.Blend.CTRWeight,
		"blend.conversion_weight":      d.Blend.ConversionWeight,
		"blend.cpc_weight":             d.Blend.CPCWeight,
		"blend.impressions_weight":     d.Blend.ImpressionsWeight,
		"blend.ctr_multiplier":         d.Blend.CTRMultiplier,
		"blend.conversion_multiplier":  d.Blend.ConversionMultiplier,
		"blend.cpc_multiplier":         d.Blend.CPCMultiplier,
		"blend.impressions_multiplier": d.Blend.ImpressionsMultiplier,
		"blend.impressions_unit":       d.Blend.ImpressionsUnit,
		"blend.impressions_cap":        d.Blend.ImpressionsCap,
		"blend.campaign_saturation":    d.Blend.CampaignSaturation,
		"blend.exploratory_factor":     d.Blend.ExploratoryFactor,
		"blend.exploratory_scale":      d.Blend.ExploratoryScale,
		"blend.default_confidence":     d.Blend.DefaultConfidence,
		"blend.default_daily_budget":   d.Blend.DefaultDailyBudget,
		"blend.high_ctr":               d.Blend.HighCTR,
		"blend.strong_conversion_rate": d.Blend.StrongConversionRate,
		"blend.low_cpc":                d.Blend.LowCPC,
		"blend.job_type_match":         d.Blend.JobTypeMatch,

		"cold_start.confidence":        d.ColdStart.Confidence,
		"cold_start.keyword_points":    d.ColdStart.KeywordPoints,
		"cold_start.meta_base":         d.ColdStart.MetaBase,
		"cold_start.meta_creative":     d.ColdStart.MetaCreative,
		"cold_start.meta_executive":    d.ColdStart.MetaExecutive,
		"cold_start.google_base":       d.ColdStart.GoogleBase,
		"cold_start.google_technical":  d.ColdStart.GoogleTechnical,
		"cold_start.google_executive":  d.ColdStart.GoogleExecutive,
		"cold_start.tiktok_base":       d.ColdStart.TikTokBase,
		"cold_start.tiktok_creative":   d.ColdStart.TikTokCreative,
		"cold_start.tiktok_junior":     d.ColdStart.TikTokJunior,
		"cold_start.snapchat_base":     d.ColdStart.SnapchatBase,
		"cold_start.snapchat_junior":   d.ColdStart.SnapchatJunior,
		"cold_start.snapchat_creative": d.ColdStart.SnapchatCreative,

		"budget.min":         d.Budget.Min,
		"budget.recommended": d.Budget.Recommended,
		"budget.max":         d.Budget.Max,
		"budget.min_ratio":   d.Budget.MinRatio,
		"budget.max_ratio":   d.Budget.MaxRatio,

		"targeting.interests":           d.Targeting.Interests,
		"targeting.titles":              d.Targeting.Titles,
		"targeting.inferred_education":  d.Targeting.InferredEducation,
		"targeting.internship_ages.min": d.Targeting.InternshipAges.Min,
		"targeting.internship_ages.max": d.Targeting.InternshipAges.Max,
		"targeting.standard_ages.min":   d.Targeting.StandardAges.Min,
		"targeting.standard_ages.max":   d.Targeting.StandardAges.Max,
		"targeting.other_ages.min":      d.Targeting.OtherAges.Min,
		"targeting.other_ages.max":      d.Targeting.OtherAges.Max,
	}
}
