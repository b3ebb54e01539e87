package recommend

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-recommender/internal/config"
)

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	weights := []struct {
		name string
		val  float64
	}{
		{"similarity.title_weight", c.Similarity.TitleWeight},
		{"similarity.skill_weight", c.Similarity.SkillWeight},
		{"similarity.segment_weight", c.Similarity.SegmentWeight},
		{"similarity.location_bonus", c.Similarity.LocationBonus},
		{"similarity.employment_bonus", c.Similarity.EmploymentBonus},
		{"blend.ctr_weight", c.Blend.CTRWeight},
		{"blend.conversion_weight", c.Blend.ConversionWeight},
		{"blend.cpc_weight", c.Blend.CPCWeight},
		{"blend.impressions_weight", c.Blend.ImpressionsWeight},
		{"blend.exploratory_scale", c.Blend.ExploratoryScale},
		{"exploratory.underutilization_bonus", c.Exploratory.UnderutilizationBonus},
		{"cold_start.keyword_points", c.ColdStart.KeywordPoints},
	}
	for _, w := range weights {
		if w.val < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", w.name))
		}
	}

	if c.Similarity.MaxResults <= 0 {
		errs = append(errs, "similarity.max_results must be > 0")
	}
	if c.Aggregation.WindowDays <= 0 {
		errs = append(errs, "aggregation.window_days must be > 0")
	}
	if c.Aggregation.TopValues <= 0 {
		errs = append(errs, "aggregation.top_values must be > 0")
	}
	if c.Blend.ExploratoryFactor < 0 || c.Blend.ExploratoryFactor > 1 {
		errs = append(errs, "blend.exploratory_factor must be between 0 and 1")
	}
	if c.Blend.CampaignSaturation <= 0 {
		errs = append(errs, "blend.campaign_saturation must be > 0")
	}
	if c.Blend.ImpressionsUnit <= 0 {
		errs = append(errs, "blend.impressions_unit must be > 0")
	}

	// Budget defaults.
	if c.Budget.Min < 0 {
		errs = append(errs, "budget.min must be >= 0")
	}
	if c.Budget.Min > c.Budget.Recommended || c.Budget.Recommended > c.Budget.Max {
		errs = append(errs, "budget defaults must satisfy min <= recommended <= max")
	}
	if c.Budget.MinRatio < 0 || c.Budget.MinRatio > 1 {
		errs = append(errs, "budget.min_ratio must be between 0 and 1")
	}
	if c.Budget.MaxRatio < 1 {
		errs = append(errs, "budget.max_ratio must be >= 1")
	}

	// Age ranges.
	ages := []struct {
		name string
		r    config.AgeRange
	}{
		{"targeting.internship_ages", c.Targeting.InternshipAges},
		{"targeting.standard_ages", c.Targeting.StandardAges},
		{"targeting.other_ages", c.Targeting.OtherAges},
	}
	for _, a := range ages {
		if a.r.Min <= 0 || a.r.Max < a.r.Min {
			errs = append(errs, fmt.Sprintf("%s must satisfy 0 < min <= max", a.name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("recommend: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
