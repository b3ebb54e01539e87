package recommend

import (
	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/model"
)

// Suggest derives audience-targeting hints from a posting's skills, title,
// education level and employment type.
func Suggest(job model.JobPosting, cfg config.TargetingConfig, kw config.KeywordConfig) model.Targeting {
	t := model.Targeting{
		Interests:       []string{},
		JobTitles:       []string{},
		EducationLevels: []string{},
	}

	for _, skill := range job.Skills {
		for _, rule := range cfg.Interests {
			if containsAny(skill, rule.Keywords) {
				t.Interests = append(t.Interests, rule.Category)
			}
		}
	}
	t.Interests = dedupe(t.Interests)

	for _, rule := range cfg.Titles {
		if containsAny(job.Title, rule.Keywords) {
			t.JobTitles = append(t.JobTitles, rule.Titles...)
		}
	}
	t.JobTitles = dedupe(t.JobTitles)

	switch {
	case job.EducationLevel != "":
		t.EducationLevels = append(t.EducationLevels, string(job.EducationLevel))
	case cfg.InferredEducation != "" && containsAny(job.Title, kw.Seniority):
		t.EducationLevels = append(t.EducationLevels, cfg.InferredEducation)
	}

	ages := cfg.OtherAges
	switch job.EmploymentType {
	case model.EmploymentInternship:
		ages = cfg.InternshipAges
	case model.EmploymentFullTime, model.EmploymentPartTime:
		ages = cfg.StandardAges
	}
	t.Demographics = model.Demographics{AgeMin: ages.Min, AgeMax: ages.Max}

	return t
}
