package model

import "strings"

// EmploymentType is the contract type of a job posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentTemporary  EmploymentType = "temporary"
	EmploymentInternship EmploymentType = "internship"
)

// Valid reports whether t is one of the known employment types.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract,
		EmploymentTemporary, EmploymentInternship:
		return true
	}
	return false
}

// ParseEmploymentType normalizes free-form input ("Full-Time", "part time")
// into an EmploymentType. Unknown values are returned as-is.
func ParseEmploymentType(s string) EmploymentType {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	return EmploymentType(norm)
}

// EducationLevel is a free-form required education level.
// The empty value means the posting does not state one.
type EducationLevel string

// JobPosting is a job offer to be advertised. Read-only to the engine.
type JobPosting struct {
	ID             int64          `json:"id" yaml:"id"`
	Title          string         `json:"title" yaml:"title"`
	Description    string         `json:"description,omitempty" yaml:"description"`
	Skills         []string       `json:"skills,omitempty" yaml:"skills"`
	TargetSegments []int          `json:"target_segments,omitempty" yaml:"target_segments"`
	Location       string         `json:"location,omitempty" yaml:"location"`
	EmploymentType EmploymentType `json:"employment_type,omitempty" yaml:"employment_type"`
	EducationLevel EducationLevel `json:"education_level,omitempty" yaml:"education_level"`
}
