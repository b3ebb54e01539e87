package model

import "time"

// Platform identifies an advertising network.
type Platform string

const (
	PlatformMeta     Platform = "meta"
	PlatformGoogle   Platform = "google"
	PlatformTikTok   Platform = "tiktok"
	PlatformSnapchat Platform = "snapchat"
)

// Platforms lists every supported platform in declaration order.
// Ranking ties are broken by position in this slice.
var Platforms = []Platform{PlatformMeta, PlatformGoogle, PlatformTikTok, PlatformSnapchat}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	return p.Index() >= 0
}

// Index returns the declaration position of p, or -1 if unsupported.
func (p Platform) Index() int {
	for i, q := range Platforms {
		if q == p {
			return i
		}
	}
	return -1
}

// Campaign is a historical ad campaign run for a job posting.
type Campaign struct {
	ID             int64    `json:"id" yaml:"id"`
	ExternalID     string   `json:"external_id" yaml:"external_id"`
	JobPostingID   int64    `json:"job_posting_id" yaml:"job_posting_id"`
	Platform       Platform `json:"platform" yaml:"platform"`
	DailyBudget    int64    `json:"daily_budget" yaml:"daily_budget"` // minor currency units
	TargetSegments []int    `json:"target_segments,omitempty" yaml:"target_segments"`
	Objective      string   `json:"objective,omitempty" yaml:"objective"`
}

// Insight is a performance snapshot for one campaign over a date range.
type Insight struct {
	CampaignExternalID string           `json:"campaign_external_id" yaml:"campaign_external_id"`
	DateStart          time.Time        `json:"date_start" yaml:"date_start"`
	DateStop           time.Time        `json:"date_stop" yaml:"date_stop"`
	Impressions        int64            `json:"impressions" yaml:"impressions"`
	Clicks             int64            `json:"clicks" yaml:"clicks"`
	Spend              float64          `json:"spend" yaml:"spend"` // minor currency units
	Actions            map[string]int64 `json:"actions,omitempty" yaml:"actions"`
}

// Conversions sums the given action types. Missing types count as zero.
func (in Insight) Conversions(actionTypes []string) int64 {
	var total int64
	for _, t := range actionTypes {
		total += in.Actions[t]
	}
	return total
}
