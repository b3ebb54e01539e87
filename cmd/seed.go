package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ad-recommender/internal/model"
	"github.com/sells-group/ad-recommender/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load job postings, campaigns and insights from a YAML fixture",
	Long: `Load historical data from a YAML fixture into the configured store.
The schema is created first if needed. Job postings and campaigns are
upserted by id; insights are upserted by campaign and date range, so
running seed again with the same fixture leaves the data unchanged.

Campaigns without an external_id get one derived from their id. Insights reference
their campaign either by campaign_external_id or by campaign_id.

Example fixture:

  job_postings:
    - id: 1
      title: Python Developer
      skills: [Python, SQL]
      employment_type: full-time
  campaigns:
    - id: 10
      job_posting_id: 1
      platform: google
      daily_budget: 1500
  insights:
    - campaign_id: 10
      date_start: "2026-09-01"
      date_stop: "2026-09-07"
      impressions: 12000
      clicks: 240
      spend: 900
      actions: {lead: 9}`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "seed: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		fx, err := parseFixture(f)
		if err != nil {
			return err
		}

		st, err := initStore(ctx, "store")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "seed: migrate")
		}
		return seedStore(ctx, st, fx)
	},
}

func init() {
	seedCmd.Flags().String("file", "", "path to the YAML fixture")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

// fixture is the resolved content of a seed file.
type fixture struct {
	JobPostings []model.JobPosting
	Campaigns   []model.Campaign
	Insights    []model.Insight
}

type fixtureFile struct {
	JobPostings []model.JobPosting `yaml:"job_postings"`
	Campaigns   []model.Campaign   `yaml:"campaigns"`
	Insights    []fixtureInsight   `yaml:"insights"`
}

type fixtureInsight struct {
	CampaignID         int64            `yaml:"campaign_id"`
	CampaignExternalID string           `yaml:"campaign_external_id"`
	DateStart          string           `yaml:"date_start"`
	DateStop           string           `yaml:"date_stop"`
	Impressions        int64            `yaml:"impressions"`
	Clicks             int64            `yaml:"clicks"`
	Spend              float64          `yaml:"spend"`
	Actions            map[string]int64 `yaml:"actions"`
}

// parseFixture decodes and validates a seed file. It normalizes employment
// types, fills in missing campaign external ids and resolves the campaign
// each insight belongs to.
func parseFixture(r io.Reader) (*fixture, error) {
	var raw fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "seed: decode fixture")
	}

	fx := &fixture{JobPostings: raw.JobPostings, Campaigns: raw.Campaigns}

	jobIDs := make(map[int64]bool, len(fx.JobPostings))
	for i := range fx.JobPostings {
		j := &fx.JobPostings[i]
		if j.ID <= 0 || j.Title == "" {
			return nil, eris.Errorf("seed: job posting %d: id and title are required", i)
		}
		if j.EmploymentType != "" {
			j.EmploymentType = model.ParseEmploymentType(string(j.EmploymentType))
			if !j.EmploymentType.Valid() {
				return nil, eris.Errorf("seed: job posting %d: unknown employment type %q", j.ID, j.EmploymentType)
			}
		}
		jobIDs[j.ID] = true
	}

	externalByID := make(map[int64]string, len(fx.Campaigns))
	for i := range fx.Campaigns {
		c := &fx.Campaigns[i]
		if c.ID <= 0 {
			return nil, eris.Errorf("seed: campaign %d: id is required", i)
		}
		if !c.Platform.Valid() {
			return nil, eris.Errorf("seed: campaign %d: unknown platform %q", c.ID, c.Platform)
		}
		if !jobIDs[c.JobPostingID] {
			zap.L().Warn("seed: campaign references a job posting not in this fixture",
				zap.Int64("campaign_id", c.ID),
				zap.Int64("job_posting_id", c.JobPostingID),
			)
		}
		if c.ExternalID == "" {
			c.ExternalID = campaignExternalID(c.ID)
		}
		externalByID[c.ID] = c.ExternalID
	}

	for i, in := range raw.Insights {
		ext := in.CampaignExternalID
		if ext == "" {
			var ok bool
			if ext, ok = externalByID[in.CampaignID]; !ok {
				return nil, eris.Errorf("seed: insight %d: unknown campaign_id %d", i, in.CampaignID)
			}
		}
		start, err := parseDate(in.DateStart)
		if err != nil {
			return nil, eris.Wrapf(err, "seed: insight %d: date_start", i)
		}
		stop := start
		if in.DateStop != "" {
			if stop, err = parseDate(in.DateStop); err != nil {
				return nil, eris.Wrapf(err, "seed: insight %d: date_stop", i)
			}
		}
		fx.Insights = append(fx.Insights, model.Insight{
			CampaignExternalID: ext,
			DateStart:          start,
			DateStop:           stop,
			Impressions:        in.Impressions,
			Clicks:             in.Clicks,
			Spend:              in.Spend,
			Actions:            in.Actions,
		})
	}

	return fx, nil
}

// campaignExternalID derives a stable external id from a campaign id so that
// reseeding the same fixture keeps campaign and insight keys unchanged.
func campaignExternalID(id int64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("campaign:%d", id))).String()
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// seedStore writes fx in dependency order.
func seedStore(ctx context.Context, w store.Writer, fx *fixture) error {
	jobs, err := w.UpsertJobPostings(ctx, fx.JobPostings)
	if err != nil {
		return eris.Wrap(err, "seed: job postings")
	}
	campaigns, err := w.UpsertCampaigns(ctx, fx.Campaigns)
	if err != nil {
		return eris.Wrap(err, "seed: campaigns")
	}
	insights, err := w.UpsertInsights(ctx, fx.Insights)
	if err != nil {
		return eris.Wrap(err, "seed: insights")
	}

	zap.L().Info("seed complete",
		zap.Int64("job_postings", jobs),
		zap.Int64("campaigns", campaigns),
		zap.Int64("insights", insights),
	)
	return nil
}
