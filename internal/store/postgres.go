package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-recommender/internal/db"
	"github.com/sells-group/ad-recommender/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	sqlGetJobPosting = `SELECT id, title, description, skills, target_segments, location, employment_type, education_level FROM job_postings WHERE id = $1`

	sqlCandidateJobs = `SELECT jp.id, jp.title, jp.description, jp.skills, jp.target_segments, jp.location, jp.employment_type, jp.education_level FROM job_postings jp WHERE jp.id <> $1 AND EXISTS (SELECT 1 FROM campaigns c WHERE c.job_posting_id = jp.id) ORDER BY jp.id`

	sqlCampaignsForJobs = `SELECT id, external_id, job_posting_id, platform, daily_budget, target_segments, objective FROM campaigns WHERE job_posting_id = ANY($1) ORDER BY id`

	sqlInsightsSince = `SELECT campaign_external_id, date_start, date_stop, impressions, clicks, spend, actions FROM insights WHERE campaign_external_id = ANY($1) AND date_start >= $2 ORDER BY campaign_external_id, date_start, id`
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS job_postings (
	id              BIGINT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	skills          TEXT[] NOT NULL DEFAULT '{}',
	target_segments INTEGER[] NOT NULL DEFAULT '{}',
	location        TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	education_level TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaigns (
	id              BIGINT PRIMARY KEY,
	external_id     TEXT NOT NULL UNIQUE,
	job_posting_id  BIGINT NOT NULL REFERENCES job_postings(id),
	platform        TEXT NOT NULL,
	daily_budget    BIGINT NOT NULL DEFAULT 0,
	target_segments INTEGER[] NOT NULL DEFAULT '{}',
	objective       TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS insights (
	id                   BIGSERIAL PRIMARY KEY,
	campaign_external_id TEXT NOT NULL REFERENCES campaigns(external_id) ON UPDATE CASCADE,
	date_start           DATE NOT NULL,
	date_stop            DATE NOT NULL,
	impressions          BIGINT NOT NULL DEFAULT 0,
	clicks               BIGINT NOT NULL DEFAULT 0,
	spend                DOUBLE PRECISION NOT NULL DEFAULT 0,
	actions              JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_campaigns_job_posting_id ON campaigns(job_posting_id);
CREATE UNIQUE INDEX IF NOT EXISTS uq_insights_campaign_range ON insights(campaign_external_id, date_start, date_stop);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// jobScanner is satisfied by both pgx.Row and pgx.Rows.
type jobScanner interface {
	Scan(dest ...any) error
}

func scanJobPosting(row jobScanner) (*model.JobPosting, error) {
	var j model.JobPosting
	var employment, education string
	if err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Skills, &j.TargetSegments,
		&j.Location, &employment, &education,
	); err != nil {
		return nil, err
	}
	j.EmploymentType = model.EmploymentType(employment)
	j.EducationLevel = model.EducationLevel(education)
	return &j, nil
}

func (s *PostgresStore) FindJobPosting(ctx context.Context, id int64) (*model.JobPosting, error) {
	j, err := scanJobPosting(s.pool.QueryRow(ctx, sqlGetJobPosting, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: job posting %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get job posting %d", id)
	}
	return j, nil
}

func (s *PostgresStore) FindCandidateJobsWithCampaigns(ctx context.Context, excludeID int64) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx, sqlCandidateJobs, excludeID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query candidate jobs")
	}
	defer rows.Close()

	var jobs []model.JobPosting
	for rows.Next() {
		j, err := scanJobPosting(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan candidate job")
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "postgres: iterate candidate jobs")
}

func (s *PostgresStore) FindCampaignsForJobs(ctx context.Context, jobIDs []int64) ([]model.Campaign, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, sqlCampaignsForJobs, jobIDs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query campaigns")
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		var platform string
		if err := rows.Scan(
			&c.ID, &c.ExternalID, &c.JobPostingID, &platform,
			&c.DailyBudget, &c.TargetSegments, &c.Objective,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan campaign")
		}
		c.Platform = model.Platform(platform)
		campaigns = append(campaigns, c)
	}
	return campaigns, eris.Wrap(rows.Err(), "postgres: iterate campaigns")
}

func (s *PostgresStore) FindInsights(ctx context.Context, campaignExternalIDs []string, since time.Time) ([]model.Insight, error) {
	if len(campaignExternalIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, sqlInsightsSince, campaignExternalIDs, since)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query insights")
	}
	defer rows.Close()

	var insights []model.Insight
	for rows.Next() {
		var in model.Insight
		var actionsJSON []byte
		if err := rows.Scan(
			&in.CampaignExternalID, &in.DateStart, &in.DateStop,
			&in.Impressions, &in.Clicks, &in.Spend, &actionsJSON,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan insight")
		}
		if len(actionsJSON) > 0 {
			if err := json.Unmarshal(actionsJSON, &in.Actions); err != nil {
				return nil, eris.Wrapf(err, "postgres: unmarshal actions for %s", in.CampaignExternalID)
			}
		}
		insights = append(insights, in)
	}
	return insights, eris.Wrap(rows.Err(), "postgres: iterate insights")
}

func (s *PostgresStore) UpsertJobPostings(ctx context.Context, jobs []model.JobPosting) (int64, error) {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []any{
			j.ID, j.Title, j.Description, nonNil(j.Skills), nonNilInts(j.TargetSegments),
			j.Location, string(j.EmploymentType), string(j.EducationLevel),
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "job_postings",
		Columns: []string{
			"id", "title", "description", "skills", "target_segments",
			"location", "employment_type", "education_level",
		},
		ConflictKeys: []string{"id"},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert job postings")
}

func (s *PostgresStore) UpsertCampaigns(ctx context.Context, campaigns []model.Campaign) (int64, error) {
	rows := make([][]any, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, []any{
			c.ID, c.ExternalID, c.JobPostingID, string(c.Platform),
			c.DailyBudget, nonNilInts(c.TargetSegments), c.Objective,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "campaigns",
		Columns: []string{
			"id", "external_id", "job_posting_id", "platform",
			"daily_budget", "target_segments", "objective",
		},
		ConflictKeys: []string{"id"},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert campaigns")
}

func (s *PostgresStore) UpsertInsights(ctx context.Context, insights []model.Insight) (int64, error) {
	insights = dedupeInsights(insights)
	rows := make([][]any, 0, len(insights))
	for _, in := range insights {
		actions := in.Actions
		if actions == nil {
			actions = map[string]int64{}
		}
		actionsJSON, err := json.Marshal(actions)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal actions for %s", in.CampaignExternalID)
		}
		rows = append(rows, []any{
			in.CampaignExternalID, in.DateStart, in.DateStop,
			in.Impressions, in.Clicks, in.Spend, actionsJSON,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "insights",
		Columns: []string{
			"campaign_external_id", "date_start", "date_stop",
			"impressions", "clicks", "spend", "actions",
		},
		ConflictKeys: []string{"campaign_external_id", "date_start", "date_stop"},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert insights")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
