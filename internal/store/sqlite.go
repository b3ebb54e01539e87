package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ad-recommender/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Array columns are
// stored as JSON text and dates as YYYY-MM-DD strings.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS job_postings (
	id              INTEGER PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	skills          TEXT NOT NULL DEFAULT '[]',
	target_segments TEXT NOT NULL DEFAULT '[]',
	location        TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	education_level TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS campaigns (
	id              INTEGER PRIMARY KEY,
	external_id     TEXT NOT NULL UNIQUE,
	job_posting_id  INTEGER NOT NULL REFERENCES job_postings(id),
	platform        TEXT NOT NULL,
	daily_budget    INTEGER NOT NULL DEFAULT 0,
	target_segments TEXT NOT NULL DEFAULT '[]',
	objective       TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS insights (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_external_id TEXT NOT NULL REFERENCES campaigns(external_id) ON UPDATE CASCADE,
	date_start           TEXT NOT NULL,
	date_stop            TEXT NOT NULL,
	impressions          INTEGER NOT NULL DEFAULT 0,
	clicks               INTEGER NOT NULL DEFAULT 0,
	spend                REAL NOT NULL DEFAULT 0,
	actions              TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_campaigns_job_posting_id ON campaigns(job_posting_id);
CREATE UNIQUE INDEX IF NOT EXISTS uq_insights_campaign_range ON insights(campaign_external_id, date_start, date_stop);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteJobColumns = `id, title, description, skills, target_segments, location, employment_type, education_level`

func (s *SQLiteStore) FindJobPosting(ctx context.Context, id int64) (*model.JobPosting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteJobColumns+` FROM job_postings WHERE id = ?`, id,
	)
	j, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: job posting %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get job posting %d", id)
	}
	return j, nil
}

func (s *SQLiteStore) FindCandidateJobsWithCampaigns(ctx context.Context, excludeID int64) ([]model.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteJobColumns+` FROM job_postings jp
		 WHERE jp.id <> ? AND EXISTS (SELECT 1 FROM campaigns c WHERE c.job_posting_id = jp.id)
		 ORDER BY jp.id`,
		excludeID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query candidate jobs")
	}
	defer rows.Close()

	var jobs []model.JobPosting
	for rows.Next() {
		j, err := scanSQLiteJob(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate job")
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: iterate candidate jobs")
}

func (s *SQLiteStore) FindCampaignsForJobs(ctx context.Context, jobIDs []int64) ([]model.Campaign, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(jobIDs))
	for i, id := range jobIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, external_id, job_posting_id, platform, daily_budget, target_segments, objective
		 FROM campaigns WHERE job_posting_id IN (`+placeholders(len(jobIDs))+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query campaigns")
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		var platform, segments string
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.JobPostingID, &platform, &c.DailyBudget, &segments, &c.Objective); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan campaign")
		}
		c.Platform = model.Platform(platform)
		if err := unmarshalColumn(segments, &c.TargetSegments); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode segments for campaign %d", c.ID)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, eris.Wrap(rows.Err(), "sqlite: iterate campaigns")
}

func (s *SQLiteStore) FindInsights(ctx context.Context, campaignExternalIDs []string, since time.Time) ([]model.Insight, error) {
	if len(campaignExternalIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(campaignExternalIDs)+1)
	for _, id := range campaignExternalIDs {
		args = append(args, id)
	}
	args = append(args, since.UTC().Format(dateLayout))

	rows, err := s.db.QueryContext(ctx,
		`SELECT campaign_external_id, date_start, date_stop, impressions, clicks, spend, actions
		 FROM insights
		 WHERE campaign_external_id IN (`+placeholders(len(campaignExternalIDs))+`) AND date_start >= ?
		 ORDER BY campaign_external_id, date_start, id`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query insights")
	}
	defer rows.Close()

	var insights []model.Insight
	for rows.Next() {
		var in model.Insight
		var start, stop, actions string
		if err := rows.Scan(&in.CampaignExternalID, &start, &stop, &in.Impressions, &in.Clicks, &in.Spend, &actions); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan insight")
		}
		if in.DateStart, err = time.Parse(dateLayout, start); err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse date_start %q", start)
		}
		if in.DateStop, err = time.Parse(dateLayout, stop); err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse date_stop %q", stop)
		}
		if err := unmarshalColumn(actions, &in.Actions); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode actions for %s", in.CampaignExternalID)
		}
		insights = append(insights, in)
	}
	return insights, eris.Wrap(rows.Err(), "sqlite: iterate insights")
}

func (s *SQLiteStore) UpsertJobPostings(ctx context.Context, jobs []model.JobPosting) (int64, error) {
	return s.inTx(ctx, "upsert job postings", func(tx *sql.Tx) (int64, error) {
		var n int64
		for _, j := range jobs {
			skills, err := marshalColumn(nonNil(j.Skills))
			if err != nil {
				return n, err
			}
			segments, err := marshalColumn(nonNilInts(j.TargetSegments))
			if err != nil {
				return n, err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO job_postings (id, title, description, skills, target_segments, location, employment_type, education_level)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
					title = excluded.title, description = excluded.description,
					skills = excluded.skills, target_segments = excluded.target_segments,
					location = excluded.location, employment_type = excluded.employment_type,
					education_level = excluded.education_level`,
				j.ID, j.Title, j.Description, skills, segments, j.Location,
				string(j.EmploymentType), string(j.EducationLevel),
			)
			if err != nil {
				return n, eris.Wrapf(err, "job posting %d", j.ID)
			}
			affected, _ := res.RowsAffected()
			n += affected
		}
		return n, nil
	})
}

func (s *SQLiteStore) UpsertCampaigns(ctx context.Context, campaigns []model.Campaign) (int64, error) {
	return s.inTx(ctx, "upsert campaigns", func(tx *sql.Tx) (int64, error) {
		var n int64
		for _, c := range campaigns {
			segments, err := marshalColumn(nonNilInts(c.TargetSegments))
			if err != nil {
				return n, err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO campaigns (id, external_id, job_posting_id, platform, daily_budget, target_segments, objective)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
					external_id = excluded.external_id, job_posting_id = excluded.job_posting_id,
					platform = excluded.platform, daily_budget = excluded.daily_budget,
					target_segments = excluded.target_segments, objective = excluded.objective`,
				c.ID, c.ExternalID, c.JobPostingID, string(c.Platform), c.DailyBudget, segments, c.Objective,
			)
			if err != nil {
				return n, eris.Wrapf(err, "campaign %d", c.ID)
			}
			affected, _ := res.RowsAffected()
			n += affected
		}
		return n, nil
	})
}

func (s *SQLiteStore) UpsertInsights(ctx context.Context, insights []model.Insight) (int64, error) {
	return s.inTx(ctx, "upsert insights", func(tx *sql.Tx) (int64, error) {
		var n int64
		for _, in := range dedupeInsights(insights) {
			actions := in.Actions
			if actions == nil {
				actions = map[string]int64{}
			}
			actionsJSON, err := marshalColumn(actions)
			if err != nil {
				return n, err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO insights (campaign_external_id, date_start, date_stop, impressions, clicks, spend, actions)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(campaign_external_id, date_start, date_stop) DO UPDATE SET
					impressions = excluded.impressions, clicks = excluded.clicks,
					spend = excluded.spend, actions = excluded.actions`,
				in.CampaignExternalID, in.DateStart.UTC().Format(dateLayout), in.DateStop.UTC().Format(dateLayout),
				in.Impressions, in.Clicks, in.Spend, actionsJSON,
			)
			if err != nil {
				return n, eris.Wrapf(err, "insight for %s", in.CampaignExternalID)
			}
			n++
		}
		return n, nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) (int64, error)) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: %s: begin", op)
	}
	defer tx.Rollback() //nolint:errcheck

	n, err := fn(tx)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: %s", op)
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrapf(err, "sqlite: %s: commit", op)
	}
	return n, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteJob(row rowScanner) (*model.JobPosting, error) {
	var j model.JobPosting
	var skills, segments, employment, education string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &skills, &segments, &j.Location, &employment, &education); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(skills, &j.Skills); err != nil {
		return nil, eris.Wrapf(err, "decode skills for job %d", j.ID)
	}
	if err := unmarshalColumn(segments, &j.TargetSegments); err != nil {
		return nil, eris.Wrapf(err, "decode segments for job %d", j.ID)
	}
	j.EmploymentType = model.EmploymentType(employment)
	j.EducationLevel = model.EducationLevel(education)
	return &j, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func marshalColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", eris.Wrap(err, "encode column")
	}
	return string(b), nil
}

func unmarshalColumn(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
