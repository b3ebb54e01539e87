package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "job_postings",
		Columns:      []string{"id", "title"},
		ConflictKeys: []string{"id"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "job_postings",
		ConflictKeys: []string{"id"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "job_postings",
		Columns: []string{"id", "title"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_job_postings" \(LIKE "job_postings"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_job_postings"}, []string{"id", "title"}).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "job_postings" \("id", "title"\) SELECT .* ON CONFLICT \("id"\) DO UPDATE SET "title" = EXCLUDED."title"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "job_postings",
		Columns:      []string{"id", "title"},
		ConflictKeys: []string{"id"},
	}, [][]any{{int64(1), "Go Developer"}, {int64(2), "Designer"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBulkUpsert_OnlyConflictColumns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_tags"}, []string{"id"}).WillReturnResult(1)
	mock.ExpectExec(`ON CONFLICT \("id"\) DO NOTHING`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "tags",
		Columns:      []string{"id"},
		ConflictKeys: []string{"id"},
	}, [][]any{{int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_campaigns"}, []string{"id", "platform"}).
		WillReturnError(fmt.Errorf("bad row"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "campaigns",
		Columns:      []string{"id", "platform"},
		ConflictKeys: []string{"id"},
	}, [][]any{{int64(1), "meta"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table for campaigns")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"id", "title", "skills"})
	assert.Equal(t, `"id", "title", "skills"`, result)
}

func TestBulkUpsert_ConflictKeyNotAColumn(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "campaigns",
		Columns:      []string{"id", "platform"},
		ConflictKeys: []string{"external_id"},
	}, [][]any{{int64(1), "meta"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `conflict key "external_id" is not a column`)
}

func TestBulkUpsert_RowWidthMismatch(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "job_postings",
		Columns:      []string{"id", "title"},
		ConflictKeys: []string{"id"},
	}, [][]any{{int64(1), "ok"}, {int64(2)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 has 1 values, want 2")
}

func TestPlanUpsert_ExplicitUpdateCols(t *testing.T) {
	plan, err := planUpsert(UpsertConfig{
		Table:        "ads.campaigns",
		Columns:      []string{"id", "platform", "daily_budget"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"daily_budget"},
	})
	require.NoError(t, err)
	assert.Equal(t, pgx.Identifier{"_tmp_upsert_ads_campaigns"}, plan.temp)
	assert.Contains(t, plan.create, `(LIKE "ads"."campaigns" INCLUDING DEFAULTS)`)
	assert.True(t, strings.HasSuffix(plan.insert, `ON CONFLICT ("id") DO UPDATE SET "daily_budget" = EXCLUDED."daily_budget"`))
}

func TestBulkUpsert_CompositeConflictKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"campaign_external_id", "date_start", "date_stop", "clicks"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_insights"`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_insights"}, cols).WillReturnResult(1)
	mock.ExpectExec(`ON CONFLICT \("campaign_external_id", "date_start", "date_stop"\) DO UPDATE SET "clicks" = EXCLUDED."clicks"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "insights",
		Columns:      cols,
		ConflictKeys: []string{"campaign_external_id", "date_start", "date_stop"},
	}, [][]any{{"g_10", "2026-09-01", "2026-09-07", int64(240)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, pgx.Identifier{"campaigns"}, identifier("campaigns"))
	assert.Equal(t, pgx.Identifier{"ads", "campaigns"}, identifier("ads.campaigns"))
}
