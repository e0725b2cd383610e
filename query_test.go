package sheetpipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/sheetpipe/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRun(t *testing.T) {
	t.Parallel()

	runDir := processFixture(t)
	ctx := context.Background()

	db, err := OpenRun(ctx, runDir)
	require.NoError(t, err)
	defer db.Close()

	t.Run("aggregate over one artifact", func(t *testing.T) {
		var total, nulls int64
		err := db.QueryRowContext(ctx,
			"SELECT SUM(revenue_usd), SUM(revenue_usd IS NULL) FROM sales_data").Scan(&total, &nulls)
		require.NoError(t, err)
		assert.Equal(t, int64(350), total)
		assert.Equal(t, int64(1), nulls)
	})

	t.Run("join across artifacts", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `
			SELECT s.region, s.revenue_usd, q.target
			FROM sales_data s
			JOIN q1_current q ON q.region = s.region
			ORDER BY s.region`)
		require.NoError(t, err)
		defer rows.Close()

		type result struct {
			region  string
			revenue int64
			target  float64
		}
		var got []result
		for rows.Next() {
			var r result
			require.NoError(t, rows.Scan(&r.region, &r.revenue, &r.target))
			got = append(got, r)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []result{
			{region: "north", revenue: 100, target: 1.5},
			{region: "south", revenue: 250, target: 2.5},
		}, got)
	})
}

func TestOpenRun_NoArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, manifestFileName))
	require.NoError(t, err)
	_, err = model.NewRunManifest("book.xlsx", testRunStamp, nil).WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenRun(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoArtifacts)
}

func TestBuildCreateTableQuery(t *testing.T) {
	t.Parallel()

	got := buildCreateTableQuery("sales_data", []ArtifactColumn{
		{Name: "revenue_usd", Type: model.ColumnTypeInteger},
		{Name: "margin", Type: model.ColumnTypeFloat},
		{Name: "order_date", Type: model.ColumnTypeDate},
		{Name: "region", Type: model.ColumnTypeText},
	})
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS [sales_data] ([revenue_usd] INTEGER, [margin] REAL, [order_date] TEXT, [region] TEXT)",
		got)
}

func TestBuildInsertQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INSERT INTO [t] VALUES (?, ?, ?)", buildInsertQuery("t", 3))
}

func TestArtifactTableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "q1_current", artifactTableName("/out/20241212_190749/q1_current.parquet"))
}
