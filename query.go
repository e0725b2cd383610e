package sheetpipe

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register the sqlite driver
)

// sqliteDriverName is the database/sql driver name registered by modernc.org/sqlite
const sqliteDriverName = "sqlite"

// sqlDateLayout is the layout used for date values loaded into SQLite
const sqlDateLayout = "2006-01-02 15:04:05"

// OpenRun loads every artifact of a run directory into an in-memory SQLite database,
// one table per artifact named after the artifact file:
//
//	db, err := sheetpipe.OpenRun(ctx, "processed_files/20241212_190749")
//	rows, err := db.QueryContext(ctx, "SELECT * FROM sales_data WHERE revenue_usd > 100")
//
// The caller closes the database.
func OpenRun(ctx context.Context, runDir string) (*sql.DB, error) {
	summary, err := InspectRun(ctx, runDir)
	if err != nil {
		return nil, err
	}
	if len(summary.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArtifacts, runDir)
	}

	db, err := sql.Open(sqliteDriverName, ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	for _, s := range summary.Sheets {
		if err := loadArtifact(ctx, db, s.Artifact); err != nil {
			_ = db.Close() // Ignore close error during error handling
			return nil, newRunError("load artifact", s.Artifact.Path).inSheet(s.Sheet).wrap(err)
		}
	}
	return db, nil
}

// artifactTableName returns the table name of an artifact
func artifactTableName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), extParquet)
}

// loadArtifact creates a table for an artifact and inserts its rows in one transaction
func loadArtifact(ctx context.Context, db *sql.DB, artifact *Artifact) error {
	tableName := artifactTableName(artifact.Path)

	if _, err := db.ExecContext(ctx, buildCreateTableQuery(tableName, artifact.Columns)); err != nil {
		return err
	}
	if len(artifact.Rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(tableName, len(artifact.Columns)))
	if err != nil {
		_ = tx.Rollback() // Ignore rollback error during error handling
		return err
	}
	defer stmt.Close()

	for _, row := range artifact.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			if t, ok := v.(time.Time); ok {
				v = t.Format(sqlDateLayout)
			}
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback() // Ignore rollback error during error handling
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return tx.Commit()
}

// buildCreateTableQuery constructs a CREATE TABLE query for an artifact
func buildCreateTableQuery(tableName string, columns []ArtifactColumn) string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, fmt.Sprintf(`[%s] %s`, c.Name, c.Type.SQLType()))
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS [%s] (%s)`, tableName, strings.Join(defs, ", "))
}

// buildInsertQuery constructs an INSERT query with count placeholders
func buildInsertQuery(tableName string, count int) string {
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(`INSERT INTO [%s] VALUES (%s)`, tableName, strings.Join(placeholders, ", "))
}
