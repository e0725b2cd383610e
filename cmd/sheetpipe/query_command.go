package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sheetpipe"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "query RUN_DIR SQL",
		Short: "Run SQL against the artifacts of a processing run",
		Long: `Load every artifact of a run directory into an in-memory SQLite database and run SQL.
Each artifact becomes a table named after its file, e.g. sales_data.parquet is queried as sales_data.`,
		Args: cobra.ExactArgs(2),
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[1])
			if query == "" {
				return fmt.Errorf("query must not be empty")
			}

			db, err := sheetpipe.OpenRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.QueryContext(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			defer rows.Close()

			columns, err := rows.Columns()
			if err != nil {
				return err
			}

			var records [][]string
			numeric := make([]bool, len(columns))
			for rows.Next() {
				values := make([]any, len(columns))
				scanTargets := make([]any, len(columns))
				for i := range values {
					scanTargets[i] = &values[i]
				}
				if err := rows.Scan(scanTargets...); err != nil {
					return fmt.Errorf("failed to scan row: %w", err)
				}
				record := make([]string, len(columns))
				for i, v := range values {
					switch v.(type) {
					case int64, float64:
						numeric[i] = true
					}
					record[i] = formatCell(v)
				}
				records = append(records, record)
			}
			if err := rows.Err(); err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(columns) == 0 {
				fmt.Fprintln(out, "Query returned no columns")
				return nil
			}
			fmt.Fprintln(out, renderTable(columns, records, alignFor(numeric)))
			fmt.Fprintf(out, "%d rows\n", len(records))
			return nil
		},
	}
}
