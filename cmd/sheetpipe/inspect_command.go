package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/sheetpipe"
	"github.com/nao1215/sheetpipe/domain/model"
)

const defaultInspectRows = 10

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect RUN_DIR",
		Short: "Show the manifest, schemas and rows of a processing run",
		Args:  cobra.ExactArgs(1),
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--rows must be zero or positive, got %d", limit)
			}

			summary, err := sheetpipe.InspectRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Original file:   %s\n", summary.Manifest.OriginalFile())
			fmt.Fprintf(out, "Processing time: %s\n", summary.Manifest.ProcessingTime())
			fmt.Fprintf(out, "Sheets:          %d\n", len(summary.Sheets))

			for _, sheet := range summary.Sheets {
				fmt.Fprintln(out)
				printArtifact(cmd, sheet, limit)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "rows", "n", defaultInspectRows, "Rows to show per sheet (0 shows all)")
	return cmd
}

func printArtifact(cmd *cobra.Command, sheet sheetpipe.SheetArtifact, limit int) {
	out := cmd.OutOrStdout()
	artifact := sheet.Artifact
	fmt.Fprintf(out, "%s (%s, %d rows)\n", sheet.Sheet, artifact.Path, len(artifact.Rows))

	schema := make([][]string, len(artifact.Columns))
	for i, c := range artifact.Columns {
		schema[i] = []string{c.Name, c.Type.String()}
	}
	fmt.Fprintln(out, renderTable([]string{"Column", "Type"}, schema, nil))

	if len(artifact.Columns) == 0 || len(artifact.Rows) == 0 {
		return
	}

	shown := artifact.Rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, len(shown))
	for i, row := range shown {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		rows[i] = cells
	}

	numeric := make([]bool, len(artifact.Columns))
	for i, c := range artifact.Columns {
		numeric[i] = c.Type == model.ColumnTypeInteger || c.Type == model.ColumnTypeFloat
	}
	fmt.Fprintln(out, renderTable(artifact.ColumnNames(), rows, alignFor(numeric)))
	if len(shown) < len(artifact.Rows) {
		fmt.Fprintf(out, "... %d more rows\n", len(artifact.Rows)-len(shown))
	}
}
