package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sheetpipe"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process FILE",
		Short: "Process a workbook into one parquet file per sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, closeLog, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() {
				_ = closeLog() // Ignore close error on exit
			}()

			processor, err := ctx.newProcessor(cfg, logger)
			if err != nil {
				return fmt.Errorf("build processor: %w", err)
			}

			processed, err := processor.ProcessSheets(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(processed) == 0 {
				fmt.Fprintln(out, "No sheets were processed")
				return nil
			}

			rows := make([][]string, 0, len(processed))
			for _, sheet := range processed {
				artifact, err := sheetpipe.ReadArtifact(cmd.Context(), sheet.Path)
				if err != nil {
					return fmt.Errorf("read artifact for sheet %s: %w", sheet.Sheet, err)
				}
				rows = append(rows, []string{
					sheet.Sheet,
					filepath.Base(artifact.Path),
					strings.Join(artifact.ColumnNames(), ", "),
					strconv.Itoa(len(artifact.Rows)),
				})
			}

			fmt.Fprintf(out, "Run directory: %s\n", filepath.Dir(processed[0].Path))
			fmt.Fprint(out, renderTable(
				[]string{"Sheet", "Artifact", "Columns", "Rows"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintln(out)
			return nil
		},
	}
}
