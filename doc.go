// Package sheetpipe ingests spreadsheet workbooks and writes one typed Parquet file
// per sheet, plus a manifest describing the run.
//
// For every sheet of a workbook, sheetpipe normalizes the column headers into clean,
// unique identifiers, infers a type per column (date, integer, float or text) from a
// sample of its values, coerces the whole column to that type and logs a validation
// summary. Each run gets its own timestamped output directory.
//
// # Features
//
//   - Excel workbooks (.xlsx, .xlsm, .xltx, .xltm) and CSV/TSV files as single-sheet workbooks
//   - Automatic handling of compressed inputs (gzip, bzip2, xz, zstandard)
//   - Excel serial dates detected from cell number formats
//   - Multi-level headers with merged header cells
//   - Verified archive copy of every processed workbook
//   - SQL queries over the artifacts of a run through an in-memory SQLite database
//
// # Basic Usage
//
//	processor, err := sheetpipe.NewBuilder().
//	    SetRawDir("raw_files").
//	    SetOutputDir("processed_files").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sheets, err := processor.ProcessFile(ctx, "financial_sample.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for sheet, artifact := range sheets {
//	    fmt.Println(sheet, artifact)
//	}
//
// # Output Layout
//
// A run started at 2024-12-12 19:07:49 on "book.xlsx" produces:
//   - raw_files/20241212_190749_book.xlsx, a byte-exact copy of the input
//   - processed_files/20241212_190749/<artifact>.parquet for each processed sheet
//   - processed_files/20241212_190749/metadata.json
//
// Artifact names are derived from sheet names: "Sales Data" becomes "sales_data.parquet"
// and "Q1 (Current)" becomes "q1_current.parquet".
//
// # Failure Handling
//
// A sheet that cannot be loaded, transformed or written is logged and skipped. A column
// whose values cannot be coerced to the inferred type is kept as text. Failing to archive
// the input, open the workbook, create the run directory or write the manifest aborts
// the run.
package sheetpipe
