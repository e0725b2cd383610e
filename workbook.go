package sheetpipe

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sheetpipe/domain/model"
	"github.com/xuri/excelize/v2"
)

// Workbook is an ordered sequence of named sheets opened for reading.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order
	SheetNames() []string
	// LoadSheet reads one sheet. The first header rows become the column labels.
	LoadSheet(name string) (*model.Sheet, error)
	// Close releases the workbook
	Close() error
}

// naMarkers are text cell values read as missing
var naMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// textValue converts a text cell to a Value, mapping NA markers to null
func textValue(s string) model.Value {
	if _, ok := naMarkers[s]; ok {
		return model.Null()
	}
	return model.Text(s)
}

// OpenWorkbook opens an Excel workbook or a CSV/TSV file, optionally compressed.
// headerRows below 1 is treated as 1.
func OpenWorkbook(path string, headerRows int) (Workbook, error) {
	headerRows = max(headerRows, 1)

	f := newFile(path)
	switch f.fileType {
	case FileTypeXLSX:
		return openExcelWorkbook(f, headerRows)
	case FileTypeCSV:
		return &delimitedWorkbook{file: f, delimiter: csvDelimiter, headerRows: headerRows}, nil
	case FileTypeTSV:
		return &delimitedWorkbook{file: f, delimiter: tsvDelimiter, headerRows: headerRows}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// excelWorkbook reads sheets through excelize
type excelWorkbook struct {
	xlsx       *excelize.File
	headerRows int
	date1904   bool
	// dateStyles caches whether a style id formats numbers as dates
	dateStyles map[int]bool
}

// openExcelWorkbook opens an Excel file. Compressed files are read into memory first
// since excelize needs random access.
func openExcelWorkbook(f *file, headerRows int) (*excelWorkbook, error) {
	var (
		xlsx *excelize.File
		err  error
	)
	if f.isCompressed() {
		reader, closer, err := f.openReader()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(reader)
		_ = closer() // Ignore close error after a full read
		if err != nil {
			return nil, err
		}
		xlsx, err = excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	} else {
		xlsx, err = excelize.OpenFile(f.path)
		if err != nil {
			return nil, err
		}
	}

	props, err := xlsx.GetWorkbookProps()
	if err != nil {
		_ = xlsx.Close() // Ignore close error during error handling
		return nil, err
	}

	return &excelWorkbook{
		xlsx:       xlsx,
		headerRows: headerRows,
		date1904:   props.Date1904 != nil && *props.Date1904,
		dateStyles: make(map[int]bool),
	}, nil
}

// SheetNames returns the sheet names in workbook order
func (w *excelWorkbook) SheetNames() []string {
	return w.xlsx.GetSheetList()
}

// Close closes the underlying excelize file
func (w *excelWorkbook) Close() error {
	return w.xlsx.Close()
}

// LoadSheet reads one sheet with typed cell values
func (w *excelWorkbook) LoadSheet(name string) (*model.Sheet, error) {
	if !slices.Contains(w.xlsx.GetSheetList(), name) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	rows, err := w.xlsx.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	grid := make([][]model.Value, len(rows))
	for r, row := range rows {
		grid[r] = make([]model.Value, width)
		for c := range width {
			if c >= len(row) {
				grid[r][c] = model.Null()
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			v, err := w.cellValue(name, axis, row[c])
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s!%s: %w", name, axis, err)
			}
			grid[r][c] = v
		}
	}

	if err := w.fillMergedHeaders(name, grid); err != nil {
		return nil, err
	}
	return buildSheet(name, grid, w.headerRows)
}

// cellValue converts a raw cell string to a typed value using the cell type and style
func (w *excelWorkbook) cellValue(sheet, axis, raw string) (model.Value, error) {
	if raw == "" {
		return model.Null(), nil
	}

	typ, err := w.xlsx.GetCellType(sheet, axis)
	if err != nil {
		return model.Null(), err
	}

	switch typ {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return model.Number(1), nil
		}
		return model.Number(0), nil
	case excelize.CellTypeError:
		return model.Null(), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return model.Date(t), nil
		}
		return textValue(raw), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return textValue(raw), nil
		}
		isDate, err := w.isDateStyled(sheet, axis)
		if err != nil {
			return model.Null(), err
		}
		if isDate {
			t, err := excelize.ExcelDateToTime(f, w.date1904)
			if err != nil {
				return model.Null(), nil
			}
			return model.Date(t), nil
		}
		return model.Number(f), nil
	default:
		return textValue(raw), nil
	}
}

// isDateStyled reports whether the number format of a cell renders dates or times
func (w *excelWorkbook) isDateStyled(sheet, axis string) (bool, error) {
	styleID, err := w.xlsx.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if isDate, ok := w.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := w.xlsx.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	w.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id is a date or time format
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom number format code contains date or time tokens.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	section, _, _ := strings.Cut(code, ";")
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(section) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y' || r == 'd' || r == 'm' || r == 'h' || r == 's':
			return true
		}
	}
	return false
}

// fillMergedHeaders copies the value of a merged header cell across its whole span
func (w *excelWorkbook) fillMergedHeaders(sheet string, grid [][]model.Value) error {
	headerRows := min(w.headerRows, len(grid))
	if headerRows < 2 {
		return nil
	}

	merges, err := w.xlsx.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, merge := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			return err
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			return err
		}
		if startRow > headerRows || startCol > len(grid[0]) {
			continue
		}
		value := grid[startRow-1][startCol-1]
		for r := startRow; r <= min(endRow, headerRows); r++ {
			for c := startCol; c <= min(endCol, len(grid[r-1])); c++ {
				grid[r-1][c-1] = value
			}
		}
	}
	return nil
}

// delimitedWorkbook is a CSV or TSV file read as a single sheet named after the file
type delimitedWorkbook struct {
	file       *file
	delimiter  rune
	headerRows int
}

// SheetNames returns the single sheet name
func (w *delimitedWorkbook) SheetNames() []string {
	return []string{w.file.baseName()}
}

// Close is a no-op; the file is opened per LoadSheet call
func (w *delimitedWorkbook) Close() error {
	return nil
}

// LoadSheet reads every record as text. Short records are padded with nulls.
func (w *delimitedWorkbook) LoadSheet(name string) (*model.Sheet, error) {
	if name != w.file.baseName() {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	reader, closer, err := w.file.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer() // Ignore close error
	}()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = w.delimiter
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	width := 0
	for _, record := range records {
		width = max(width, len(record))
	}

	grid := make([][]model.Value, len(records))
	for r, record := range records {
		grid[r] = make([]model.Value, width)
		for c := range width {
			if c < len(record) {
				grid[r][c] = textValue(record[c])
			} else {
				grid[r][c] = model.Null()
			}
		}
	}
	return buildSheet(name, grid, w.headerRows)
}

// unnamedHeader labels a blank header cell by its column index, plus its level when
// level is not negative: "Unnamed: 3" or "Unnamed: 3_level_1"
func unnamedHeader(column, level int) model.Value {
	label := "Unnamed: " + strconv.Itoa(column)
	if level >= 0 {
		label += "_level_" + strconv.Itoa(level)
	}
	return model.Text(label)
}

// buildSheet splits a row-major grid into header labels and column-major values
func buildSheet(name string, grid [][]model.Value, headerRows int) (*model.Sheet, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, name)
	}
	headerRows = min(headerRows, len(grid))
	width := len(grid[0])

	headers := make([]model.HeaderLabel, width)
	for c := range width {
		if headerRows == 1 {
			label := grid[0][c]
			if label.IsNull() {
				label = unnamedHeader(c, -1)
			}
			headers[c] = model.NewHeaderLabel(label)
			continue
		}
		levels := make([]model.Value, headerRows)
		blank := true
		for r := range headerRows {
			levels[r] = grid[r][c]
			blank = blank && levels[r].IsNull()
		}
		if blank {
			for r := range levels {
				levels[r] = unnamedHeader(c, r)
			}
		}
		headers[c] = model.NewMultiLevelHeaderLabel(levels...)
	}

	data := grid[headerRows:]
	columns := make([][]model.Value, width)
	for c := range width {
		columns[c] = make([]model.Value, len(data))
		for r, row := range data {
			columns[c][r] = row[c]
		}
	}

	sheet, err := model.NewSheet(name, headers, columns)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet %s: %w", name, err)
	}
	return sheet, nil
}
