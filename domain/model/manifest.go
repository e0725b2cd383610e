package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ProcessingTimeLayout is the layout of RunManifest.ProcessingTime and of run directory names
const ProcessingTimeLayout = "20060102_150405"

// ProcessedSheet pairs a sheet name with the path of its artifact
type ProcessedSheet struct {
	Sheet string
	Path  string
}

// RunManifest records the input, timestamp and outputs of one processing run.
// It is immutable once created.
type RunManifest struct {
	originalFile   string
	processingTime string
	sheets         processedSheets
}

// manifestDocument is the JSON form of RunManifest
type manifestDocument struct {
	OriginalFile    string          `json:"original_file"`
	ProcessingTime  string          `json:"processing_time"`
	ProcessedSheets processedSheets `json:"processed_sheets"`
}

// processedSheets is a JSON object whose keys keep workbook order
type processedSheets []ProcessedSheet

// MarshalJSON writes the sheets as an object in slice order
func (s processedSheets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sheet := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(&buf, sheet.Sheet); err != nil {
			return nil, err
		}
		path, err := json.Marshal(sheet.Path)
		if err != nil {
			return nil, err
		}
		buf.Write(path)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object keeping key order. A repeated key keeps its first position.
func (s *processedSheets) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("processed_sheets: expected object, got %v", tok)
	}

	var out processedSheets
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("processed_sheets: unexpected key %v", tok)
		}
		var path string
		if err := dec.Decode(&path); err != nil {
			return fmt.Errorf("processed_sheets: %s: %w", name, err)
		}
		if i, seen := index[name]; seen {
			out[i].Path = path
			continue
		}
		index[name] = len(out)
		out = append(out, ProcessedSheet{Sheet: name, Path: path})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// NewRunManifest creates a manifest. sheets are in workbook order and are copied.
func NewRunManifest(originalFile, processingTime string, sheets []ProcessedSheet) *RunManifest {
	return &RunManifest{
		originalFile:   originalFile,
		processingTime: processingTime,
		sheets:         append(processedSheets{}, sheets...),
	}
}

// OriginalFile returns the input path as given by the caller
func (m *RunManifest) OriginalFile() string {
	return m.originalFile
}

// ProcessingTime returns the run timestamp
func (m *RunManifest) ProcessingTime() string {
	return m.processingTime
}

// Sheets returns a copy of the processed sheets in workbook order
func (m *RunManifest) Sheets() []ProcessedSheet {
	return append([]ProcessedSheet(nil), m.sheets...)
}

// ProcessedSheets returns the sheet name to artifact path mapping
func (m *RunManifest) ProcessedSheets() map[string]string {
	out := make(map[string]string, len(m.sheets))
	for _, s := range m.sheets {
		out[s.Sheet] = s.Path
	}
	return out
}

// WriteTo writes the manifest as indented JSON
func (m *RunManifest) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(manifestDocument{
		OriginalFile:    m.originalFile,
		ProcessingTime:  m.processingTime,
		ProcessedSheets: m.sheets,
	}, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadManifest decodes a manifest written by WriteTo
func ReadManifest(r io.Reader) (*RunManifest, error) {
	var doc manifestDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if doc.OriginalFile == "" || doc.ProcessingTime == "" {
		return nil, fmt.Errorf("%w: original_file and processing_time are required", ErrInvalidManifest)
	}
	return NewRunManifest(doc.OriginalFile, doc.ProcessingTime, doc.ProcessedSheets), nil
}
