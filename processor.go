package sheetpipe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/sheetpipe/domain/model"
)

// manifestFileName is the name of the run manifest inside a run directory
const manifestFileName = "metadata.json"

// runState is a step of one processing run
type runState int

const (
	// stateStart: nothing done yet
	stateStart runState = iota
	// statePersisted: raw file archived and run directory created
	statePersisted
	// stateSheetLoop: workbook open, sheets being processed
	stateSheetLoop
	// stateManifested: manifest written
	stateManifested
	// stateDone: run finished
	stateDone
	// stateFailed: run aborted by a fatal error
	stateFailed
)

// String returns the state name
func (s runState) String() string {
	switch s {
	case stateStart:
		return "start"
	case statePersisted:
		return "persisted"
	case stateSheetLoop:
		return "sheet_loop"
	case stateManifested:
		return "manifested"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Processor runs the ingestion pipeline for one workbook at a time:
// archive the raw file, transform every sheet, write one parquet artifact per sheet
// and a run manifest. Create it with NewBuilder.
type Processor struct {
	rawDir      string
	outputDir   string
	headerRows  int
	transformer *SheetTransformer
	output      OutputOptions
	logger      *slog.Logger
	now         func() time.Time
	// openWorkbook is replaceable in tests
	openWorkbook func(path string, headerRows int) (Workbook, error)
}

// sheetResult is the outcome of processing one sheet
type sheetResult struct {
	artifact string
	err      error
}

// run holds the state of one ProcessFile call
type run struct {
	p         *Processor
	path      string
	timestamp string
	runDir    string
	state     runState
	workbook  Workbook
	processed []model.ProcessedSheet
}

// ProcessFile processes one workbook and returns the mapping of sheet name to artifact path.
// Sheets that fail are logged and left out of the mapping. Archive, workbook open, run
// directory and manifest failures abort the run, as does a cancelled context, which is
// checked between sheets.
func (p *Processor) ProcessFile(ctx context.Context, path string) (map[string]string, error) {
	sheets, err := p.ProcessSheets(ctx, path)
	if err != nil {
		return nil, err
	}
	processed := make(map[string]string, len(sheets))
	for _, s := range sheets {
		processed[s.Sheet] = s.Path
	}
	return processed, nil
}

// ProcessSheets is ProcessFile returning the processed sheets in workbook order.
func (p *Processor) ProcessSheets(ctx context.Context, path string) ([]model.ProcessedSheet, error) {
	timestamp := p.now().Format(model.ProcessingTimeLayout)
	r := &run{
		p:         p,
		path:      path,
		timestamp: timestamp,
		runDir:    filepath.Join(p.outputDir, timestamp),
		state:     stateStart,
	}
	defer r.closeWorkbook()

	p.logger.Info("Starting to process file", "file", path)
	for r.state != stateDone {
		if err := r.step(ctx); err != nil {
			p.logger.Error(fmt.Sprintf("Error processing file %s", path), "state", r.state.String(), "error", err)
			r.state = stateFailed
			return nil, err
		}
	}
	return append([]model.ProcessedSheet{}, r.processed...), nil
}

// step performs the transition out of the current state
func (r *run) step(ctx context.Context) error {
	switch r.state {
	case stateStart:
		if err := r.persist(); err != nil {
			return err
		}
		r.state = statePersisted
	case statePersisted:
		wb, err := r.p.openWorkbook(r.path, r.p.headerRows)
		if err != nil {
			return newRunError("open workbook", r.path).wrap(err)
		}
		r.workbook = wb
		r.state = stateSheetLoop
	case stateSheetLoop:
		if err := r.processSheets(ctx); err != nil {
			return err
		}
		if err := r.writeManifest(); err != nil {
			return err
		}
		r.state = stateManifested
	case stateManifested:
		r.p.logger.Info("Processing completed", "output", r.runDir)
		r.state = stateDone
	default:
		return fmt.Errorf("sheetpipe: invalid run state %s", r.state)
	}
	return nil
}

// persist validates and archives the raw file, then creates the run directory
func (r *run) persist() error {
	if err := newValidator().validateWorkbookPath(r.path); err != nil {
		return newRunError("validate workbook", r.path).wrap(err)
	}

	dst := archivePath(r.p.rawDir, r.timestamp, r.path)
	if err := copyFileVerified(r.path, dst); err != nil {
		r.p.logger.Error("Error storing raw file", "file", r.path, "error", err)
		return newRunError("archive", r.path).writing(dst).wrap(err)
	}
	r.p.logger.Info("Raw file stored", "path", dst)

	if err := os.MkdirAll(r.runDir, 0o750); err != nil {
		return newRunError("create run directory", r.path).writing(r.runDir).wrap(err)
	}
	return nil
}

// processSheets processes every sheet in workbook order
func (r *run) processSheets(ctx context.Context) error {
	namer := newArtifactNamer()
	for _, name := range r.workbook.SheetNames() {
		if err := ctx.Err(); err != nil {
			return newRunError("process sheets", r.path).wrap(fmt.Errorf("%w: %w", ErrContextCancelled, err))
		}

		result := r.processSheet(name, namer)
		if result.err != nil {
			r.p.logger.Error(fmt.Sprintf("Error processing sheet %s", name), "error", result.err)
			continue
		}
		r.processed = append(r.processed, model.ProcessedSheet{Sheet: name, Path: result.artifact})
		r.p.logger.Info(fmt.Sprintf("Saved sheet %s", name), "path", result.artifact)
	}
	return nil
}

// processSheet loads, transforms and persists one sheet
func (r *run) processSheet(name string, namer *artifactNamer) sheetResult {
	r.p.logger.Info("Processing sheet", "sheet", name)
	sheet, err := r.workbook.LoadSheet(name)
	if err != nil {
		return sheetResult{err: newRunError("load sheet", r.path).inSheet(name).wrap(err)}
	}

	table, _, err := r.p.transformer.Transform(sheet)
	if err != nil {
		return sheetResult{err: newRunError("transform sheet", r.path).inSheet(name).wrap(err)}
	}

	artifact := filepath.Join(r.runDir, namer.next(name)+extParquet)
	if err := writeParquet(artifact, table, r.p.output); err != nil {
		return sheetResult{err: newRunError("write artifact", r.path).inSheet(name).writing(artifact).wrap(err)}
	}
	return sheetResult{artifact: artifact}
}

// writeManifest writes metadata.json into the run directory.
// A manifest that cannot be written completely is removed.
func (r *run) writeManifest() error {
	path := filepath.Join(r.runDir, manifestFileName)
	manifest := model.NewRunManifest(r.path, r.timestamp, r.processed)
	err := writeFileOrRemove(path, func(w io.Writer) error {
		_, err := manifest.WriteTo(w)
		return err
	})
	if err != nil {
		return newRunError("write manifest", r.path).writing(path).wrap(err)
	}
	return nil
}

// closeWorkbook closes the workbook if it was opened
func (r *run) closeWorkbook() {
	if r.workbook == nil {
		return
	}
	if err := r.workbook.Close(); err != nil {
		r.p.logger.Warn("Failed to close workbook", "file", r.path, "error", err)
	}
}
