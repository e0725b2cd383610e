package sheetpipe

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/sheetpipe/domain/model"
)

// DefaultNullWarningThreshold is the null percentage above which a column is reported
const DefaultNullWarningThreshold = 50.0

// SheetTransformer turns a loaded sheet into a NormalizedTable: header normalization,
// then type inference and coercion per column, then a validation pass.
type SheetTransformer struct {
	normalizer           *model.Normalizer
	classifier           *model.Classifier
	nullWarningThreshold float64
	logger               *slog.Logger
}

// NewSheetTransformer creates a SheetTransformer. A nil logger discards output.
func NewSheetTransformer(normalizer *model.Normalizer, classifier *model.Classifier, nullWarningThreshold float64, logger *slog.Logger) *SheetTransformer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SheetTransformer{
		normalizer:           normalizer,
		classifier:           classifier,
		nullWarningThreshold: nullWarningThreshold,
		logger:               logger,
	}
}

// Transform normalizes, types and validates a sheet.
// A failure of one column falls back to text; only sheet level problems return an error.
func (t *SheetTransformer) Transform(sheet *model.Sheet) (*model.NormalizedTable, *model.ValidationReport, error) {
	if len(sheet.Columns()) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptySheet, sheet.Name())
	}

	names := t.normalizer.Normalize(sheet.Headers())
	t.logger.Info("Normalized columns", "sheet", sheet.Name(), "columns", names)

	columns := make([]*model.Column, len(names))
	for i, values := range sheet.Columns() {
		columns[i] = t.inferColumn(names[i], values)
	}
	t.logger.Info("Inferred types", "sheet", sheet.Name())

	table, err := model.NewNormalizedTable(sheet.Name(), sheet.RowCount(), columns)
	if err != nil {
		return nil, nil, err
	}

	report := t.validate(table)
	t.logger.Info("Validated data", "sheet", sheet.Name())
	return table, report, nil
}

// inferColumn classifies and coerces one column
func (t *SheetTransformer) inferColumn(name string, values []model.Value) *model.Column {
	typ, resolved, err := t.classifier.Classify(values)
	if err != nil {
		t.logger.Warn("Error inferring type for column", "column", name, "error", err)
		return model.NewColumn(name, model.ColumnTypeText, model.Stringify(values))
	}
	if !resolved {
		return model.NewUnresolvedColumn(name, values)
	}

	coerced, err := t.classifier.Coerce(values, typ)
	if err != nil {
		t.logger.Warn("Error inferring type for column", "column", name, "type", typ.String(), "error", err)
		return model.NewColumn(name, model.ColumnTypeText, model.Stringify(values))
	}
	return model.NewColumn(name, typ, coerced)
}
