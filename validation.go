package sheetpipe

import (
	"encoding/json"
	"fmt"

	"github.com/nao1215/sheetpipe/domain/model"
)

// validate builds the validation report of a table, logs it and warns about
// columns whose null percentage exceeds the threshold
func (t *SheetTransformer) validate(table *model.NormalizedTable) *model.ValidationReport {
	report := model.NewValidationReport(table)

	data, err := json.Marshal(report)
	if err != nil {
		t.logger.Warn("Failed to encode validation results", "error", err)
	} else {
		t.logger.Info("Validation results: " + string(data))
	}

	for _, c := range report.HighNullColumns(t.nullWarningThreshold) {
		t.logger.Warn(fmt.Sprintf("High null percentage (%.1f%%) in column: %s", report.NullPercentage(c), c.Name))
	}
	return report
}
