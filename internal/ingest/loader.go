package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

// LoadXLSX reads invoice lines from a workbook sheet. Pass sheet="" for the
// first sheet. The first row is treated as a header when it does not parse
// as a line (no numeric quantity and no numeric total).
func LoadXLSX(path, sheet string, profile Profile, logger *slog.Logger) ([]models.RawLine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if profile == nil {
		profile = DefaultProfile()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	lines := rowsToLines(rows, profile)
	logger.Info("ingest.xlsx", "path", path, "sheet", sheet, "rows", len(rows), "lines", len(lines))
	return lines, nil
}

// LoadCSV reads invoice lines from a CSV export, same profile semantics as
// LoadXLSX.
func LoadCSV(path string, profile Profile, logger *slog.Logger) ([]models.RawLine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if profile == nil {
		profile = DefaultProfile()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	lines := rowsToLines(rows, profile)
	logger.Info("ingest.csv", "path", path, "rows", len(rows), "lines", len(lines))
	return lines, nil
}

func rowsToLines(rows [][]string, profile Profile) []models.RawLine {
	var lines []models.RawLine
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		line := profile.LineFromRow(row)
		if i == 0 && looksLikeHeader(line) {
			continue
		}
		if line.Description == "" && line.Quantity == 0 && line.TotalPrice == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if Sanitize(cell) != "" {
			return false
		}
	}
	return true
}

func looksLikeHeader(line models.RawLine) bool {
	if line.Quantity != 0 || line.TotalPrice != 0 || line.UnitPrice != 0 {
		return false
	}
	d := strings.ToLower(line.Description)
	return d == "description" || strings.Contains(d, "desc")
}
