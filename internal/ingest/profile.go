// Package ingest turns vendor spreadsheets into RawLine batches. A column
// profile maps engine field names to spreadsheet columns, so a vendor that
// puts the format notation in a different column needs a profile change,
// not a parser change.
package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

// ColumnRef points a field at a spreadsheet column.
type ColumnRef struct {
	Index int    `json:"index" yaml:"index"`
	Label string `json:"label" yaml:"label"`
}

// Profile maps engine field names ("description", "format", "quantity",
// "unitPrice", "totalPrice", "unit", "code") to vendor columns.
type Profile map[string]ColumnRef

// DefaultProfile matches the common Code/Description/Format/Qty/Price/Amount
// layout the Quebec suppliers all use.
func DefaultProfile() Profile {
	return Profile{
		"code":        {Index: 0, Label: "Code"},
		"description": {Index: 1, Label: "Description"},
		"format":      {Index: 2, Label: "Format"},
		"quantity":    {Index: 3, Label: "Qté"},
		"unitPrice":   {Index: 4, Label: "Prix Unit."},
		"totalPrice":  {Index: 5, Label: "Montant"},
	}
}

// placeholders are vendor notations for "no value". They are scrubbed once
// here, at the ingestion boundary, never downstream.
var placeholders = map[string]bool{
	"**": true, "--": true, "-": true, "n/a": true, "na": true, "nil": true,
}

// Sanitize trims a cell and collapses placeholder values to empty.
func Sanitize(s string) string {
	t := strings.TrimSpace(s)
	if placeholders[strings.ToLower(t)] {
		return ""
	}
	return t
}

var thousandsDotRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
var thousandsCommaRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)

// ParseNumber reads a vendor numeric cell. Both "." and "," decimal
// separators are accepted; thousands groupings and currency symbols are
// stripped. ok=false when nothing numeric remains.
func ParseNumber(s string) (float64, bool) {
	t := Sanitize(s)
	t = strings.NewReplacer("$", "", " ", "", " ", "").Replace(t)
	if t == "" {
		return 0, false
	}
	switch {
	case thousandsDotRe.MatchString(t):
		t = strings.ReplaceAll(t, ".", "")
	case thousandsCommaRe.MatchString(t):
		t = strings.ReplaceAll(t, ",", "")
	case strings.Contains(t, ",") && !strings.Contains(t, "."):
		t = strings.ReplaceAll(t, ",", ".")
	case strings.Contains(t, ",") && strings.Contains(t, "."):
		t = strings.ReplaceAll(t, ",", "")
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ColumnValue returns the sanitized cell a profile field points at, or ""
// when the field is unmapped or the row is short.
func (p Profile) ColumnValue(line models.RawLine, field string) string {
	ref, ok := p[field]
	if !ok || ref.Index < 0 || ref.Index >= len(line.Columns) {
		return ""
	}
	return Sanitize(line.Columns[ref.Index])
}

// NumericColumnValue parses the mapped cell as a number.
func (p Profile) NumericColumnValue(line models.RawLine, field string) (float64, bool) {
	return ParseNumber(p.ColumnValue(line, field))
}

// LineFromRow builds a RawLine from one spreadsheet row using the profile.
// The raw cells travel with the line so handlers can re-read vendor-specific
// columns later.
func (p Profile) LineFromRow(row []string) models.RawLine {
	line := models.RawLine{Columns: row}
	line.Code = p.ColumnValue(line, "code")
	line.Description = p.ColumnValue(line, "description")
	line.Format = p.ColumnValue(line, "format")
	line.Unit = p.ColumnValue(line, "unit")
	if q, ok := p.NumericColumnValue(line, "quantity"); ok {
		line.Quantity = q
	}
	if u, ok := p.NumericColumnValue(line, "unitPrice"); ok {
		line.UnitPrice = u
	}
	if t, ok := p.NumericColumnValue(line, "totalPrice"); ok {
		line.TotalPrice = t
	}
	return line
}
