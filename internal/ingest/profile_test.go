package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  FILET SAUMON  ", "FILET SAUMON"},
		{"**", ""},
		{"--", ""},
		{"-", ""},
		{"N/A", ""},
		{"na", ""},
		{"", ""},
		{"2/5LB", "2/5LB"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.50", 12.50, true},
		{"12,50", 12.50, true},
		{"$45.00", 45.00, true},
		{"1,234.56", 1234.56, true},
		{"1.234", 1234, true}, // thousands-dot grouping
		{"1,234", 1234, true}, // thousands-comma grouping
		{"-30", -30, true},
		{"0", 0, true},
		{"**", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLineFromRow(t *testing.T) {
	p := DefaultProfile()

	t.Run("full row", func(t *testing.T) {
		line := p.LineFromRow([]string{"SF-10425", "FILET SAUMON ATL", "2/5LB", "3", "15,00", "45,00"})
		assert.Equal(t, "SF-10425", line.Code)
		assert.Equal(t, "FILET SAUMON ATL", line.Description)
		assert.Equal(t, "2/5LB", line.Format)
		assert.Equal(t, 3.0, line.Quantity)
		assert.Equal(t, 15.0, line.UnitPrice)
		assert.Equal(t, 45.0, line.TotalPrice)
	})

	t.Run("placeholder cells come back empty", func(t *testing.T) {
		line := p.LineFromRow([]string{"**", "FRAIS DE LIVRAISON", "--", "1", "25.00", "25.00"})
		assert.Empty(t, line.Code)
		assert.Empty(t, line.Format)
		assert.Equal(t, 25.0, line.TotalPrice)
	})

	t.Run("short row", func(t *testing.T) {
		line := p.LineFromRow([]string{"", "DESCRIPTION SEULE"})
		assert.Equal(t, "DESCRIPTION SEULE", line.Description)
		assert.Zero(t, line.Quantity)
	})

	t.Run("raw cells travel with the line", func(t *testing.T) {
		row := []string{"A", "B", "C", "1", "2", "2"}
		line := p.LineFromRow(row)
		assert.Equal(t, row, line.Columns)
		assert.Equal(t, "C", p.ColumnValue(line, "format"))
	})
}

func TestColumnValue(t *testing.T) {
	p := Profile{"description": {Index: 1, Label: "Desc"}}
	line := p.LineFromRow([]string{"x", " hello "})
	assert.Equal(t, "hello", p.ColumnValue(line, "description"))
	assert.Empty(t, p.ColumnValue(line, "unmapped"))
	assert.Empty(t, Profile{"q": {Index: 9}}.ColumnValue(line, "q"))
}
