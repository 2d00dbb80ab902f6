// Package report renders the filtered survey records as tables.
package report

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Header returns the column names of a raw table: identifiers first, then
// indicators in column order.
func Header(indicators []models.Indicator) []string {
	header := make([]string, 0, len(models.IdentifierColumns)+len(indicators))
	header = append(header, models.IdentifierColumns...)
	for _, ind := range indicators {
		header = append(header, ind.Name)
	}
	return header
}

// RawTable renders records with every indicator column. Missing values are
// empty cells.
func RawTable(records []models.SurveyRecord, indicators []models.Indicator, format Format) (string, error) {
	t := table.NewWriter()

	header := table.Row{}
	for _, name := range Header(indicators) {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for _, rec := range records {
		row := table.Row{rec.Region, rec.Survey, rec.Area}
		for _, ind := range indicators {
			row = append(row, formatValue(rec.Value(ind)))
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)

	switch format {
	case FormatText, "":
		return t.Render(), nil
	case FormatMarkdown:
		return t.RenderMarkdown(), nil
	case FormatHTML:
		return t.RenderHTML(), nil
	default:
		return "", fmt.Errorf("report: unknown table format %q", format)
	}
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
