package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vamsi260801-bit/nhfs/dataset"
	"github.com/vamsi260801-bit/nhfs/domain/models"
)

func f(v float64) *float64 { return &v }

func fixture() *models.Dataset {
	return models.NewDataset("fixture", []string{"Anaemia", "Stunting"}, 3, []models.SurveyRecord{
		{Region: "Kerala", Survey: "NFHS-5", Area: "Total", Values: []*float64{f(36.35), nil}},
		{Region: "Kerala", Survey: "NFHS-4", Area: "Total", Values: []*float64{f(34.3), f(19.7)}},
	})
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"India/States/UTs", "Survey", "Area", "Anaemia", "Stunting"},
		Header(fixture().Indicators))
}

func TestRawTable(t *testing.T) {
	ds := fixture()

	tests := []struct {
		format Format
		want   []string
	}{
		{format: FormatText, want: []string{"KERALA", "36.35", "19.7", "STUNTING"}},
		{format: FormatMarkdown, want: []string{"| Kerala |", "| 36.35 |", "Stunting"}},
		{format: FormatHTML, want: []string{"<table", "<td>Kerala</td>", "36.35"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := RawTable(ds.Records, ds.Indicators, tt.format)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, strings.ToUpper(out), strings.ToUpper(w))
			}
		})
	}
}

func TestRawTableUnknownFormat(t *testing.T) {
	ds := fixture()
	_, err := RawTable(ds.Records, ds.Indicators, Format("pdf"))
	assert.Error(t, err)
}

func TestRawTableEmpty(t *testing.T) {
	out, err := RawTable(nil, fixture().Indicators, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, out, "Anaemia")
}

func TestExportXLSX(t *testing.T) {
	ds := fixture()

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, ds.Indicators, ds.Records))

	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{exportSheet}, wb.GetSheetList())
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header(ds.Indicators), rows[0])

	back, err := dataset.Parse("export", rows)
	require.NoError(t, err)
	require.Len(t, back.Records, 2)
	assert.Equal(t, "Kerala", back.Records[0].Region)
	assert.InDelta(t, 36.35, *back.Records[0].Values[0], 1e-9)
	assert.Nil(t, back.Records[0].Values[1])
	assert.InDelta(t, 19.7, *back.Records[1].Values[1], 1e-9)
}
