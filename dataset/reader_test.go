package dataset

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `India/States/UTs,Survey,Area,Women anaemic (%),Children stunted (%)
Kerala,NFHS-4,Total,34.3,19.7
Kerala,NFHS-5,Total,36.3,(23.4)
Bihar,NFHS-5,Total,63.5,*
`

// writeXLSX creates a one-sheet workbook at path
func writeXLSX(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, file.SaveAs(path))
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.xlsx")
	writeXLSX(t, path, [][]interface{}{
		{"India/States/UTs", "Survey", "Area", "Women anaemic (%)", "Children stunted (%)"},
		{"India", "NFHS-5", "Urban", 53.8, 30.1},
		{"India", "NFHS-5", "Rural", 58.5, nil},
		{},
		{"Goa", "NFHS-4", "Total", 31.3, 20.1},
	})

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Women anaemic (%)", "Children stunted (%)"}, ds.IndicatorNames())
	require.Len(t, ds.Records, 3)
	assert.Equal(t, "India", ds.Records[0].Region)
	assert.Equal(t, "Rural", ds.Records[1].Area)
	assert.InDelta(t, 53.8, *ds.Records[0].Values[0], 1e-9)
	assert.Nil(t, ds.Records[1].Values[1])

	ind, ok := ds.Indicator("Children stunted (%)")
	require.True(t, ok)
	assert.Equal(t, 4, ind.Column)
	assert.InDelta(t, 20.1, *ds.Records[2].Value(ind), 1e-9)
}

func TestLoadXLSXIgnoresNumberFormats(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.xlsx")
	file := excelize.NewFile()
	defer file.Close()

	require.NoError(t, file.SetSheetRow("Sheet1", "A1", &[]interface{}{"India/States/UTs", "Survey", "Area", "Share", "Women anaemic (%)"}))
	require.NoError(t, file.SetSheetRow("Sheet1", "A2", &[]interface{}{"Kerala", "NFHS-5", "Total", 0.12345, 36.347}))

	percent, err := file.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	oneDecimal := "0.0"
	rounded, err := file.NewStyle(&excelize.Style{CustomNumFmt: &oneDecimal})
	require.NoError(t, err)
	require.NoError(t, file.SetCellStyle("Sheet1", "D2", "D2", percent))
	require.NoError(t, file.SetCellStyle("Sheet1", "E2", "E2", rounded))
	require.NoError(t, file.SaveAs(path))

	ds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	require.NotNil(t, ds.Records[0].Values[0])
	require.NotNil(t, ds.Records[0].Values[1])
	assert.InDelta(t, 0.12345, *ds.Records[0].Values[0], 1e-9)
	assert.InDelta(t, 36.347, *ds.Records[0].Values[1], 1e-9)
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.xlsx")
	writeXLSX(t, path, [][]interface{}{
		{"India/States/UTs", "Survey", "Area", "A"},
		{"Goa", "NFHS-4", "Total", 1},
	})

	_, err := Load(path, WithSheet("Missing"))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+sampleCSV), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)
	assert.InDelta(t, 23.4, *ds.Records[1].Values[1], 1e-9)
	assert.Nil(t, ds.Records[2].Values[1])
}

func TestLoadCompressed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		compress func(t *testing.T, w io.Writer, payload []byte)
	}{
		{
			name:     "gzip",
			fileName: "nfhs.csv.gz",
			compress: func(t *testing.T, w io.Writer, payload []byte) {
				gw := gzip.NewWriter(w)
				_, err := gw.Write(payload)
				require.NoError(t, err)
				require.NoError(t, gw.Close())
			},
		},
		{
			name:     "lz4",
			fileName: "nfhs.csv.lz4",
			compress: func(t *testing.T, w io.Writer, payload []byte) {
				lw := lz4.NewWriter(w)
				_, err := lw.Write(payload)
				require.NoError(t, err)
				require.NoError(t, lw.Close())
			},
		},
		{
			name:     "zstd",
			fileName: "nfhs.csv.zst",
			compress: func(t *testing.T, w io.Writer, payload []byte) {
				zw, err := zstd.NewWriter(w)
				require.NoError(t, err)
				_, err = zw.Write(payload)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
			},
		},
		{
			name:     "xz",
			fileName: "nfhs.csv.xz",
			compress: func(t *testing.T, w io.Writer, payload []byte) {
				xw, err := xz.NewWriter(w)
				require.NoError(t, err)
				_, err = xw.Write(payload)
				require.NoError(t, err)
				require.NoError(t, xw.Close())
			},
		},
		{
			name:     "zip picks largest member",
			fileName: "nfhs.zip",
			compress: func(t *testing.T, w io.Writer, payload []byte) {
				zw := zip.NewWriter(w)
				small, err := zw.Create("readme.txt")
				require.NoError(t, err)
				_, err = small.Write([]byte("x"))
				require.NoError(t, err)
				big, err := zw.Create("data/nfhs.csv")
				require.NoError(t, err)
				_, err = big.Write(payload)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.compress(t, &buf, []byte(sampleCSV))
			path := filepath.Join(t.TempDir(), tt.fileName)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			ds, err := Load(path)
			require.NoError(t, err)
			assert.Len(t, ds.Records, 3)
			assert.Equal(t, []string{"Women anaemic (%)", "Children stunted (%)"}, ds.IndicatorNames())
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTwiceIsEqual(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Indicators, second.Indicators)
}

func TestParseIndicatorDomain(t *testing.T) {
	t.Parallel()

	ds, err := Parse("fixture", [][]string{
		{"India/States/UTs", "Survey", "Area", "First", "Second"},
		{"Goa", "NFHS-5", "Total", "1", "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, ds.IndicatorNames())
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []string
	}{
		{name: "too few columns", header: []string{"India/States/UTs", "Survey"}},
		{name: "reordered identifiers", header: []string{"Survey", "India/States/UTs", "Area", "X"}},
		{name: "renamed identifier", header: []string{"State", "Survey", "Area", "X"}},
		{name: "unnamed indicator", header: []string{"India/States/UTs", "Survey", "Area", "", "X"}},
		{name: "duplicate indicator", header: []string{"India/States/UTs", "Survey", "Area", "X", "X"}},
		{name: "identifier repeated as indicator", header: []string{"India/States/UTs", "Survey", "Area", "Area"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("fixture", [][]string{tt.header})
			assert.True(t, errors.Is(err, ErrInvalidSchema), "got %v", err)
		})
	}
}

func TestParseTrimsHeaderAndTrailingColumns(t *testing.T) {
	t.Parallel()

	ds, err := Parse("fixture", [][]string{
		{" India/States/UTs ", "Survey", "Area ", "X", "", ""},
		{"Goa", "NFHS-5", "Total", "4.5", "", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ds.IndicatorNames())
	assert.Len(t, ds.Records[0].Values, 1)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	_, err := Parse("fixture", nil)
	assert.True(t, errors.Is(err, ErrEmptyData))

	ds, err := Parse("fixture", [][]string{{"India/States/UTs", "Survey", "Area", "X"}})
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want *float64
	}{
		{in: "12.5", want: ptr(12.5)},
		{in: " 7 ", want: ptr(7)},
		{in: "(35.2)", want: ptr(35.2)},
		{in: "1,234.5", want: ptr(1234.5)},
		{in: "", want: nil},
		{in: "*", want: nil},
		{in: "NA", want: nil},
		{in: "-", want: nil},
		{in: "NaN", want: nil},
		{in: "Inf", want: nil},
	}

	for _, tt := range tests {
		got := parseValue(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		if assert.NotNil(t, got, "input %q", tt.in) {
			assert.InDelta(t, *tt.want, *got, 1e-9, "input %q", tt.in)
		}
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	t.Parallel()

	rows, err := readCSV(strings.NewReader("India/States/UTs,Survey,Area,X\nGoa,NFHS-5\n"))
	require.NoError(t, err)

	ds, err := Parse("fixture", rows)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "", ds.Records[0].Area)
	assert.Nil(t, ds.Records[0].Values[0])
}

func ptr(v float64) *float64 {
	return &v
}
