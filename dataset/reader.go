package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"
	"github.com/xuri/excelize/v2"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// Option configures Load.
type Option func(*options)

type options struct {
	sheet string
}

// WithSheet reads the named sheet instead of the first one.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// Load reads a survey export (xlsx or csv, optionally compressed) into a Dataset.
func Load(path string, opts ...Option) (*models.Dataset, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	rc, name, err := openDecompressed(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	var rows [][]string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = readSheet(rc, o.sheet)
	case ".csv":
		rows, err = readCSV(rc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(path, rows)
}

func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyData
		}
		sheet = sheets[0]
	}
	// stored values, not the number-formatted display text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// Parse turns raw rows (header first) into a Dataset. The first three columns
// must be the identifier columns by name; every other column is an indicator.
func Parse(source string, rows [][]string) (*models.Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}

	indicators, err := validateHeader(header)
	if err != nil {
		return nil, err
	}

	offset := len(models.IdentifierColumns)
	records := make([]models.SurveyRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := models.SurveyRecord{
			Region: cell(row, 0),
			Survey: cell(row, 1),
			Area:   cell(row, 2),
			Values: make([]*float64, len(indicators)),
		}
		for i := range indicators {
			rec.Values[i] = parseValue(cell(row, offset+i))
		}
		records = append(records, rec)
	}

	log.Printf("parsed %s: %d records, %d indicators", source, len(records), len(indicators))
	return models.NewDataset(source, indicators, offset, records), nil
}

func validateHeader(header []string) ([]string, error) {
	if len(header) < len(models.IdentifierColumns) {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", ErrInvalidSchema, len(models.IdentifierColumns), len(header))
	}
	for i, want := range models.IdentifierColumns {
		if header[i] != want {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidSchema, i+1, header[i], want)
		}
	}

	indicators := header[len(models.IdentifierColumns):]
	seen := make(map[string]bool, len(indicators))
	for i, name := range indicators {
		if name == "" {
			return nil, fmt.Errorf("%w: indicator column %d has no name", ErrInvalidSchema, len(models.IdentifierColumns)+i+1)
		}
		if seen[name] || go_utils.InArray(name, models.IdentifierColumns) {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidSchema, name)
		}
		seen[name] = true
	}
	return indicators, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseValue returns nil for missing cells. Estimates printed in parentheses,
// e.g. "(12.3)", are accepted as their numeric value.
func parseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
