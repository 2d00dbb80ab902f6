package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

const exportSheet = "NFHS"

// ExportXLSX writes records as a single sheet workbook with the same layout
// as the source export.
func ExportXLSX(w io.Writer, indicators []models.Indicator, records []models.SurveyRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := Header(indicators)
	headerRow := make([]interface{}, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{rec.Region, rec.Survey, rec.Area}
		for _, ind := range indicators {
			if v := rec.Value(ind); v != nil {
				row = append(row, *v)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
