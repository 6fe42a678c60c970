package sheet

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/company-enricher/internal/model"
)

const outputSheet = "Sheet1"

// WriteOutput writes the original table with the enrichment columns appended.
// Row order follows records, which must line up one-to-one with the table
// rows. An existing file at path is overwritten.
func WriteOutput(path string, cs *CompanySheet) error {
	if len(cs.Records) != len(cs.Table.Rows) {
		return eris.Errorf("sheet: %d records for %d rows", len(cs.Records), len(cs.Table.Rows))
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	header := make([]string, 0, len(cs.Table.Header)+len(model.OutputColumns))
	header = append(header, cs.Table.Header...)
	header = append(header, model.OutputColumns...)

	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, rec := range cs.Records {
		row := make([]string, 0, len(header))
		row = append(row, cs.Table.Rows[i]...)
		row = append(row, rec.OutputValues()...)
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return eris.Wrap(err, "sheet: header style")
	}
	if err := f.SetRowStyle(outputSheet, 1, 1, headerStyle); err != nil {
		return eris.Wrap(err, "sheet: apply header style")
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return eris.Wrap(err, "sheet: column name")
	}
	if err := f.SetColWidth(outputSheet, "A", last, 18); err != nil {
		return eris.Wrap(err, "sheet: column width")
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "sheet: save %s", path)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return eris.Wrap(err, "sheet: cell name")
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(outputSheet, cell, &vals); err != nil {
		return eris.Wrapf(err, "sheet: write row %d", rowNum)
	}
	return nil
}
