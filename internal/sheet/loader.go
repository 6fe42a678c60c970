package sheet

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-enricher/internal/model"
)

var (
	// ErrMissingColumn is returned when the company list lacks the name column.
	ErrMissingColumn = eris.New("sheet: missing required column")
	// ErrMissingPostalColumn is returned when the postal table lacks a column.
	ErrMissingPostalColumn = eris.New("sheet: postal table missing column")
)

// CompanySheet is the loaded company list: the original table plus one record
// per data row, in row order.
type CompanySheet struct {
	Table   *Table
	Records []*model.CompanyRecord
}

// LoadCompanies reads the company list and builds a record per row. The
// header must contain column exactly; otherwise ErrMissingColumn is returned.
// Names are taken from the cell as-is.
func LoadCompanies(path string, opts ReadOptions, column string) (*CompanySheet, error) {
	t, err := ReadTable(path, opts)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: load companies")
	}

	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, eris.Wrapf(ErrMissingColumn, "column %q in %s", column, path)
	}

	records := make([]*model.CompanyRecord, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = model.NewCompanyRecord(i, row[idx], row)
	}

	return &CompanySheet{Table: t, Records: records}, nil
}

// LoadPostalMapping reads the region → postal code table. Codes are kept as
// text; numeric cells come through in their formatted form.
func LoadPostalMapping(path, regionColumn, codeColumn string) (*model.PostalMapping, error) {
	t, err := ReadTable(path, ReadOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "sheet: load postal mapping")
	}

	regionIdx := t.ColumnIndex(regionColumn)
	if regionIdx < 0 {
		return nil, eris.Wrapf(ErrMissingPostalColumn, "column %q in %s", regionColumn, path)
	}
	codeIdx := t.ColumnIndex(codeColumn)
	if codeIdx < 0 {
		return nil, eris.Wrapf(ErrMissingPostalColumn, "column %q in %s", codeColumn, path)
	}

	entries := make([]model.PostalEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		entries = append(entries, model.PostalEntry{
			Region: row[regionIdx],
			Code:   row[codeIdx],
		})
	}

	return model.NewPostalMapping(entries), nil
}
