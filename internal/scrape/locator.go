package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names used in errors and reports.
const (
	FieldRegistrationID = "registration_id"
	FieldLegalName      = "legal_name"
	FieldAddress        = "address"
	FieldGeneralManager = "general_manager"
	FieldChairman       = "chairman"
	FieldPhone          = "phone"
	FieldEmail          = "email"
)

// FieldLocator finds one field on a parsed page. Each target field has its
// own locator so a layout change touches only that locator.
type FieldLocator interface {
	Field() string
	Locate(doc *goquery.Document) Result
}

// LabelMatch selects how a label cell is recognised.
type LabelMatch int

const (
	// LabelInStrong matches a td with a direct <strong> child containing the label.
	LabelInStrong LabelMatch = iota
	// LabelInOwnText matches a td whose own text contains the label.
	LabelInOwnText
)

// LabelLocator reads the td following a labelled td, keeping only the first
// line of its text.
type LabelLocator struct {
	Name  string
	Label string
	Match LabelMatch
}

func (l LabelLocator) Field() string { return l.Name }

// Locate scans labelled cells in document order and returns the first one
// that has a following sibling cell.
func (l LabelLocator) Locate(doc *goquery.Document) Result {
	var value *goquery.Selection
	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if !l.matches(td) {
			return true
		}
		next := td.NextAllFiltered("td").First()
		if next.Length() == 0 {
			return true
		}
		value = next
		return false
	})

	if value == nil {
		return Fail(missing(l.Name, "no cell labelled %q", l.Label))
	}

	text := firstLine(renderedText(value))
	if text == "" {
		return Fail(missing(l.Name, "cell labelled %q is empty", l.Label))
	}
	return Ok(text)
}

func (l LabelLocator) matches(td *goquery.Selection) bool {
	switch l.Match {
	case LabelInOwnText:
		return strings.Contains(ownText(td), l.Label)
	default:
		found := false
		td.ChildrenFiltered("strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(ownText(s), l.Label) {
				found = true
				return false
			}
			return true
		})
		return found
	}
}

// RowPosition picks a row within a table body.
type RowPosition int

const (
	RowFirst RowPosition = iota
	RowLast
)

// TableCellLocator reads a cell addressed by position: the Table-th table in
// document order (0-based), the first or last row of its first tbody, the
// Column-th cell. When Pattern is set, values that do not match are rejected.
type TableCellLocator struct {
	Name    string
	Table   int
	Row     RowPosition
	Column  int
	Pattern *regexp.Regexp
}

func (l TableCellLocator) Field() string { return l.Name }

// Locate returns the trimmed cell text.
func (l TableCellLocator) Locate(doc *goquery.Document) Result {
	tables := doc.Find("table")
	if tables.Length() <= l.Table {
		return Fail(missing(l.Name, "page has %d tables, want index %d", tables.Length(), l.Table))
	}

	rows := tables.Eq(l.Table).ChildrenFiltered("tbody").First().ChildrenFiltered("tr")
	if rows.Length() == 0 {
		return Fail(missing(l.Name, "table %d has no rows", l.Table))
	}

	row := rows.Last()
	if l.Row == RowFirst {
		row = rows.First()
	}
	cells := row.ChildrenFiltered("td")
	if cells.Length() <= l.Column {
		return Fail(missing(l.Name, "row of table %d has %d cells", l.Table, cells.Length()))
	}

	text := strings.TrimSpace(renderedText(cells.Eq(l.Column)))
	if l.Pattern != nil && !l.Pattern.MatchString(text) {
		return Fail(invalid(l.Name, "%q does not match %s", text, l.Pattern))
	}
	if text == "" {
		return Fail(missing(l.Name, "cell is empty"))
	}
	return Ok(text)
}

// FirstCellLocator reads the first cell of the first row of the first table.
// It is used on the search results page.
func FirstCellLocator(name string) TableCellLocator {
	return TableCellLocator{Name: name, Table: 0, Row: RowFirst, Column: 0}
}
