package scrape

import (
	"context"
	"regexp"
	"strings"

	"github.com/sells-group/company-enricher/internal/browser"
	"github.com/sells-group/company-enricher/internal/model"
)

// managerNameRe accepts 2–4 CJK characters (with the middle dot used in
// transliterated names). Anything else sharing the cell position, such as
// brand names or notes in brackets, is rejected.
var managerNameRe = regexp.MustCompile(`^[\x{4e00}-\x{9fa5}·]{2,4}$`)

// DetailLocators holds one locator per detail field.
type DetailLocators struct {
	LegalName      FieldLocator
	Address        FieldLocator
	GeneralManager FieldLocator
	Chairman       FieldLocator
	Phone          FieldLocator
	Email          FieldLocator
}

// DefaultDetailLocators returns the locators for the detail page layout.
func DefaultDetailLocators() DetailLocators {
	return DetailLocators{
		LegalName: LabelLocator{Name: FieldLegalName, Label: "公司名稱", Match: LabelInStrong},
		Address:   LabelLocator{Name: FieldAddress, Label: "公司所在地", Match: LabelInStrong},
		GeneralManager: TableCellLocator{
			Name:    FieldGeneralManager,
			Table:   3,
			Row:     RowLast,
			Column:  0,
			Pattern: managerNameRe,
		},
		Chairman: LabelLocator{Name: FieldChairman, Label: "董事長", Match: LabelInOwnText},
		Phone:    LabelLocator{Name: FieldPhone, Label: "電話", Match: LabelInStrong},
		Email:    LabelLocator{Name: FieldEmail, Label: "Mail", Match: LabelInStrong},
	}
}

// DetailResults holds the per-field outcome of one detail page.
type DetailResults struct {
	LegalName      Result
	Address        Result
	GeneralManager Result
	Chairman       Result
	Phone          Result
	Email          Result
}

// Details collapses every failed field to model.NotFound.
func (d DetailResults) Details() model.Details {
	return model.Details{
		LegalName:      d.LegalName.OrNotFound(),
		Address:        d.Address.OrNotFound(),
		GeneralManager: d.GeneralManager.OrNotFound(),
		Chairman:       d.Chairman.OrNotFound(),
		Phone:          d.Phone.OrNotFound(),
		Email:          d.Email.OrNotFound(),
	}
}

// Errors returns the failed fields, in output column order.
func (d DetailResults) Errors() []*ExtractError {
	var errs []*ExtractError
	for _, r := range []Result{d.LegalName, d.Address, d.GeneralManager, d.Chairman, d.Phone, d.Email} {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// allFailed returns results with the same error in every field.
func allFailed(kind ErrorKind, err error) DetailResults {
	f := func(field string) Result { return Fail(&ExtractError{Field: field, Kind: kind, Err: err}) }
	return DetailResults{
		LegalName:      f(FieldLegalName),
		Address:        f(FieldAddress),
		GeneralManager: f(FieldGeneralManager),
		Chairman:       f(FieldChairman),
		Phone:          f(FieldPhone),
		Email:          f(FieldEmail),
	}
}

// DetailFetcher reads the six detail fields for a registration identifier.
type DetailFetcher struct {
	session  browser.Session
	pacer    *browser.Pacer
	template string // contains {id}
	window   browser.Window
	postal   *model.PostalMapping
	locators DetailLocators
}

// NewDetailFetcher creates a DetailFetcher navigating session to detailURL,
// which must contain an {id} placeholder.
func NewDetailFetcher(session browser.Session, pacer *browser.Pacer, detailURL string, window browser.Window, postal *model.PostalMapping) *DetailFetcher {
	return &DetailFetcher{
		session:  session,
		pacer:    pacer,
		template: detailURL,
		window:   window,
		postal:   postal,
		locators: DefaultDetailLocators(),
	}
}

// WithLocators replaces the field locators.
func (f *DetailFetcher) WithLocators(l DetailLocators) *DetailFetcher {
	f.locators = l
	return f
}

// DetailURL returns the detail page URL for id.
func (f *DetailFetcher) DetailURL(id string) string {
	return strings.ReplaceAll(f.template, "{id}", id)
}

// FetchResults loads the detail page for id and runs every locator. A
// NotFound id short-circuits without touching the browser.
func (f *DetailFetcher) FetchResults(ctx context.Context, id string) DetailResults {
	if id == model.NotFound || strings.TrimSpace(id) == "" {
		return allFailed(KindMissing, errNoIdentifier)
	}

	doc, raw, err := loadPage(ctx, f.session, f.pacer, f.DetailURL(id), f.window)
	if err != nil {
		return allFailed(navigationKind(err), err)
	}

	locate := func(l FieldLocator) Result {
		res := l.Locate(doc)
		if res.Err != nil {
			res.Err = classifyMissing(res.Err, raw)
		}
		return res
	}

	out := DetailResults{
		LegalName:      locate(f.locators.LegalName),
		Address:        locate(f.locators.Address),
		GeneralManager: locate(f.locators.GeneralManager),
		Chairman:       locate(f.locators.Chairman),
		Phone:          locate(f.locators.Phone),
		Email:          locate(f.locators.Email),
	}
	if out.Address.Err == nil {
		out.Address.Value = f.postal.Augment(out.Address.Value)
	}
	return out
}
