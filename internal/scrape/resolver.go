// Package scrape resolves registration identifiers and reads company details
// from the lookup sites through a shared browser session.
package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"

	"github.com/sells-group/company-enricher/internal/browser"
)

// Resolver looks up a company's registration identifier on the search site.
type Resolver struct {
	session  browser.Session
	pacer    *browser.Pacer
	template string // contains {query}
	window   browser.Window
	locator  FieldLocator
}

// NewResolver creates a Resolver navigating session to searchURL, which must
// contain a {query} placeholder.
func NewResolver(session browser.Session, pacer *browser.Pacer, searchURL string, window browser.Window) *Resolver {
	return &Resolver{
		session:  session,
		pacer:    pacer,
		template: searchURL,
		window:   window,
		locator:  FirstCellLocator(FieldRegistrationID),
	}
}

// SearchURL returns the search URL for name. The name is embedded as-is; the
// browser applies whatever encoding it needs.
func (r *Resolver) SearchURL(name string) string {
	return strings.ReplaceAll(r.template, "{query}", name)
}

// Resolve makes exactly one lookup for name and returns the identifier found
// in the first cell of the first results table.
func (r *Resolver) Resolve(ctx context.Context, name string) Result {
	doc, raw, err := loadPage(ctx, r.session, r.pacer, r.SearchURL(name), r.window)
	if err != nil {
		return Fail(navigationError(FieldRegistrationID, err))
	}

	res := r.locator.Locate(doc)
	if res.Err != nil {
		return Fail(classifyMissing(res.Err, raw))
	}
	return Ok(normalizeID(res.Value))
}

// normalizeID folds full-width digits and letters to ASCII so the identifier
// can be used in the detail URL.
func normalizeID(id string) string {
	return strings.TrimSpace(width.Narrow.String(id))
}

// loadPage navigates, waits a random interval from w, and parses the rendered
// document. It returns the raw HTML alongside for block detection.
func loadPage(ctx context.Context, s browser.Session, p *browser.Pacer, url string, w browser.Window) (*goquery.Document, string, error) {
	if err := s.Navigate(ctx, url); err != nil {
		return nil, "", err
	}
	if err := p.Pause(ctx, w); err != nil {
		return nil, "", err
	}
	raw, err := s.HTML(ctx)
	if err != nil {
		return nil, "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, raw, err
	}
	return doc, raw, nil
}
