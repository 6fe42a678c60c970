// Package pipeline runs the load → resolve → fetch → write enrichment batch.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-enricher/internal/browser"
	"github.com/sells-group/company-enricher/internal/config"
	"github.com/sells-group/company-enricher/internal/model"
	"github.com/sells-group/company-enricher/internal/scrape"
	"github.com/sells-group/company-enricher/internal/sheet"
)

// Options tune a single run.
type Options struct {
	Limit  int  // rows to look up; 0 means all
	DryRun bool // load and validate inputs only
}

// Pipeline enriches the company workbook. Rows are processed strictly one at
// a time over a single browser session.
type Pipeline struct {
	cfg   *config.Config
	open  browser.Opener
	pacer *browser.Pacer
	opts  Options
}

// New creates a Pipeline. open is called at most once per Run, after the
// inputs have been validated.
func New(cfg *config.Config, open browser.Opener, pacer *browser.Pacer, opts Options) *Pipeline {
	return &Pipeline{cfg: cfg, open: open, pacer: pacer, opts: opts}
}

// Run executes the batch. A missing company column returns an error wrapping
// sheet.ErrMissingColumn before any browser session is opened or output
// written. Per-row lookup failures never fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString(), p.cfg)
	log := zap.L().With(zap.String("run_id", report.RunID))

	companies, err := sheet.LoadCompanies(p.cfg.Input.CompaniesPath,
		sheet.ReadOptions{SheetName: p.cfg.Input.Sheet}, p.cfg.Input.CompanyColumn)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load companies")
	}
	report.Total = len(companies.Records)

	postal, err := p.loadPostal()
	if err != nil {
		return nil, err
	}

	log.Info("pipeline: inputs loaded",
		zap.String("input", p.cfg.Input.CompaniesPath),
		zap.Int("companies", len(companies.Records)),
		zap.Int("postal_entries", postal.Len()),
	)

	if p.opts.DryRun {
		report.DryRun = true
		report.finish()
		return report, nil
	}

	session, err := p.open(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open browser")
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("pipeline: close browser", zap.Error(closeErr))
		}
	}()

	resolver := scrape.NewResolver(session, p.pacer, p.cfg.Sites.SearchURL, browser.Window{
		Min: p.cfg.Pacing.SearchMin,
		Max: p.cfg.Pacing.SearchMax,
	})
	fetcher := scrape.NewDetailFetcher(session, p.pacer, p.cfg.Sites.DetailURL, browser.Window{
		Min: p.cfg.Pacing.DetailMin,
		Max: p.cfg.Pacing.DetailMax,
	}, postal)

	for i, rec := range companies.Records {
		if p.opts.Limit > 0 && i >= p.opts.Limit {
			break
		}
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "pipeline: interrupted")
		}

		start := time.Now()
		log.Info("pipeline: processing company",
			zap.Int("row", i+1),
			zap.Int("total", len(companies.Records)),
			zap.String("name", rec.Name),
		)

		row := p.enrich(ctx, resolver, fetcher, rec)
		// A cancelled lookup looks like NotFound; never write it out as a result.
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "pipeline: interrupted")
		}
		row.DurationMS = time.Since(start).Milliseconds()
		report.add(row)

		log.Info("pipeline: company done",
			zap.String("name", rec.Name),
			zap.String("registration_id", rec.RegistrationID),
			zap.Int("fields_found", row.FieldsFound),
			zap.Int64("duration_ms", row.DurationMS),
		)
	}

	if err := sheet.WriteOutput(p.cfg.Output.Path, companies); err != nil {
		return nil, eris.Wrap(err, "pipeline: write output")
	}

	report.finish()
	log.Info("pipeline: batch complete",
		zap.Int("total", report.Total),
		zap.Int("processed", report.Processed),
		zap.Int("resolved", report.Resolved),
		zap.String("output", p.cfg.Output.Path),
	)
	return report, nil
}

// enrich resolves and fetches one record in place.
func (p *Pipeline) enrich(ctx context.Context, resolver *scrape.Resolver, fetcher *scrape.DetailFetcher, rec *model.CompanyRecord) RowReport {
	row := RowReport{Index: rec.Index, Name: rec.Name}

	if strings.TrimSpace(rec.Name) == "" {
		row.addError(&scrape.ExtractError{Field: scrape.FieldRegistrationID, Kind: scrape.KindMissing, Err: eris.New("empty company name")})
		rec.RegistrationID = model.NotFound
		rec.Details = model.NotFoundDetails()
		return row
	}

	idRes := resolver.Resolve(ctx, rec.Name)
	rec.RegistrationID = idRes.OrNotFound()
	row.RegistrationID = rec.RegistrationID
	if idRes.Err != nil {
		row.addError(idRes.Err)
	}

	details := fetcher.FetchResults(ctx, rec.RegistrationID)
	rec.Details = details.Details()
	if rec.Resolved() {
		for _, e := range details.Errors() {
			row.addError(e)
		}
		row.FieldsFound = detailFieldCount - len(details.Errors())
	}

	for _, e := range row.Errors {
		zap.L().Debug("pipeline: field not found",
			zap.String("company", rec.Name),
			zap.String("field", e.Field),
			zap.String("kind", e.Kind),
			zap.String("message", e.Message),
		)
	}
	return row
}

// loadPostal reads the postal table; without a configured path every
// address is stored unprefixed.
func (p *Pipeline) loadPostal() (*model.PostalMapping, error) {
	if p.cfg.Input.PostalPath == "" {
		return model.NewPostalMapping(nil), nil
	}
	m, err := sheet.LoadPostalMapping(p.cfg.Input.PostalPath, p.cfg.Input.RegionColumn, p.cfg.Input.CodeColumn)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load postal mapping")
	}
	return m, nil
}
