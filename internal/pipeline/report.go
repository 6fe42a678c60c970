package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/company-enricher/internal/config"
	"github.com/sells-group/company-enricher/internal/model"
	"github.com/sells-group/company-enricher/internal/scrape"
)

// detailFieldCount is the number of detail columns filled per company.
const detailFieldCount = 6

// FieldError is a serialisable scrape.ExtractError.
type FieldError struct {
	Field   string `yaml:"field"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message,omitempty"`
}

// RowReport is the outcome of one company row.
type RowReport struct {
	Index          int          `yaml:"index"`
	Name           string       `yaml:"name"`
	RegistrationID string       `yaml:"registration_id,omitempty"`
	FieldsFound    int          `yaml:"fields_found"`
	DurationMS     int64        `yaml:"duration_ms"`
	Errors         []FieldError `yaml:"errors,omitempty"`
}

func (r *RowReport) addError(e *scrape.ExtractError) {
	fe := FieldError{Field: e.Field, Kind: string(e.Kind)}
	if e.Err != nil {
		fe.Message = e.Err.Error()
	}
	r.Errors = append(r.Errors, fe)
}

// Report summarises a run. It never influences the output workbook.
type Report struct {
	RunID      string      `yaml:"run_id"`
	Input      string      `yaml:"input"`
	Output     string      `yaml:"output"`
	DryRun     bool        `yaml:"dry_run"`
	StartedAt  time.Time   `yaml:"started_at"`
	FinishedAt time.Time   `yaml:"finished_at"`
	Total      int         `yaml:"total"`
	Processed  int         `yaml:"processed"`
	Resolved   int         `yaml:"resolved"`
	Rows       []RowReport `yaml:"rows,omitempty"`
}

func newReport(runID string, cfg *config.Config) *Report {
	return &Report{
		RunID:     runID,
		Input:     cfg.Input.CompaniesPath,
		Output:    cfg.Output.Path,
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) add(row RowReport) {
	r.Processed++
	if row.RegistrationID != "" && row.RegistrationID != model.NotFound {
		r.Resolved++
	}
	r.Rows = append(r.Rows, row)
}

func (r *Report) finish() {
	r.FinishedAt = time.Now().UTC()
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ErrorKinds counts field errors by kind across all rows.
func (r *Report) ErrorKinds() map[string]int {
	out := make(map[string]int)
	for _, row := range r.Rows {
		for _, e := range row.Errors {
			out[e.Kind]++
		}
	}
	return out
}

// WriteReport writes r as YAML to path, replacing any existing file.
func (r *Report) WriteReport(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write report %s", path)
	}
	return nil
}

// FormatSummary renders a short human-readable summary of the run.
func FormatSummary(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	if r.DryRun {
		fmt.Fprintf(&b, "Dry run: %d companies in %s\n", r.Total, r.Input)
		return b.String()
	}
	fmt.Fprintf(&b, "Companies: %d total, %d processed, %d resolved\n", r.Total, r.Processed, r.Resolved)

	found := 0
	for _, row := range r.Rows {
		found += row.FieldsFound
	}
	if r.Processed > 0 {
		fmt.Fprintf(&b, "Detail fields found: %d/%d\n", found, r.Processed*detailFieldCount)
	}

	kinds := r.ErrorKinds()
	if len(kinds) > 0 {
		keys := make([]string, 0, len(kinds))
		for k := range kinds {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Not found by reason:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %d\n", k, kinds[k])
		}
	}
	fmt.Fprintf(&b, "Elapsed: %s\n", r.Duration().Round(time.Millisecond))
	return b.String()
}
