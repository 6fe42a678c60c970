package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "公司列表.xlsx", cfg.Input.CompaniesPath)
	assert.Empty(t, cfg.Input.Sheet)
	assert.Equal(t, "公司名稱", cfg.Input.CompanyColumn)
	assert.Equal(t, "郵遞區號.xlsx", cfg.Input.PostalPath)
	assert.Equal(t, "區域", cfg.Input.RegionColumn)
	assert.Equal(t, "郵遞區號", cfg.Input.CodeColumn)
	assert.Equal(t, "公司列表_完整資訊.xlsx", cfg.Output.Path)
	assert.Empty(t, cfg.Output.ReportPath)
	assert.Equal(t, "https://tw.piliapp.com/vat-calculator/tw/search/?q={query}", cfg.Sites.SearchURL)
	assert.Equal(t, "https://www.twincn.com/item.aspx?no={id}", cfg.Sites.DetailURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Browser.Timeout())
	assert.NotEmpty(t, cfg.Browser.UserAgents)
	assert.Equal(t, 2*time.Second, cfg.Pacing.SearchMin)
	assert.Equal(t, 4*time.Second, cfg.Pacing.SearchMax)
	assert.Equal(t, 1*time.Second, cfg.Pacing.DetailMin)
	assert.Equal(t, 2*time.Second, cfg.Pacing.DetailMax)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
input:
  companies_path: list.xlsx
  sheet: 名單
  company_column: 名稱
output:
  path: out.xlsx
  report_path: report.yaml
browser:
  headless: true
pacing:
  search_min: 500ms
  search_max: 1s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "list.xlsx", cfg.Input.CompaniesPath)
	assert.Equal(t, "名單", cfg.Input.Sheet)
	assert.Equal(t, "名稱", cfg.Input.CompanyColumn)
	assert.Equal(t, "out.xlsx", cfg.Output.Path)
	assert.Equal(t, "report.yaml", cfg.Output.ReportPath)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.SearchMin)
	assert.Equal(t, time.Second, cfg.Pacing.SearchMax)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 2*time.Second, cfg.Pacing.DetailMax)
	assert.Equal(t, "郵遞區號.xlsx", cfg.Input.PostalPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0644))
	t.Setenv("ENRICH_LOG_LEVEL", "warn")
	t.Setenv("ENRICH_OUTPUT_PATH", "env.xlsx")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "env.xlsx", cfg.Output.Path)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		Input:  InputConfig{CompaniesPath: "in.xlsx", CompanyColumn: "公司名稱"},
		Output: OutputConfig{Path: "out.xlsx"},
		Sites: SitesConfig{
			SearchURL: "https://search.example/?q={query}",
			DetailURL: "https://detail.example/?no={id}",
		},
		Pacing: PacingConfig{SearchMin: time.Second, SearchMax: 2 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no input", func(c *Config) { c.Input.CompaniesPath = "" }, "companies_path"},
		{"no column", func(c *Config) { c.Input.CompanyColumn = "" }, "company_column"},
		{"no output", func(c *Config) { c.Output.Path = "" }, "output.path"},
		{"search placeholder", func(c *Config) { c.Sites.SearchURL = "https://search.example/" }, "{query}"},
		{"detail placeholder", func(c *Config) { c.Sites.DetailURL = "https://detail.example/" }, "{id}"},
		{"search window", func(c *Config) { c.Pacing.SearchMax = 0 }, "search_max"},
		{"detail window", func(c *Config) { c.Pacing.DetailMin = time.Second }, "detail_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
