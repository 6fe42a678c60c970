package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Sites   SitesConfig   `yaml:"sites" mapstructure:"sites"`
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`
	Pacing  PacingConfig  `yaml:"pacing" mapstructure:"pacing"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the company list and the postal code table.
type InputConfig struct {
	CompaniesPath string `yaml:"companies_path" mapstructure:"companies_path"`
	Sheet         string `yaml:"sheet" mapstructure:"sheet"` // empty reads the first sheet
	CompanyColumn string `yaml:"company_column" mapstructure:"company_column"`
	PostalPath    string `yaml:"postal_path" mapstructure:"postal_path"`
	RegionColumn  string `yaml:"region_column" mapstructure:"region_column"`
	CodeColumn    string `yaml:"code_column" mapstructure:"code_column"`
}

// OutputConfig configures the enriched workbook and optional run report.
type OutputConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	ReportPath string `yaml:"report_path" mapstructure:"report_path"`
}

// SitesConfig holds the lookup URL templates. SearchURL must contain {query};
// DetailURL must contain {id}.
type SitesConfig struct {
	SearchURL string `yaml:"search_url" mapstructure:"search_url"`
	DetailURL string `yaml:"detail_url" mapstructure:"detail_url"`
}

// BrowserConfig configures the Chrome session.
type BrowserConfig struct {
	Headless    bool     `yaml:"headless" mapstructure:"headless"`
	ExecPath    string   `yaml:"exec_path" mapstructure:"exec_path"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgents  []string `yaml:"user_agents" mapstructure:"user_agents"`
}

// Timeout returns the per-navigation timeout.
func (b BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// PacingConfig holds the randomized pause windows after each navigation.
type PacingConfig struct {
	SearchMin time.Duration `yaml:"search_min" mapstructure:"search_min"`
	SearchMax time.Duration `yaml:"search_max" mapstructure:"search_max"`
	DetailMin time.Duration `yaml:"detail_min" mapstructure:"detail_min"`
	DetailMax time.Duration `yaml:"detail_max" mapstructure:"detail_max"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Input.CompaniesPath == "" {
		return eris.New("config: input.companies_path is required")
	}
	if c.Input.CompanyColumn == "" {
		return eris.New("config: input.company_column is required")
	}
	if c.Output.Path == "" {
		return eris.New("config: output.path is required")
	}
	if !strings.Contains(c.Sites.SearchURL, "{query}") {
		return eris.Errorf("config: sites.search_url %q has no {query} placeholder", c.Sites.SearchURL)
	}
	if !strings.Contains(c.Sites.DetailURL, "{id}") {
		return eris.Errorf("config: sites.detail_url %q has no {id} placeholder", c.Sites.DetailURL)
	}
	if c.Pacing.SearchMax < c.Pacing.SearchMin {
		return eris.New("config: pacing.search_max is below pacing.search_min")
	}
	if c.Pacing.DetailMax < c.Pacing.DetailMin {
		return eris.New("config: pacing.detail_max is below pacing.detail_min")
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.companies_path", "公司列表.xlsx")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.company_column", "公司名稱")
	v.SetDefault("input.postal_path", "郵遞區號.xlsx")
	v.SetDefault("input.region_column", "區域")
	v.SetDefault("input.code_column", "郵遞區號")
	v.SetDefault("output.path", "公司列表_完整資訊.xlsx")
	v.SetDefault("output.report_path", "")
	v.SetDefault("sites.search_url", "https://tw.piliapp.com/vat-calculator/tw/search/?q={query}")
	v.SetDefault("sites.detail_url", "https://www.twincn.com/item.aspx?no={id}")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.timeout_secs", 10)
	v.SetDefault("browser.user_agents", []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	})
	v.SetDefault("pacing.search_min", "2s")
	v.SetDefault("pacing.search_max", "4s")
	v.SetDefault("pacing.detail_min", "1s")
	v.SetDefault("pacing.detail_max", "2s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
