package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Hierarchy HierarchyConfig `yaml:"hierarchy" mapstructure:"hierarchy"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourcesConfig holds the paths of the three source documents.
type SourcesConfig struct {
	Temperature string `yaml:"temperature" mapstructure:"temperature"`
	Wind        string `yaml:"wind" mapstructure:"wind"`
	Seismic     string `yaml:"seismic" mapstructure:"seismic"`
}

// OutputConfig configures the database artifact.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExtractConfig configures document text extraction.
type ExtractConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	Layout        bool   `yaml:"layout" mapstructure:"layout"`
	XLSXSheet     int    `yaml:"xlsx_sheet" mapstructure:"xlsx_sheet"`
}

// HierarchyConfig configures region header detection.
type HierarchyConfig struct {
	HeaderSlack int    `yaml:"header_slack" mapstructure:"header_slack"`
	RegionsFile string `yaml:"regions_file" mapstructure:"regions_file"`
}

// ReconcileConfig holds the fuzzy match policy.
type ReconcileConfig struct {
	Threshold   int `yaml:"threshold" mapstructure:"threshold"`
	MinFuzzyLen int `yaml:"min_fuzzy_len" mapstructure:"min_fuzzy_len"`
}

// PipelineConfig configures the build run.
type PipelineConfig struct {
	Parallel bool `yaml:"parallel" mapstructure:"parallel"`
}

// StoreConfig configures the optional snapshot database. An empty driver
// disables it.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional ./config.yaml and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for config.yaml; a named file must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("SITEDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.temperature", "Temperature Table.pdf")
	v.SetDefault("sources.wind", "Wind Table.pdf")
	v.SetDefault("sources.seismic", "Seismic Table.pdf")
	v.SetDefault("output.path", "data/site_data.json")
	v.SetDefault("extract.pdftotext_path", "pdftotext")
	v.SetDefault("extract.layout", true)
	v.SetDefault("extract.xlsx_sheet", 0)
	v.SetDefault("hierarchy.header_slack", 5)
	v.SetDefault("hierarchy.regions_file", "")
	v.SetDefault("reconcile.threshold", 90)
	v.SetDefault("reconcile.min_fuzzy_len", 3)
	v.SetDefault("pipeline.parallel", true)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would make a build meaningless.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return eris.New("config: output.path is required")
	}
	if c.Reconcile.Threshold < 0 || c.Reconcile.Threshold > 100 {
		return eris.Errorf("config: reconcile.threshold must be within 0-100, got %d", c.Reconcile.Threshold)
	}
	if c.Reconcile.MinFuzzyLen < 0 {
		return eris.Errorf("config: reconcile.min_fuzzy_len must not be negative, got %d", c.Reconcile.MinFuzzyLen)
	}
	if c.Hierarchy.HeaderSlack < 0 {
		return eris.Errorf("config: hierarchy.header_slack must not be negative, got %d", c.Hierarchy.HeaderSlack)
	}
	switch c.Store.Driver {
	case "":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.Errorf("config: store.database_url is required for driver %q", c.Store.Driver)
		}
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	return nil
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
