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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the job store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds model API settings. An empty key (or DemoMode) means
// the pipeline runs offline on deterministic fallbacks.
type AnthropicConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	Model     string  `yaml:"model" mapstructure:"model"`
	MaxTokens int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
	DemoMode  bool    `yaml:"demo_mode" mapstructure:"demo_mode"`
}

// PipelineConfig tunes the derivation pipeline.
type PipelineConfig struct {
	ChunkSize       int `yaml:"chunk_size" mapstructure:"chunk_size"`
	CallTimeoutSecs int `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	CallMaxRetries  int `yaml:"call_max_retries" mapstructure:"call_max_retries"`
}

// ExtractConfig exposes the empirically tuned extraction thresholds. The
// defaults come from the production tuning of the scanned-document heuristic
// and should rarely need changing.
type ExtractConfig struct {
	MinTextChars      int     `yaml:"min_text_chars" mapstructure:"min_text_chars"`
	MinOCRChars       int     `yaml:"min_ocr_chars" mapstructure:"min_ocr_chars"`
	MinUsableChars    int     `yaml:"min_usable_chars" mapstructure:"min_usable_chars"`
	ScannedMaxChars   int     `yaml:"scanned_max_chars" mapstructure:"scanned_max_chars"`
	ScannedMinWords   int     `yaml:"scanned_min_words" mapstructure:"scanned_min_words"`
	ScannedMinPerPage int     `yaml:"scanned_min_per_page" mapstructure:"scanned_min_per_page"`
	SmallDocMinUnique int     `yaml:"small_doc_min_unique" mapstructure:"small_doc_min_unique"`
	ToolTimeoutSecs   int     `yaml:"tool_timeout_secs" mapstructure:"tool_timeout_secs"`
	BinarySampleChars int     `yaml:"binary_sample_chars" mapstructure:"binary_sample_chars"`
	BinaryMaxBadRatio float64 `yaml:"binary_max_bad_ratio" mapstructure:"binary_max_bad_ratio"`
}

// OCRConfig configures the external OCR toolchain.
type OCRConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfInfoPath   string `yaml:"pdfinfo_path" mapstructure:"pdfinfo_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Languages     string `yaml:"languages" mapstructure:"languages"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from config.yaml (optional) and FORESIGHT_*
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FORESIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "foresight.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.rps", 2.0)
	v.SetDefault("pipeline.chunk_size", 800)
	v.SetDefault("pipeline.call_timeout_secs", 20)
	v.SetDefault("pipeline.call_max_retries", 2)
	v.SetDefault("extract.min_text_chars", 40)
	v.SetDefault("extract.min_ocr_chars", 120)
	v.SetDefault("extract.min_usable_chars", 10)
	v.SetDefault("extract.scanned_max_chars", 300)
	v.SetDefault("extract.scanned_min_words", 30)
	v.SetDefault("extract.scanned_min_per_page", 80)
	v.SetDefault("extract.small_doc_min_unique", 2)
	v.SetDefault("extract.tool_timeout_secs", 120)
	v.SetDefault("extract.binary_sample_chars", 500)
	v.SetDefault("extract.binary_max_bad_ratio", 0.1)
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.pdfinfo_path", "pdfinfo")
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.languages", "fas+eng")

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

// InitLogger configures the global zap logger.
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
