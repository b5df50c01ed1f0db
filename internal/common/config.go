package common

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/hookeddocs/hookeddocs/constants"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Folders  FolderConfig
	OCR      OCRConfig

	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	DSN              string        `envconfig:"DB_URL"`
	MaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns         int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	MaxConnLifetime  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	MaxConnIdleTime  time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	DialTimeout      time.Duration `envconfig:"DB_DIAL_TIMEOUT" default:"3s"`
	StatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"0"`
}

// FolderConfig holds one source folder per document category.
type FolderConfig struct {
	InvoicesReceived  string `envconfig:"FOLDER_INVOICES_RECEIVED"`
	InvoicesIssued    string `envconfig:"FOLDER_INVOICES_ISSUED"`
	PhysicalTickets   string `envconfig:"FOLDER_PHYSICAL_TICKETS"`
	ElectronicTickets string `envconfig:"FOLDER_ELECTRONIC_TICKETS"`
}

// For returns the configured source folder of a category, or "" when the
// category has none configured.
func (f FolderConfig) For(c constants.Category) string {
	switch c {
	case constants.InvoicesReceived:
		return f.InvoicesReceived
	case constants.InvoicesIssued:
		return f.InvoicesIssued
	case constants.PhysicalTickets:
		return f.PhysicalTickets
	case constants.ElectronicTickets:
		return f.ElectronicTickets
	default:
		return ""
	}
}

// OCRConfig holds the scanned-image text extraction configuration.
type OCRConfig struct {
	AzureEndpoint string        `envconfig:"AZURE_VISION_ENDPOINT"`
	AzureKey      string        `envconfig:"AZURE_VISION_KEY"`
	Language      string        `envconfig:"OCR_LANGUAGE" default:"es"`
	Timeout       time.Duration `envconfig:"OCR_TIMEOUT" default:"45s"`
	WorkDir       string        `envconfig:"OCR_WORK_DIR" default:"./tmp"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parts of the configuration the pipeline cannot run
// without. The DSN may be empty when the in-memory store is requested.
func (c *Config) Validate(inmem bool) error {
	if !inmem && c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	return nil
}
