package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (POS_ prefix) or a YAML config file.
type Config struct {
	Storage  StorageConfig
	Merchant MerchantConfig
	Receipts ReceiptConfig
	Log      LogConfig
}

// StorageConfig selects and parameterizes the catalog storage backend.
type StorageConfig struct {
	Backend     string `default:"file" usage:"catalog storage backend: file, postgres or memory"`
	CatalogPath string `default:"products.csv" usage:"catalog CSV file path (file backend)" flag:"catalog-path"`
	DatabaseURL string `usage:"PostgreSQL connection URL (postgres backend; POS_STORAGE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// MerchantConfig identifies the business on receipts and in the QRIS payload.
type MerchantConfig struct {
	Name           string `default:"School POS" usage:"merchant name shown on receipts and in the payment payload"`
	PaymentBaseURL string `default:"https://aspectxlol.vercel.app/uprak-pos/payment" usage:"QRIS payment page base URL" flag:"payment-base-url"`
}

// ReceiptConfig controls receipt emission.
type ReceiptConfig struct {
	Dir string `default:"receipts" usage:"directory for receipt files"`
}

// LogConfig controls the zap logger. The terminal belongs to the menu, so
// logs default to a file.
type LogConfig struct {
	Path  string `default:"pos.log" usage:"log file path"`
	Level string `default:"info" usage:"log level: debug, info, warn, error"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, applying the DATABASE_URL platform fallback.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"pos.yaml", "/etc/uprak-pos/pos.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Storage.Backend == "postgres" && cfg.Storage.DatabaseURL == "" {
		return nil, errors.New("database URL is required for the postgres backend: set POS_STORAGE_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps the conventional DATABASE_URL variable to the
// POS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Storage.DatabaseURL = v
		}
	}
}
