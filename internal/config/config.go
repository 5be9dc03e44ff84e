package config

import "os"

type Config struct {
	DataFile    string
	InvoicesDir string
	Storage     string // "json" or "sqlite"
	SQLitePath  string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		DataFile:    getEnv("BILLING_DATA_FILE", "inventory.json"),
		InvoicesDir: getEnv("BILLING_INVOICES_DIR", "invoices"),
		Storage:     getEnv("BILLING_STORAGE", "json"),
		SQLitePath:  getEnv("BILLING_SQLITE_PATH", "billing.db"),
		LogLevel:    getEnv("BILLING_LOG_LEVEL", "info"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
