package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application settings (read through Viper from the
// environment and, optionally, from a .env or config.env file).
type Config struct {
	App      AppConfig
	Company  CompanyConfig
	Creditor CreditorConfig
	QRBill   QRBillConfig
	Output   OutputConfig
}

// AppConfig holds general settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// CompanyConfig identifies the taxable person declaring VAT.
type CompanyConfig struct {
	Name      string
	UID       string // CHE-123.456.788
	VATNumber string // CHE-123.456.788 MWST
}

// CreditorConfig is the default creditor printed on QR-bills.
type CreditorConfig struct {
	IBAN        string
	Name        string
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string
}

// QRBillConfig holds QR-bill defaults.
type QRBillConfig struct {
	DefaultCurrency string // CHF or EUR
}

// OutputConfig says where generated files are written.
type OutputConfig struct {
	Dir string
}

// IsDevelopment reports whether logs should be human readable.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the configuration from environment variables (and optionally
// from a file). Environment variables win. Expected names: APP_ENV,
// COMPANY_UID, CREDITOR_IBAN, QRBILL_DEFAULT_CURRENCY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Optional file: .env or config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // a missing file is fine

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // a missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "swissvat"),
			LogLevel: strings.ToLower(getString(v, "LOG_LEVEL", "info")),
		},
		Company: CompanyConfig{
			Name:      getString(v, "COMPANY_NAME", ""),
			UID:       getString(v, "COMPANY_UID", ""),
			VATNumber: getString(v, "COMPANY_VAT_NUMBER", ""),
		},
		Creditor: CreditorConfig{
			IBAN:        getString(v, "CREDITOR_IBAN", ""),
			Name:        getString(v, "CREDITOR_NAME", ""),
			Street:      getString(v, "CREDITOR_STREET", ""),
			HouseNumber: getString(v, "CREDITOR_HOUSE_NUMBER", ""),
			PostalCode:  getString(v, "CREDITOR_POSTAL_CODE", ""),
			City:        getString(v, "CREDITOR_CITY", ""),
			Country:     getString(v, "CREDITOR_COUNTRY", "CH"),
		},
		QRBill: QRBillConfig{
			DefaultCurrency: strings.ToUpper(getString(v, "QRBILL_DEFAULT_CURRENCY", "CHF")),
		},
		Output: OutputConfig{
			Dir: getString(v, "OUTPUT_DIR", "."),
		},
	}
	if cfg.Creditor.Name == "" {
		cfg.Creditor.Name = cfg.Company.Name
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}
