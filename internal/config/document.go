package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CompanyInfo is the issuer block printed on every document.
type CompanyInfo struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Phone       string `mapstructure:"phone"`
	Address     string `mapstructure:"address"`
	GSTIN       string `mapstructure:"gstin"`
	Branch      string `mapstructure:"branch"`
	Email       string `mapstructure:"email"`
}

type BankDetails struct {
	AccountHolder string `mapstructure:"account_holder"`
	AccountNumber string `mapstructure:"account_number"`
	IFSC          string `mapstructure:"ifsc"`
	Branch        string `mapstructure:"branch"`
	AccountType   string `mapstructure:"account_type"`
	BankName      string `mapstructure:"bank_name"`
}

type TaxRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// DocumentConfig carries everything the renderer needs besides the document.
type DocumentConfig struct {
	Company  CompanyInfo
	Bank     BankDetails
	Tax      TaxRates
	Currency string
	// PDFCurrency replaces Currency in PDF output where the core fonts lack the glyph.
	PDFCurrency string
	// FooterNotes close a quotation; InvoiceFooterNotes close an invoice.
	FooterNotes        []string
	InvoiceFooterNotes []string
	CountryCode        string
}

type documentFile struct {
	Company CompanyInfo `mapstructure:"company"`
	Bank    BankDetails `mapstructure:"bank"`
	Tax     struct {
		CGST string `mapstructure:"cgst"`
		SGST string `mapstructure:"sgst"`
	} `mapstructure:"tax"`
	Currency           string   `mapstructure:"currency"`
	PDFCurrency        string   `mapstructure:"pdf_currency"`
	FooterNotes        []string `mapstructure:"footer_notes"`
	InvoiceFooterNotes []string `mapstructure:"invoice_footer_notes"`
	CountryCode        string   `mapstructure:"country_code"`
}

func DefaultDocumentConfig() DocumentConfig {
	return DocumentConfig{
		Company: CompanyInfo{
			Name:        "SRI RAJA MOSQUITO NETLON SERVICES",
			Description: "Manufacture & Dealer in Mosquito & Insect Net (WholeSale & Retail)",
			Phone:       "+91 9790569529",
			Address:     "Ryan Complex Vadavalli Road, Edayarpalayam, Coimbatore-25",
			GSTIN:       "33BECPR927M1ZU",
			Branch:      "Edayarpalayam",
			Email:       "info@netlonservices.com",
		},
		Bank: BankDetails{
			AccountHolder: "RAJASEKAR P",
			AccountNumber: "50100774198590",
			IFSC:          "HDFC0006806",
			Branch:        "EDAYARPALAYAM",
			AccountType:   "SAVING",
			BankName:      "HDFC BANK",
		},
		Tax: TaxRates{
			CGST: decimal.RequireFromString("0.09"),
			SGST: decimal.RequireFromString("0.09"),
		},
		Currency:           "₹",
		PDFCurrency:        "Rs.",
		FooterNotes:        []string{"This is a computer generated quotation. Valid for 30 days from date of issue."},
		InvoiceFooterNotes: []string{"This is a computer generated invoice."},
		CountryCode:        "91",
	}
}

// DocumentConfigHolder serves the current document.yml and swaps it on change.
type DocumentConfigHolder struct {
	current atomic.Value // holds DocumentConfig
}

// NewStaticDocumentConfigHolder wraps a fixed configuration.
func NewStaticDocumentConfigHolder(cfg DocumentConfig) *DocumentConfigHolder {
	holder := &DocumentConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewDocumentConfigHolder(cfg Config, log *zap.Logger) (*DocumentConfigHolder, error) {
	log = log.Named("config.document")
	v := viper.New()

	v.SetConfigName("document")
	v.SetConfigType("yml")
	if cfg.DocumentConfigPath != "" {
		v.AddConfigPath(cfg.DocumentConfigPath)
	}
	v.AddConfigPath("/etc/quotedesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUOTEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDocumentDefaults(v, DefaultDocumentConfig())

	found := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		found = false
	}

	loaded, err := decodeDocumentConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticDocumentConfigHolder(loaded)
	if !found {
		log.Info("document.yml not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeDocumentConfig(v)
		if err != nil {
			log.Warn("document config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("document config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *DocumentConfigHolder) Get() DocumentConfig {
	return h.current.Load().(DocumentConfig)
}

func setDocumentDefaults(v *viper.Viper, d DocumentConfig) {
	v.SetDefault("document.company.name", d.Company.Name)
	v.SetDefault("document.company.description", d.Company.Description)
	v.SetDefault("document.company.phone", d.Company.Phone)
	v.SetDefault("document.company.address", d.Company.Address)
	v.SetDefault("document.company.gstin", d.Company.GSTIN)
	v.SetDefault("document.company.branch", d.Company.Branch)
	v.SetDefault("document.company.email", d.Company.Email)
	v.SetDefault("document.bank.account_holder", d.Bank.AccountHolder)
	v.SetDefault("document.bank.account_number", d.Bank.AccountNumber)
	v.SetDefault("document.bank.ifsc", d.Bank.IFSC)
	v.SetDefault("document.bank.branch", d.Bank.Branch)
	v.SetDefault("document.bank.account_type", d.Bank.AccountType)
	v.SetDefault("document.bank.bank_name", d.Bank.BankName)
	v.SetDefault("document.tax.cgst", d.Tax.CGST.String())
	v.SetDefault("document.tax.sgst", d.Tax.SGST.String())
	v.SetDefault("document.currency", d.Currency)
	v.SetDefault("document.pdf_currency", d.PDFCurrency)
	v.SetDefault("document.footer_notes", d.FooterNotes)
	v.SetDefault("document.invoice_footer_notes", d.InvoiceFooterNotes)
	v.SetDefault("document.country_code", d.CountryCode)
}

func decodeDocumentConfig(v *viper.Viper) (DocumentConfig, error) {
	// Unmarshal merges nested defaults; UnmarshalKey would not.
	var root struct {
		Document documentFile `mapstructure:"document"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return DocumentConfig{}, err
	}
	raw := root.Document

	cgst, err := decimal.NewFromString(strings.TrimSpace(raw.Tax.CGST))
	if err != nil {
		return DocumentConfig{}, fmt.Errorf("document.tax.cgst: %w", err)
	}
	sgst, err := decimal.NewFromString(strings.TrimSpace(raw.Tax.SGST))
	if err != nil {
		return DocumentConfig{}, fmt.Errorf("document.tax.sgst: %w", err)
	}

	cfg := DocumentConfig{
		Company:            raw.Company,
		Bank:               raw.Bank,
		Tax:                TaxRates{CGST: cgst, SGST: sgst},
		Currency:           raw.Currency,
		PDFCurrency:        raw.PDFCurrency,
		FooterNotes:        raw.FooterNotes,
		InvoiceFooterNotes: raw.InvoiceFooterNotes,
		CountryCode:        strings.TrimPrefix(strings.TrimSpace(raw.CountryCode), "+"),
	}
	if err := validateDocumentConfig(cfg); err != nil {
		return DocumentConfig{}, err
	}
	return cfg, nil
}

func validateDocumentConfig(cfg DocumentConfig) error {
	if strings.TrimSpace(cfg.Company.Name) == "" {
		return errors.New("document.company.name cannot be empty")
	}
	if cfg.Tax.CGST.IsNegative() || cfg.Tax.SGST.IsNegative() {
		return errors.New("document.tax rates cannot be negative")
	}
	one := decimal.NewFromInt(1)
	if cfg.Tax.CGST.GreaterThanOrEqual(one) || cfg.Tax.SGST.GreaterThanOrEqual(one) {
		return errors.New("document.tax rates must be fractions below 1")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("document.currency cannot be empty")
	}
	for _, r := range cfg.CountryCode {
		if r < '0' || r > '9' {
			return errors.New("document.country_code must be digits")
		}
	}
	return nil
}
