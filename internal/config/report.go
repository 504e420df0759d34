package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportConfig controls the rendered sales report layout.
type ReportConfig struct {
	Title          string `mapstructure:"title"`
	CurrencySymbol string `mapstructure:"currencySymbol"`
	FilenamePrefix string `mapstructure:"filenamePrefix"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:          "Sales Report",
		CurrencySymbol: "₹",
		FilenamePrefix: "Sales_Report",
	}
}

// ReportConfigHolder serves the current report config and hot-reloads it
// when the backing file changes.
type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

func NewReportConfigHolder() (*ReportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("report")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/billhive")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLHIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportConfig()
	v.SetDefault("report.title", defaults.Title)
	v.SetDefault("report.currencySymbol", defaults.CurrencySymbol)
	v.SetDefault("report.filenamePrefix", defaults.FilenamePrefix)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ReportConfig
	if err := v.UnmarshalKey("report", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			log.Printf("[report-config] reload failed: %v", err)
			return
		}
		if err := validateReportConfig(updated); err != nil {
			log.Printf("[report-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[report-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ReportConfigHolder) Get() ReportConfig {
	return h.current.Load().(ReportConfig)
}

func validateReportConfig(cfg ReportConfig) error {
	if strings.TrimSpace(cfg.Title) == "" {
		return errors.New("report.title cannot be empty")
	}
	if strings.TrimSpace(cfg.FilenamePrefix) == "" {
		return errors.New("report.filenamePrefix cannot be empty")
	}
	return nil
}
