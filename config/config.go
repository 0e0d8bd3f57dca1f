// Package config loads and validates the settings needed to run a
// simulation: the ENTSO-E API token, the regulatory timezone, a default
// tariff (which cmd/simulate puts into every request it builds), and a
// default subscription ceiling. The simulation orchestrator reads only the
// timezone from a Config; it does not fill unset request fields from it.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/derivatio/ev-optimizer/tariff"
)

// Config is the top-level configuration for a simulation run.
type Config struct {
	SecurityToken string        `json:"security_token"` // ENTSO-E API token
	APITimeout    time.Duration `json:"api_timeout"`     // validated and saved; entsoe.Source does not read it and uses a fixed 30s timeout

	Location string `json:"location"` // IANA timezone, e.g. "Europe/Stockholm"

	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	LogFormat string `json:"log_format"` // text, json

	DefaultTariff  tariff.Tariff `json:"default_tariff"`
	SubscriptionKW float64       `json:"subscription_kw"`
}

// DefaultConfig returns a configuration with sensible Nordic defaults.
func DefaultConfig() *Config {
	return &Config{
		APITimeout: 30 * time.Second,
		Location:   "Europe/Stockholm",
		LogLevel:   "info",
		LogFormat:  "text",
		DefaultTariff: tariff.Tariff{
			Operator:               "ellevio",
			BaseMonthlyFee:         365,
			CapacityFeeKW:          59,
			PeakFeeKW:              70,
			PeakHourStart:          6,
			PeakHourEnd:            22,
			PeakMonths:             map[time.Month]bool{11: true, 12: true, 1: true, 2: true, 3: true},
			PeakWeekdaysOnly:       true,
			PeakCalcMethod:         tariff.MethodSingle,
			EnergySurchargePeak:    0.071,
			EnergySurchargeOffPeak: 0.038,
		},
		SubscriptionKW: 63,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader, applying
// defaults for anything left unset.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	config := DefaultConfig()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a JSON file.
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	return c.SaveConfigToWriter(file)
}

// SaveConfigToWriter saves the configuration to an io.Writer.
func (c *Config) SaveConfigToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}

	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.SecurityToken == "" {
		return fmt.Errorf("security_token cannot be empty")
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be greater than 0, got: %s", c.APITimeout)
	}

	if c.Location == "" {
		return fmt.Errorf("location cannot be empty")
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		return fmt.Errorf("invalid location %q: %w", c.Location, err)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s, must be one of: debug, info, warn, error", c.LogLevel)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format: %s, must be one of: text, json", c.LogFormat)
	}

	if err := c.DefaultTariff.Validate(); err != nil {
		return fmt.Errorf("invalid default_tariff: %w", err)
	}

	if c.SubscriptionKW <= 0 {
		return fmt.Errorf("subscription_kw must be greater than 0, got: %f", c.SubscriptionKW)
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling to render durations as
// human-readable strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		APITimeout string `json:"api_timeout"`
	}{
		Alias:      (*Alias)(c),
		APITimeout: c.APITimeout.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to parse duration
// strings.
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct {
		*Alias
		APITimeout string `json:"api_timeout"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.APITimeout != "" {
		d, err := time.ParseDuration(aux.APITimeout)
		if err != nil {
			return fmt.Errorf("invalid api_timeout: %w", err)
		}
		c.APITimeout = d
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
