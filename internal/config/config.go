// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the optional nuvostat TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath names the configuration file when --config is not given
const EnvConfigPath = "NUVOSTAT_CONFIG"

// DefaultBaud is the Essentia serial port speed
const DefaultBaud = 9600

type Config struct {
	Serial    SerialConfig    `toml:"serial"`
	WebSocket WebSocketConfig `toml:"websocket"`
	Profile   ProfileConfig   `toml:"profile"`
	Log       LogConfig       `toml:"log"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Session   SessionConfig   `toml:"session"`
}

type SerialConfig struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
}

type WebSocketConfig struct {
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify"`
}

type ProfileConfig struct {
	// Path is a profile file or the name of an embedded profile
	Path string `toml:"path"`
}

type LogConfig struct {
	Level   string `toml:"level"`
	NoColor bool   `toml:"no_color"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type SessionConfig struct {
	ReplyTimeout Duration `toml:"reply_timeout"`
	PollInterval Duration `toml:"poll_interval"`
}

// Duration decodes TOML strings such as "2s" or "500ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used without a file
func Default() Config {
	return Config{
		Serial: SerialConfig{Baud: DefaultBaud},
		Log:    LogConfig{Level: "warn"},
		Session: SessionConfig{
			ReplyTimeout: Duration{2 * time.Second},
			PollInterval: Duration{2 * time.Second},
		},
	}
}

// Load reads path over the defaults. An empty path falls back to
// NUVOSTAT_CONFIG; with neither set the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and mutually exclusive settings
func (c Config) Validate() error {
	var errs []error
	if c.Serial.Baud <= 0 {
		errs = append(errs, fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud))
	}
	if c.Serial.Port != "" && c.WebSocket.URL != "" {
		errs = append(errs, errors.New("serial.port and websocket.url are mutually exclusive"))
	}
	if c.WebSocket.URL != "" && c.WebSocket.Username == "" {
		errs = append(errs, errors.New("websocket.username is required with websocket.url"))
	}
	if c.Session.ReplyTimeout.Duration <= 0 {
		errs = append(errs, errors.New("session.reply_timeout must be positive"))
	}
	if c.Session.PollInterval.Duration < 0 {
		errs = append(errs, errors.New("session.poll_interval must not be negative"))
	}
	return errors.Join(errs...)
}
