// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/internal/config"
	"github.com/Thermoquad/nuvostat/internal/logging"
	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
	"github.com/Thermoquad/nuvostat/pkg/profile"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Session flags
	configPath  string
	profileRef  string
	logLevel    string
	metricsAddr string
)

// Resolved by setup before any subcommand runs
var (
	cfg           config.Config
	activeProfile *profile.Profile
	codec         *essentia.Codec
	logger        zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nuvostat",
	Short: "Nuvo Essentia Serial Protocol Tool",
	Long: `Nuvostat - A CLI tool for encoding, decoding and monitoring Nuvo Essentia
multi-zone audio matrix telegrams.

Telegrams are described by a command profile. The built-in "essentia" profile
is used unless --profile names another embedded profile or a YAML file.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the NUVOSTAT_PASSWORD
environment variable, or prompted interactively if not set.

Settings may also be given in a TOML file named by --config or the
NUVOSTAT_CONFIG environment variable. Flags override the file.`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", config.DefaultBaud, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (TOML)")
	rootCmd.PersistentFlags().StringVar(&profileRef, "profile", "", "Command profile name or YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

// setup loads configuration, applies flag overrides and builds the codec
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &loaded)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cfg = loaded

	logCfg := logging.DefaultConfig()
	if lvl, ok := logging.ParseLevel(cfg.Log.Level); ok {
		logCfg.Level = lvl
	}
	logCfg.NoColor = cfg.Log.NoColor
	logger = logging.Configure(logCfg)

	p, err := profile.Resolve(cfg.Profile.Path)
	if err != nil {
		return err
	}
	catalog, err := p.Catalog()
	if err != nil {
		return err
	}
	activeProfile = p
	codec = essentia.NewCodec(catalog, essentia.MultiReporter(
		essentia.NewLogReporter(logger),
		metrics.Reporter(),
	))

	logger.Debug().
		Str("profile", p.Name).
		Int("commands", catalog.Len()).
		Msg("profile loaded")

	if cfg.Metrics.Addr != "" {
		addr := cfg.Metrics.Addr
		go func() {
			if err := metrics.Serve(cmd.Context(), addr); err != nil {
				logger.Error().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
			}
		}()
	}
	return nil
}

// applyFlags copies explicitly given flags over the loaded configuration.
// Choosing one transport on the command line clears the other.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("port") {
		c.Serial.Port = portName
		if !flags.Changed("url") {
			c.WebSocket = config.WebSocketConfig{}
		}
	}
	if flags.Changed("url") {
		c.WebSocket.URL = wsURL
		if !flags.Changed("port") {
			c.Serial.Port = ""
		}
	}
	if flags.Changed("baud") {
		c.Serial.Baud = baudRate
	}
	if flags.Changed("username") {
		c.WebSocket.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		c.WebSocket.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("profile") {
		c.Profile.Path = profileRef
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("metrics-addr") {
		c.Metrics.Addr = metricsAddr
	}
}

// Execute runs the root command until it returns or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
