// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var (
	probeZones   int
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the connection by reading the firmware version and zone status",
	Long: `Request the firmware version and then the connect status of each zone,
waiting for every reply in turn.

Exit codes:
  0 - Every request was answered
  1 - At least one request timed out or was rejected
  2 - Connection error

Useful for testing connectivity to an Essentia or a WebSocket serial bridge.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeZones, "zones", 6, fmt.Sprintf("Number of zones to query (1-%d)", essentia.MaxZone))
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 0, "Per request reply timeout (default from session.reply_timeout)")
}

func runProbe(cmd *cobra.Command, args []string) error {
	if probeZones < 1 || probeZones > essentia.MaxZone {
		return fmt.Errorf("--zones must be between 1 and %d, got %d", essentia.MaxZone, probeZones)
	}

	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(exitConnection)
	}
	defer conn.Close()

	timeout := cfg.Session.ReplyTimeout.Duration
	if cmd.Flags().Changed("timeout") {
		timeout = probeTimeout
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Nuvostat - Probe\n")
	fmt.Fprintf(out, "Connection: %s\n", connInfo)
	fmt.Fprintf(out, "Zones: 1-%d, timeout %s per request\n\n", probeZones, timeout)

	code := probe(cmd.Context(), out, codec, conn, probeZones, timeout)
	conn.Close()
	os.Exit(code)
	return nil
}

// probe queries the firmware version and zones 1..zones over conn.
// Returns the process exit code.
func probe(ctx context.Context, out io.Writer, c *essentia.Codec, conn Connection, zones int, timeout time.Duration) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan essentia.Frame, 16)
	go func() {
		if err := readFrames(ctx, conn, frames, nil); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("reader stopped")
		}
	}()

	stats := essentia.NewStatistics()
	state := essentia.NewZoneState()
	requests := make([]*essentia.Command, 0, zones+1)

	version, err := essentia.NewReadVersion(c)
	if err != nil {
		fmt.Fprintf(out, "Encode error: %v\n", err)
		return exitFailed
	}
	requests = append(requests, version)
	for z := 1; z <= zones; z++ {
		status, err := essentia.NewReadStatusConnect(c, essentia.Zone(z))
		if err != nil {
			fmt.Fprintf(out, "Encode error: %v\n", err)
			return exitFailed
		}
		requests = append(requests, status)
	}

	code := exitOK
	for _, request := range requests {
		err := exchange(ctx, c, conn, frames, request, timeout)
		switch {
		case err == nil:
			validationErrors := essentia.ValidateCommand(request)
			stats.Update(request, nil, validationErrors)
			state.Apply(request)
			fmt.Fprintf(out, "  %-22s %-10q OK   %s\n",
				essentia.FormatKind(request.Kind()), request.Outgoing(),
				request.ReceivedAt().Sub(request.SentAt()).Round(time.Millisecond))
			printValidationErrors(out, validationErrors)

		case errors.Is(err, errReplyTimeout), errors.Is(err, errDeviceRejected):
			fmt.Fprintf(out, "  %-22s %-10q FAIL %v\n", essentia.FormatKind(request.Kind()), request.Outgoing(), err)
			code = exitNoReply

		default:
			fmt.Fprintf(out, "Connection error: %v\n", err)
			return exitConnection
		}
	}

	fmt.Fprintln(out)
	printZoneSummary(out, state)
	fmt.Fprint(out, stats.String())
	return code
}

// printZoneSummary prints the firmware version and one line per known zone
func printZoneSummary(out io.Writer, state *essentia.ZoneState) {
	if fw := state.Firmware(); fw != "" {
		fmt.Fprintf(out, "Firmware: %s\n", fw)
	}
	if state.ExternalMute() {
		fmt.Fprintf(out, "External mute: active\n")
	}
	for _, z := range state.Zones() {
		fmt.Fprintf(out, "  %s\n", formatZoneLine(z))
	}
}

// formatZoneLine renders a zone status on one line
func formatZoneLine(z essentia.ZoneStatus) string {
	line := fmt.Sprintf("Zone %2d: %-3s", z.Zone, essentia.FormatPower(z.Power))
	if z.Source.Valid() {
		line += fmt.Sprintf("  Source %d", z.Source)
	}
	if z.Volume != essentia.LevelUnset {
		line += fmt.Sprintf("  Vol %ddB", z.Volume)
	}
	if z.Bass != essentia.LevelUnset {
		line += fmt.Sprintf("  Bass %+d", z.Bass)
	}
	if z.Treble != essentia.LevelUnset {
		line += fmt.Sprintf("  Treble %+d", z.Treble)
	}
	if z.SourceGroup == essentia.SourceGroupOn {
		line += "  Grouped"
	}
	return line
}
