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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/internal/recorder"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var (
	monitorRecord        string
	monitorErrorsOnly    bool
	monitorStatsInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode and display telegrams as they arrive",
	Long: `Continuously frame, decode and display Essentia telegrams seen on the
connection. Both controller telegrams ('*') and device replies ('#') are shown.

Each telegram is validated. Unrecognized telegrams, device errors and out of
range values are flagged, and a statistics summary is printed periodically and
on exit.

With --record, every framed telegram is also appended to a CBOR recording
that can be decoded later with "replay".

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().StringVar(&monitorRecord, "record", "", "Append framed telegrams to this CBOR recording")
	monitorCmd.Flags().BoolVar(&monitorErrorsOnly, "errors-only", false, "Only display telegrams with anomalies")
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 0, "Statistics summary interval in seconds (0 disables)")
}

// telegramPrinter decodes frames and prints them with their anomalies
type telegramPrinter struct {
	out        io.Writer
	codec      *essentia.Codec
	stats      *essentia.Statistics
	zones      *essentia.ZoneState
	errorsOnly bool

	// synchronized is set by the first complete telegram. Framing errors
	// before it are line noise from joining mid-telegram.
	synchronized      bool
	skippedBeforeSync int
}

func newTelegramPrinter(out io.Writer, c *essentia.Codec) *telegramPrinter {
	return &telegramPrinter{
		out:   out,
		codec: c,
		stats: essentia.NewStatistics(),
		zones: essentia.NewZoneState(),
	}
}

// handleFrame decodes, validates and prints one frame
func (p *telegramPrinter) handleFrame(frame essentia.Frame) {
	if !p.synchronized {
		p.synchronized = true
		if p.skippedBeforeSync > 0 {
			fmt.Fprintf(p.out, "(skipped %d framing errors before sync)\n\n", p.skippedBeforeSync)
		}
	}

	decoded, err := p.codec.Decode(frame.Telegram)
	metrics.RecordTelegram(decoded)
	validationErrors := essentia.ValidateCommand(decoded)
	p.stats.Update(decoded, nil, validationErrors)
	p.zones.Apply(decoded)

	if p.errorsOnly && err == nil && len(validationErrors) == 0 {
		return
	}

	timestamp := frame.Timestamp.Format("15:04:05.000")
	direction := "<<"
	if frame.Outgoing() {
		direction = ">>"
	}
	fmt.Fprintf(p.out, "[%s] %s %c%s\n", timestamp, direction, frame.Start, frame.Telegram)
	if decoded.Valid() {
		fmt.Fprintf(p.out, "  %s (%s)\n", essentia.FormatKind(decoded.Kind()), decoded.MatchedDirection())
		if fields := essentia.FormatFields(decoded.Fields()); fields != "" {
			fmt.Fprintf(p.out, "  %s\n", fields)
		}
	}
	if err != nil {
		fmt.Fprintf(p.out, "  Error: %v\n", err)
	}
	printValidationErrors(p.out, validationErrors)
	fmt.Fprintln(p.out)
}

// handleFramingError counts a framer error, printing it once synchronized
func (p *telegramPrinter) handleFramingError(err error) {
	if !p.synchronized {
		p.skippedBeforeSync++
		return
	}
	p.stats.Update(nil, err, nil)
	fmt.Fprintf(p.out, "[%s] FRAMING ERROR: %v\n\n", time.Now().Format("15:04:05.000"), err)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Nuvostat - Telegram Monitor\n")
	fmt.Fprintf(out, "Connection: %s\n", connInfo)
	fmt.Fprintf(out, "Profile: %s\n", activeProfile.Name)

	var rec *recorder.Recorder
	if monitorRecord != "" {
		f, err := os.OpenFile(monitorRecord, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open recording: %w", err)
		}
		defer f.Close()
		rec = &recorder.Recorder{Dest: f}
		fmt.Fprintf(out, "Recording: %s\n", monitorRecord)
	}
	fmt.Fprintf(out, "Press Ctrl+C to exit\n\n")

	printer := newTelegramPrinter(out, codec)
	printer.errorsOnly = monitorErrorsOnly

	err = monitorConnection(cmd.Context(), conn, printer, rec, time.Duration(monitorStatsInterval)*time.Second)
	fmt.Fprint(out, "\n"+printer.stats.String())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// monitorConnection runs the reader and the processor until the connection
// closes or ctx is cancelled. A connection is closed on cancel so the blocked
// reader returns.
func monitorConnection(ctx context.Context, conn Connection, printer *telegramPrinter, rec *recorder.Recorder, statsInterval time.Duration) error {
	frames := make(chan essentia.Frame, 100)
	framingErrors := make(chan error, 100)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(framingErrors)
		return readFrames(ctx, conn, frames, func(err error) {
			select {
			case framingErrors <- err:
			default:
			}
		})
	})

	g.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})

	g.Go(func() error {
		errs := framingErrors
		var ticks <-chan time.Time
		if statsInterval > 0 {
			ticker := time.NewTicker(statsInterval)
			defer ticker.Stop()
			ticks = ticker.C
		}

		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					return context.Canceled
				}
				if rec != nil {
					if err := rec.Record(frame); err != nil {
						return fmt.Errorf("recording failed: %w", err)
					}
				}
				printer.handleFrame(frame)

			case err, ok := <-errs:
				if ok {
					printer.handleFramingError(err)
				} else {
					errs = nil
				}

			case <-ticks:
				fmt.Fprint(printer.out, printer.stats.String()+"\n")
			}
		}
	})

	return g.Wait()
}
