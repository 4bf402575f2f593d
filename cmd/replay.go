// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/internal/recorder"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var replayErrorsOnly bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Decode a recording made with monitor --record",
	Long: `Read a CBOR recording and decode every telegram through the loaded profile,
printing each one as monitor would, followed by a statistics summary.

Replaying a recording against a different --profile shows how a profile
change affects matching.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayErrorsOnly, "errors-only", false, "Only display telegrams with anomalies")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	printer := newTelegramPrinter(out, codec)
	printer.errorsOnly = replayErrorsOnly

	err = recorder.Replay(cmd.Context(), f, func(frame essentia.Frame) error {
		printer.handleFrame(frame)
		return nil
	})
	fmt.Fprint(out, printer.stats.String())
	printZoneSummary(out, printer.zones)
	return err
}
