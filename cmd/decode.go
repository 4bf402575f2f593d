// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <telegram>...",
	Short: "Decode telegrams given on the command line",
	Long: `Decode each telegram against the loaded profile and print the command kind,
the extracted fields and any anomalies. No connection is opened.

Leading '*' or '#' framing and trailing CR/LF are stripped.

Examples:
  nuvostat decode "Z02PWRON,SRC3,GRP0,VOL-20"
  nuvostat decode '#Z02OR0,BASS-04,TREB+06,GRP0,VRST1' '?'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	stats := essentia.NewStatistics()
	for _, arg := range args {
		decodeTo(cmd.OutOrStdout(), codec, stats, telegramArg(arg))
	}
	if len(args) > 1 {
		fmt.Fprint(cmd.OutOrStdout(), stats.String())
	}
	return nil
}

// decodeTo decodes one telegram and prints it with its anomalies
func decodeTo(out io.Writer, c *essentia.Codec, stats *essentia.Statistics, telegram string) *essentia.Command {
	decoded, err := c.Decode(telegram)
	validationErrors := essentia.ValidateCommand(decoded)
	stats.Update(decoded, nil, validationErrors)

	fmt.Fprint(out, essentia.FormatCommand(decoded))
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
	}
	printValidationErrors(out, validationErrors)
	return decoded
}

// printValidationErrors prints one line per anomaly
func printValidationErrors(out io.Writer, errs []essentia.ValidationError) {
	for i, e := range errs {
		fmt.Fprintf(out, "  Issue %d: [%s] %s\n", i+1, e.Type, e.Message)
	}
}
