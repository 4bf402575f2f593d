// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var (
	encodeFields fieldFlags
	encodeFramed bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <kind>",
	Short: "Encode a command into a telegram",
	Long: `Encode a command of the given kind using the loaded profile and print the
telegram. No connection is opened.

Kinds are matched case-insensitively against the names listed by "catalog".

Examples:
  nuvostat encode SetVolume --zone 3 --volume 40
  nuvostat encode SetSource -z 1 -s 4 --framed
  nuvostat encode SetSourceIR56 --source 2`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeFields.register(encodeCmd)
	encodeCmd.Flags().BoolVar(&encodeFramed, "framed", false, "Print the telegram with wire framing, quoted")
}

func runEncode(cmd *cobra.Command, args []string) error {
	kind, err := essentia.ParseCommandKind(args[0])
	if err != nil {
		return err
	}
	v, err := encodeFields.fields(cmd)
	if err != nil {
		return err
	}
	return encodeTo(cmd.OutOrStdout(), codec, kind, v, encodeFramed)
}

func encodeTo(out io.Writer, c *essentia.Codec, kind essentia.CommandKind, v essentia.Fields, framed bool) error {
	telegram, err := c.Encode(kind, v)
	if err != nil {
		metrics.RecordEncodeFailure(kind)
		return err
	}

	if framed {
		fmt.Fprintf(out, "%q\n", essentia.EncodeTelegram(telegram))
		return nil
	}
	fmt.Fprintln(out, telegram)
	return nil
}
