// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
	"github.com/Thermoquad/nuvostat/pkg/profile"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the command templates of the loaded profile",
	Long: `Print every command of the loaded profile in catalog order, which is the
order telegrams are matched in, along with the fields each kind encodes.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	entries, err := activeProfile.Entries()
	if err != nil {
		return err
	}
	printCatalog(cmd.OutOrStdout(), activeProfile, entries)
	return nil
}

func printCatalog(out io.Writer, p *profile.Profile, entries []essentia.Entry) {
	fmt.Fprintf(out, "Profile: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(out, "  %s\n", p.Description)
	}
	if p.Baud > 0 {
		fmt.Fprintf(out, "  Baud: %d\n", p.Baud)
	}
	fmt.Fprintf(out, "  Embedded profiles: %s\n\n", strings.Join(profile.Names(), ", "))

	fmt.Fprintf(out, "%3s  %-24s %-12s %-36s %s\n", "#", "KIND", "OUTGOING", "INCOMING", "FIELDS")
	for i, e := range entries {
		var names []string
		if fields, ok := essentia.EncodeFields(e.Kind); ok {
			for _, f := range fields {
				names = append(names, f.String())
			}
		}
		fmt.Fprintf(out, "%3d  %-24s %-12s %-36s %s\n",
			i+1, e.Kind, orDash(e.Outgoing), orDash(e.Incoming), strings.Join(names, ","))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
