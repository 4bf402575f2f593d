// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Nuvostat - Nuvo Essentia Serial Protocol Tool
//
// A CLI tool for encoding, decoding and monitoring Nuvo Essentia telegrams
// and for controlling the zones of an Essentia audio matrix.

package main

import (
	"os"

	"github.com/Thermoquad/nuvostat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
