// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

// fieldFlags are the command field flags shared by encode and send
type fieldFlags struct {
	zone   int
	source int
	volume int
	bass   int
	treble int
	power  string
	ir     []int
	group  string
	reset  string
	dip    string
}

func (f *fieldFlags) register(c *cobra.Command) {
	flags := c.Flags()
	flags.IntVarP(&f.zone, "zone", "z", 0, fmt.Sprintf("Zone (1-%d)", essentia.MaxZone))
	flags.IntVarP(&f.source, "source", "s", 0, fmt.Sprintf("Source (1-%d)", essentia.MaxSource))
	flags.IntVar(&f.volume, "volume", 0, "Volume in dB below max (0 to -79, positive values are negated)")
	flags.IntVar(&f.bass, "bass", 0, "Bass level (-12 to 12)")
	flags.IntVar(&f.treble, "treble", 0, "Treble level (-12 to 12)")
	flags.StringVar(&f.power, "power", "", "Power state (on or off)")
	flags.IntSliceVar(&f.ir, "ir", nil, "IR carrier per source slot in kHz (38 or 56), comma separated")
	flags.StringVar(&f.group, "group", "", "Source group (on or off)")
	flags.StringVar(&f.reset, "volume-reset", "", "Volume reset (on or off)")
	flags.StringVar(&f.dip, "dip-override", "", "DIP switch override (on or off)")
}

// fields converts the flags that were given into a field set.
// Flags left alone keep their sentinel.
func (f *fieldFlags) fields(c *cobra.Command) (essentia.Fields, error) {
	flags := c.Flags()
	v := essentia.NewFields()

	if flags.Changed("zone") {
		v.Zone = essentia.Zone(f.zone)
	}
	if flags.Changed("source") {
		v.Source = essentia.Source(f.source)
	}
	if flags.Changed("volume") {
		v.Volume = f.volume
	}
	if flags.Changed("bass") {
		v.Bass = f.bass
	}
	if flags.Changed("treble") {
		v.Treble = f.treble
	}

	if flags.Changed("power") {
		on, err := parseOnOff("power", f.power)
		if err != nil {
			return v, err
		}
		v.Power = essentia.PowerOff
		if on {
			v.Power = essentia.PowerOn
		}
	}

	if flags.Changed("ir") {
		if len(f.ir) > essentia.IRSourceSlots {
			return v, fmt.Errorf("--ir takes at most %d values, got %d", essentia.IRSourceSlots, len(f.ir))
		}
		for i, khz := range f.ir {
			switch khz {
			case 38:
				v.IRCarrier[i] = essentia.IR38kHz
			case 56:
				v.IRCarrier[i] = essentia.IR56kHz
			default:
				return v, fmt.Errorf("--ir slot %d: carrier must be 38 or 56, got %d", i+1, khz)
			}
		}
	}

	if flags.Changed("group") {
		on, err := parseOnOff("group", f.group)
		if err != nil {
			return v, err
		}
		v.SourceGroup = essentia.SourceGroupStatus(boolStatus(on))
	}
	if flags.Changed("volume-reset") {
		on, err := parseOnOff("volume-reset", f.reset)
		if err != nil {
			return v, err
		}
		v.VolumeReset = essentia.VolumeResetStatus(boolStatus(on))
	}
	if flags.Changed("dip-override") {
		on, err := parseOnOff("dip-override", f.dip)
		if err != nil {
			return v, err
		}
		v.DIPSwitchOverride = essentia.DIPSwitchOverrideStatus(boolStatus(on))
	}

	return v, nil
}

func parseOnOff(name, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "1", "true", "yes":
		return true, nil
	case "off", "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("--%s must be on or off, got %q", name, value)
}

func boolStatus(on bool) int {
	if on {
		return 1
	}
	return 0
}

// telegramArg strips optional wire framing from a telegram given on the command line
func telegramArg(arg string) string {
	arg = strings.TrimRight(arg, "\r\n")
	if len(arg) > 0 && (arg[0] == essentia.OutgoingStart || arg[0] == essentia.IncomingStart) {
		arg = arg[1:]
	}
	return arg
}
