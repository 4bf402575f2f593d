// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"strings"
)

// FormatCommand formats a command into a human-readable string
func FormatCommand(cmd *Command) string {
	timestamp := cmd.CreatedAt().Format("15:04:05.000")
	if !cmd.ReceivedAt().IsZero() {
		timestamp = cmd.ReceivedAt().Format("15:04:05.000")
	}

	if !cmd.Valid() {
		return fmt.Sprintf("[%s] UNRECOGNIZED %q\n", timestamp, cmd.Incoming())
	}

	telegram := cmd.Incoming()
	if cmd.MatchedDirection() == DirectionOutgoing || telegram == "" {
		telegram = cmd.Outgoing()
	}

	result := fmt.Sprintf("[%s] %s (%s) %q\n", timestamp, FormatKind(cmd.Kind()), cmd.MatchedDirection(), telegram)
	if fields := FormatFields(cmd.Fields()); fields != "" {
		result += "  " + fields + "\n"
	}
	return result
}

// FormatKind returns the upper-case display name of a command kind
func FormatKind(kind CommandKind) string {
	var b strings.Builder
	name := kind.String()
	for i := 0; i < len(name); i++ {
		c := name[i]
		if i > 0 && c >= 'A' && c <= 'Z' && name[i-1] >= 'a' && name[i-1] <= 'z' {
			b.WriteByte('_')
		}
		b.WriteByte(c)
	}
	return strings.ToUpper(b.String())
}

// FormatFields renders every set field as name=value pairs
func FormatFields(v Fields) string {
	var parts []string

	if v.Set(FieldZone) {
		parts = append(parts, fmt.Sprintf("Zone: %d", v.Zone))
	}
	if v.Set(FieldPower) {
		parts = append(parts, fmt.Sprintf("Power: %s", FormatPower(v.Power)))
	}
	if v.Set(FieldSource) {
		parts = append(parts, fmt.Sprintf("Source: %d", v.Source))
	}
	if v.Set(FieldVolume) {
		parts = append(parts, fmt.Sprintf("Volume: %d dB", v.Volume))
	}
	if v.Set(FieldBass) {
		parts = append(parts, fmt.Sprintf("Bass: %+d", v.Bass))
	}
	if v.Set(FieldTreble) {
		parts = append(parts, fmt.Sprintf("Treble: %+d", v.Treble))
	}
	if v.Set(FieldSourceGroup) {
		parts = append(parts, fmt.Sprintf("Group: %s", formatToggle(int(v.SourceGroup))))
	}
	if v.Set(FieldDIPSwitchOverride) {
		parts = append(parts, fmt.Sprintf("DIP Override: %s", formatToggle(int(v.DIPSwitchOverride))))
	}
	if v.Set(FieldVolumeReset) {
		parts = append(parts, fmt.Sprintf("Volume Reset: %s", formatToggle(int(v.VolumeReset))))
	}

	var ir []string
	for slot, freq := range v.IRCarrier {
		if freq != IRUnknown {
			ir = append(ir, fmt.Sprintf("%d=%s", slot+1, FormatIRCarrier(freq)))
		}
	}
	if len(ir) > 0 {
		parts = append(parts, "IR: "+strings.Join(ir, " "))
	}

	if v.Set(FieldFirmwareVersion) {
		parts = append(parts, fmt.Sprintf("Firmware: %s", v.FirmwareVersion))
	}
	return strings.Join(parts, ", ")
}

// FormatPower returns the display name of a power status
func FormatPower(p PowerStatus) string {
	switch p {
	case PowerOn:
		return "ON"
	case PowerOff:
		return "OFF"
	}
	return "UNKNOWN"
}

// FormatIRCarrier returns the display name of an IR carrier frequency
func FormatIRCarrier(f IRCarrierFrequency) string {
	switch f {
	case IR38kHz:
		return "38kHz"
	case IR56kHz:
		return "56kHz"
	}
	return "UNKNOWN"
}

func formatToggle(status int) string {
	switch status {
	case 0:
		return "OFF"
	case 1:
		return "ON"
	}
	return "UNKNOWN"
}
