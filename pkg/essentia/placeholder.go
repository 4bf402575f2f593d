// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"strings"
)

// Power status texts. ON is one character narrower than its placeholder.
const (
	powerOnText  = "ON"
	powerOffText = "OFF"
)

// IR carrier frequency texts
const (
	ir38Text = "38"
	ir56Text = "56"
)

// EncodeField substitutes the field's placeholder in template with its value.
// A template without the placeholder is returned unchanged. When the value is
// unset or out of range the template is returned unchanged with an error.
func EncodeField(template string, f Field, v Fields) (string, error) {
	token := f.Token()
	if token == "" || !strings.Contains(template, token) {
		return template, nil
	}
	text, err := renderField(f, token, v)
	if err != nil {
		return template, fmt.Errorf("replace %s %q: %w", f, token, err)
	}
	return strings.ReplaceAll(template, token, text), nil
}

func renderField(f Field, token string, v Fields) (string, error) {
	switch f {
	case FieldZone:
		if v.Zone == NoZone {
			return "", ErrFieldUnset
		}
		if !v.Zone.Valid() {
			return "", fmt.Errorf("%w: zone %d", ErrFieldRange, v.Zone)
		}
		return padNumber(int(v.Zone), len(token)), nil

	case FieldSource:
		if v.Source == NoSource {
			return "", ErrFieldUnset
		}
		if !v.Source.Valid() {
			return "", fmt.Errorf("%w: source %d", ErrFieldRange, v.Source)
		}
		return padNumber(int(v.Source), len(token)), nil

	case FieldPower:
		switch v.Power {
		case PowerOn:
			return powerOnText, nil
		case PowerOff:
			return powerOffText, nil
		}
		return "", ErrFieldUnset

	case FieldVolume:
		if v.Volume == LevelUnset {
			return "", ErrFieldUnset
		}
		// the sign is implied, only the attenuation is sent
		level := v.Volume
		if level < 0 {
			level = -level
		}
		if level > -MinVolume {
			return "", fmt.Errorf("%w: volume %d (allowed %d..%d)", ErrFieldRange, v.Volume, MinVolume, MaxVolume)
		}
		return padNumber(level, len(token)), nil

	case FieldBass:
		return renderLevel(v.Bass, token)

	case FieldTreble:
		return renderLevel(v.Treble, token)

	case FieldDIPSwitchOverride:
		return renderStatus(int(v.DIPSwitchOverride), int(DIPSwitchOverrideUnknown), token)

	case FieldVolumeReset:
		return renderStatus(int(v.VolumeReset), int(VolumeResetUnknown), token)

	case FieldSourceGroup:
		return renderStatus(int(v.SourceGroup), int(SourceGroupUnknown), token)

	case FieldFirmwareVersion:
		return "", ErrDecodeOnlyField
	}

	if slot := f.irSlot(); slot >= 0 {
		switch v.IRCarrier[slot] {
		case IR38kHz:
			return ir38Text, nil
		case IR56kHz:
			return ir56Text, nil
		}
		return "", ErrFieldUnset
	}
	return "", fmt.Errorf("%w: field %d", ErrFieldRange, int(f))
}

// renderLevel renders a bass or treble level as sign plus zero-padded magnitude
func renderLevel(level int, token string) (string, error) {
	if level == LevelUnset {
		return "", ErrFieldUnset
	}
	if level < MinLevel || level > MaxLevel {
		return "", fmt.Errorf("%w: level %d (allowed %d..%d)", ErrFieldRange, level, MinLevel, MaxLevel)
	}
	return fmt.Sprintf("%+0*d", len(token), level), nil
}

func renderStatus(status, unknown int, token string) (string, error) {
	if status == unknown {
		return "", ErrFieldUnset
	}
	if status != 0 && status != 1 {
		return "", fmt.Errorf("%w: status %d", ErrFieldRange, status)
	}
	return padNumber(status, len(token)), nil
}

func padNumber(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// DecodeField extracts the field's placeholder region from raw, using the
// placeholder's offset in template, and stores the parsed value in v.
// A template without the placeholder leaves v untouched. A region that does
// not parse sets the field to its sentinel and returns an error.
func DecodeField(template, raw string, f Field, v *Fields) error {
	token := f.Token()
	offset := strings.Index(template, token)
	if token == "" || offset < 0 {
		return nil
	}

	raw = alignPower(template, raw)
	if offset+len(token) > len(raw) {
		v.reset(f)
		return fmt.Errorf("parse %s: %w: telegram %q too short for %q", f, ErrFieldParse, raw, template)
	}
	text := raw[offset : offset+len(token)]

	if err := parseField(f, text, v); err != nil {
		v.reset(f)
		return fmt.Errorf("parse %s %q: %w", f, text, err)
	}
	return nil
}

// alignPower restores the width of a telegram carrying the two-character ON
// status, inserting a space in front of it at the power placeholder offset.
func alignPower(template, raw string) string {
	offset := strings.Index(template, fieldTokens[FieldPower])
	if offset < 0 || len(raw) != len(template)-1 {
		return raw
	}
	if !strings.HasPrefix(raw[offset:], powerOnText) {
		return raw
	}
	return raw[:offset] + " " + raw[offset:]
}

func parseField(f Field, text string, v *Fields) error {
	switch f {
	case FieldZone:
		n, err := parseDigits(text)
		if err != nil {
			return err
		}
		if !Zone(n).Valid() {
			return fmt.Errorf("%w: zone %d", ErrFieldParse, n)
		}
		v.Zone = Zone(n)

	case FieldSource:
		n, err := parseDigits(text)
		if err != nil {
			return err
		}
		if !Source(n).Valid() {
			return fmt.Errorf("%w: source %d", ErrFieldParse, n)
		}
		v.Source = Source(n)

	case FieldPower:
		switch strings.TrimLeft(text, " ") {
		case powerOnText:
			v.Power = PowerOn
		case powerOffText:
			v.Power = PowerOff
		default:
			return ErrFieldParse
		}

	case FieldVolume:
		n, err := parseDigits(text)
		if err != nil {
			return err
		}
		if n > -MinVolume {
			return fmt.Errorf("%w: volume %d", ErrFieldParse, n)
		}
		v.Volume = -n

	case FieldBass:
		n, err := parseLevel(text)
		if err != nil {
			return err
		}
		v.Bass = n

	case FieldTreble:
		n, err := parseLevel(text)
		if err != nil {
			return err
		}
		v.Treble = n

	case FieldDIPSwitchOverride:
		n, err := parseStatus(text)
		if err != nil {
			return err
		}
		v.DIPSwitchOverride = DIPSwitchOverrideStatus(n)

	case FieldVolumeReset:
		n, err := parseStatus(text)
		if err != nil {
			return err
		}
		v.VolumeReset = VolumeResetStatus(n)

	case FieldSourceGroup:
		n, err := parseStatus(text)
		if err != nil {
			return err
		}
		v.SourceGroup = SourceGroupStatus(n)

	case FieldFirmwareVersion:
		v.FirmwareVersion = text

	default:
		slot := f.irSlot()
		if slot < 0 {
			return fmt.Errorf("%w: field %d", ErrFieldParse, int(f))
		}
		switch text {
		case ir38Text:
			v.IRCarrier[slot] = IR38kHz
		case ir56Text:
			v.IRCarrier[slot] = IR56kHz
		default:
			return ErrFieldParse
		}
	}
	return nil
}

// parseDigits parses an unsigned decimal made only of digits
func parseDigits(text string) (int, error) {
	if text == "" {
		return 0, ErrFieldParse
	}
	n := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return 0, ErrFieldParse
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// parseLevel parses a signed level such as "+05" or "-12"
func parseLevel(text string) (int, error) {
	if len(text) < 2 || (text[0] != '+' && text[0] != '-') {
		return 0, ErrFieldParse
	}
	n, err := parseDigits(text[1:])
	if err != nil {
		return 0, err
	}
	if text[0] == '-' {
		n = -n
	}
	if n < MinLevel || n > MaxLevel {
		return 0, fmt.Errorf("%w: level %d", ErrFieldParse, n)
	}
	return n, nil
}

func parseStatus(text string) (int, error) {
	switch text {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, ErrFieldParse
}
