// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"errors"
	"reflect"
	"testing"
)

// ============================================================
// EncodeField Tests
// ============================================================

func TestEncodeField(t *testing.T) {
	withZone := func(z Zone) Fields { v := NewFields(); v.Zone = z; return v }
	withSource := func(s Source) Fields { v := NewFields(); v.Source = s; return v }
	withVolume := func(n int) Fields { v := NewFields(); v.Volume = n; return v }
	withBass := func(n int) Fields { v := NewFields(); v.Bass = n; return v }
	withPower := func(p PowerStatus) Fields { v := NewFields(); v.Power = p; return v }
	withGroup := func(s SourceGroupStatus) Fields { v := NewFields(); v.SourceGroup = s; return v }
	withIR := func(slot int, f IRCarrierFrequency) Fields { v := NewFields(); v.IRCarrier[slot] = f; return v }

	tests := []struct {
		name     string
		template string
		field    Field
		values   Fields
		want     string
		wantErr  error
	}{
		{"zone padded", "ZxxON", FieldZone, withZone(1), "Z01ON", nil},
		{"zone two digits", "ZxxON", FieldZone, withZone(12), "Z12ON", nil},
		{"zone unset", "ZxxON", FieldZone, withZone(NoZone), "ZxxON", ErrFieldUnset},
		{"zone out of range", "ZxxON", FieldZone, withZone(13), "ZxxON", ErrFieldRange},
		{"token absent", "VER", FieldZone, withZone(3), "VER", nil},
		{"source", "ISRCsLO", FieldSource, withSource(4), "ISRC4LO", nil},
		{"source out of range", "ISRCsLO", FieldSource, withSource(7), "ISRCsLO", ErrFieldRange},
		{"volume negative", "Z01VOLyy", FieldVolume, withVolume(-20), "Z01VOL20", nil},
		{"volume positive", "Z01VOLyy", FieldVolume, withVolume(20), "Z01VOL20", nil},
		{"volume padded", "Z01VOLyy", FieldVolume, withVolume(-5), "Z01VOL05", nil},
		{"volume limit", "Z01VOLyy", FieldVolume, withVolume(-79), "Z01VOL79", nil},
		{"volume too low", "Z01VOLyy", FieldVolume, withVolume(-80), "Z01VOLyy", ErrFieldRange},
		{"volume unset", "Z01VOLyy", FieldVolume, withVolume(LevelUnset), "Z01VOLyy", ErrFieldUnset},
		{"bass positive", "Z01BASSuuu", FieldBass, withBass(5), "Z01BASS+05", nil},
		{"bass negative", "Z01BASSuuu", FieldBass, withBass(-12), "Z01BASS-12", nil},
		{"bass zero", "Z01BASSuuu", FieldBass, withBass(0), "Z01BASS+00", nil},
		{"bass out of range", "Z01BASSuuu", FieldBass, withBass(13), "Z01BASSuuu", ErrFieldRange},
		{"power on narrows", "ZxxPWRppp", FieldPower, withPower(PowerOn), "ZxxPWRON", nil},
		{"power off", "ZxxPWRppp", FieldPower, withPower(PowerOff), "ZxxPWROFF", nil},
		{"power unset", "ZxxPWRppp", FieldPower, withPower(PowerUnknown), "ZxxPWRppp", ErrFieldUnset},
		{"source group on", "GRPq", FieldSourceGroup, withGroup(SourceGroupOn), "GRP1", nil},
		{"source group off", "GRPq", FieldSourceGroup, withGroup(SourceGroupOff), "GRP0", nil},
		{"source group unset", "GRPq", FieldSourceGroup, withGroup(SourceGroupUnknown), "GRPq", ErrFieldUnset},
		{"ir slot two", irReply, FieldIRSource2, withIR(1, IR38kHz), "IRSET:aa,38,cc,dd,ee,ff", nil},
		{"ir slot six", irReply, FieldIRSource6, withIR(5, IR56kHz), "IRSET:aa,bb,cc,dd,ee,56", nil},
		{"ir unset", irReply, FieldIRSource1, NewFields(), irReply, ErrFieldUnset},
		{"firmware is decode only", "NUVO_E6D_vz.zz", FieldFirmwareVersion, NewFields(), "NUVO_E6D_vz.zz", ErrDecodeOnlyField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeField(tt.template, tt.field, tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeField_ReplacesEveryOccurrence(t *testing.T) {
	v := NewFields()
	v.Zone = 7
	got, err := EncodeField("ZxxLINKxx", FieldZone, v)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "Z07LINK07" {
		t.Errorf("Expected Z07LINK07, got %q", got)
	}
}

// ============================================================
// DecodeField Tests
// ============================================================

func TestDecodeField(t *testing.T) {
	tests := []struct {
		name     string
		template string
		raw      string
		field    Field
		check    func(Fields) bool
	}{
		{"zone", "ZxxON", "Z01ON", FieldZone, func(v Fields) bool { return v.Zone == 1 }},
		{"zone twelve", "ZxxON", "Z12ON", FieldZone, func(v Fields) bool { return v.Zone == 12 }},
		{"power on short", "Zxxppp", "Z01ON", FieldPower, func(v Fields) bool { return v.Power == PowerOn }},
		{"power off", "Zxxppp", "Z01OFF", FieldPower, func(v Fields) bool { return v.Power == PowerOff }},
		{"zone before short power", "Zxxppp", "Z04ON", FieldZone, func(v Fields) bool { return v.Zone == 4 }},
		{"volume negated", "ZxxVOLyy", "Z03VOL45", FieldVolume, func(v Fields) bool { return v.Volume == -45 }},
		{"volume zero", "ZxxVOLyy", "Z03VOL00", FieldVolume, func(v Fields) bool { return v.Volume == 0 }},
		{"bass positive", "ZxxBASSuuu", "Z01BASS+05", FieldBass, func(v Fields) bool { return v.Bass == 5 }},
		{"treble negative", "ZxxTREBttt", "Z01TREB-12", FieldTreble, func(v Fields) bool { return v.Treble == -12 }},
		{"dip override", settingsReply, "Z01OR1,BASS+00,TREB+00,GRP0,VRST0", FieldDIPSwitchOverride,
			func(v Fields) bool { return v.DIPSwitchOverride == DIPSwitchOverrideOn }},
		{"volume reset", settingsReply, "Z01OR1,BASS+00,TREB+00,GRP0,VRST1", FieldVolumeReset,
			func(v Fields) bool { return v.VolumeReset == VolumeResetOn }},
		{"firmware", "NUVO_E6D_vz.zz", "NUVO_E6D_v1.23", FieldFirmwareVersion,
			func(v Fields) bool { return v.FirmwareVersion == "v1.23" }},
		{"ir slot", irReply, "IRSET:38,56,38,38,38,38", FieldIRSource2,
			func(v Fields) bool { return v.IRCarrier[1] == IR56kHz }},
		{"source after short power", connectReply, "Z02PWRON,SRC3,GRP0,VOL-20", FieldSource,
			func(v Fields) bool { return v.Source == 3 }},
		{"volume after short power", connectReply, "Z02PWRON,SRC3,GRP0,VOL-20", FieldVolume,
			func(v Fields) bool { return v.Volume == -20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFields()
			if err := DecodeField(tt.template, tt.raw, tt.field, &v); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.check(v) {
				t.Errorf("Unexpected %s after decoding %q: %+v", tt.field, tt.raw, v)
			}
		})
	}
}

func TestDecodeField_Failures(t *testing.T) {
	tests := []struct {
		name     string
		template string
		raw      string
		field    Field
	}{
		{"volume not numeric", "ZxxVOLyy", "Z03VOL9A", FieldVolume},
		{"volume signed", "ZxxVOLyy", "Z03VOL-9", FieldVolume},
		{"volume too low", "ZxxVOLyy", "Z03VOL80", FieldVolume},
		{"telegram too short", "ZxxVOLyy", "Z03VOL", FieldVolume},
		{"zone zero", "ZxxON", "Z00ON", FieldZone},
		{"zone out of range", "ZxxON", "Z13ON", FieldZone},
		{"bass missing sign", "ZxxBASSuuu", "Z01BASS005", FieldBass},
		{"bass out of range", "ZxxBASSuuu", "Z01BASS+13", FieldBass},
		{"power garbage", "Zxxppp", "Z01ABC", FieldPower},
		{"status not binary", "GRPq", "GRP2", FieldSourceGroup},
		{"ir unknown carrier", irReply, "IRSET:40,38,38,38,38,38", FieldIRSource1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := fullFields()
			v.IRCarrier[0] = IR38kHz
			err := DecodeField(tt.template, tt.raw, tt.field, &v)
			if !errors.Is(err, ErrFieldParse) {
				t.Fatalf("Expected ErrFieldParse, got %v", err)
			}
			if v.Set(tt.field) {
				t.Errorf("Failed %s should be reset to its sentinel", tt.field)
			}
		})
	}
}

func TestDecodeField_TokenAbsentLeavesValue(t *testing.T) {
	v := NewFields()
	v.Volume = -10
	if err := DecodeField("ZxxON", "Z01ON", FieldVolume, &v); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.Volume != -10 {
		t.Errorf("Volume should be untouched, got %d", v.Volume)
	}
}

// ============================================================
// Comparator Tests
// ============================================================

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		template string
		raw      string
		want     bool
	}{
		{"empty template", "", "", false},
		{"empty template against text", "", "VER", false},
		{"literal", "VER", "VER", true},
		{"literal mismatch", "VER", "VEX", false},
		{"placeholder", "ZxxON", "Z01ON", true},
		{"placeholder accepts any byte", "ZxxON", "ZABON", true},
		{"length mismatch", "ZxxON", "Z01OFF", false},
		{"power on one short", connectReply, "Z02PWRON,SRC3,GRP0,VOL-20", true},
		{"power off full width", connectReply, "Z02PWROFF,SRC3,GRP0,VOL-20", true},
		{"short without power on", connectReply, "Z02PWROF,SRC3,GRP0,VOL-20", false},
		{"power on two short", connectReply, "Z02PWRON,SRC3,GRP0,VOL-2", false},
		{"literal after placeholder", connectReply, "Z02PWROFF,SRC3,GRX0,VOL-20", false},
		{"single character", "?", "?", true},
		{"custom framing literal", "#xx?yy", "#04?07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.template, tt.raw); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.template, tt.raw, got, tt.want)
			}
		})
	}
}

func TestUnfilledPlaceholders(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Z01VOL20", nil},
		{"Z01VOLyy", []string{"yy"}},
		{"ZxxPWRppp", []string{"xx", "ppp"}},
		{"xx", []string{"xx"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := unfilledPlaceholders(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := []string{"", "VER", "ZxxON", connectReply, settingsReply, irReply, "NUVO_E6D_vz.zz", "#xx?yy"}
	for _, tmpl := range valid {
		if err := ValidateTemplate(tmpl); err != nil {
			t.Errorf("%q should be valid: %v", tmpl, err)
		}
	}

	invalid := []string{"Zx", "ZxgON", "Zxx\x7fON", "Z\nON", "VERv"}
	for _, tmpl := range invalid {
		if err := ValidateTemplate(tmpl); !errors.Is(err, ErrMalformedTemplate) {
			t.Errorf("%q should be malformed, got %v", tmpl, err)
		}
	}
}
