// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

// Fields is the typed payload of a command. Unset fields hold their sentinel.
type Fields struct {
	Zone              Zone
	Source            Source
	Power             PowerStatus
	Volume            int // dB below max, 0..-79
	Bass              int // -12..12
	Treble            int // -12..12
	IRCarrier         [IRSourceSlots]IRCarrierFrequency
	DIPSwitchOverride DIPSwitchOverrideStatus
	VolumeReset       VolumeResetStatus
	SourceGroup       SourceGroupStatus
	FirmwareVersion   string
}

// NewFields returns a field set with every field at its sentinel
func NewFields() Fields {
	return Fields{
		Zone:              NoZone,
		Source:            NoSource,
		Power:             PowerUnknown,
		Volume:            LevelUnset,
		Bass:              LevelUnset,
		Treble:            LevelUnset,
		DIPSwitchOverride: DIPSwitchOverrideUnknown,
		VolumeReset:       VolumeResetUnknown,
		SourceGroup:       SourceGroupUnknown,
	}
}

// Field names one placeholder-backed value of Fields
type Field int

const (
	FieldZone Field = iota
	FieldSource
	FieldPower
	FieldVolume
	FieldBass
	FieldTreble
	FieldIRSource1
	FieldIRSource2
	FieldIRSource3
	FieldIRSource4
	FieldIRSource5
	FieldIRSource6
	FieldDIPSwitchOverride
	FieldVolumeReset
	FieldSourceGroup
	FieldFirmwareVersion

	numFields
)

var fieldTokens = [...]string{
	FieldZone:              "xx",
	FieldSource:            "s",
	FieldPower:             "ppp",
	FieldVolume:            "yy",
	FieldBass:              "uuu",
	FieldTreble:            "ttt",
	FieldIRSource1:         "aa",
	FieldIRSource2:         "bb",
	FieldIRSource3:         "cc",
	FieldIRSource4:         "dd",
	FieldIRSource5:         "ee",
	FieldIRSource6:         "ff",
	FieldDIPSwitchOverride: "i",
	FieldVolumeReset:       "r",
	FieldSourceGroup:       "q",
	FieldFirmwareVersion:   "vz.zz",
}

var fieldNames = [...]string{
	FieldZone:              "zone",
	FieldSource:            "source",
	FieldPower:             "power",
	FieldVolume:            "volume",
	FieldBass:              "bass",
	FieldTreble:            "treble",
	FieldIRSource1:         "ir1",
	FieldIRSource2:         "ir2",
	FieldIRSource3:         "ir3",
	FieldIRSource4:         "ir4",
	FieldIRSource5:         "ir5",
	FieldIRSource6:         "ir6",
	FieldDIPSwitchOverride: "dip_override",
	FieldVolumeReset:       "volume_reset",
	FieldSourceGroup:       "source_group",
	FieldFirmwareVersion:   "firmware",
}

// Token returns the placeholder text that represents the field in a template
func (f Field) Token() string {
	if f < 0 || f >= numFields {
		return ""
	}
	return fieldTokens[f]
}

// String returns the field name
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// irSlot returns the source slot index of an IR field, or -1
func (f Field) irSlot() int {
	if f >= FieldIRSource1 && f <= FieldIRSource6 {
		return int(f - FieldIRSource1)
	}
	return -1
}

// irFields lists the IR carrier fields in slot order
var irFields = []Field{
	FieldIRSource1, FieldIRSource2, FieldIRSource3,
	FieldIRSource4, FieldIRSource5, FieldIRSource6,
}

// allFields is the extraction order used when every field is decoded
var allFields = []Field{
	FieldZone,
	FieldSource,
	FieldPower,
	FieldVolume,
	FieldBass,
	FieldTreble,
	FieldFirmwareVersion,
	FieldVolumeReset,
	FieldSourceGroup,
	FieldDIPSwitchOverride,
	FieldIRSource1,
	FieldIRSource2,
	FieldIRSource3,
	FieldIRSource4,
	FieldIRSource5,
	FieldIRSource6,
}

// Set reports whether the field holds a value other than its sentinel
func (v Fields) Set(f Field) bool {
	switch f {
	case FieldZone:
		return v.Zone != NoZone
	case FieldSource:
		return v.Source != NoSource
	case FieldPower:
		return v.Power != PowerUnknown
	case FieldVolume:
		return v.Volume != LevelUnset
	case FieldBass:
		return v.Bass != LevelUnset
	case FieldTreble:
		return v.Treble != LevelUnset
	case FieldDIPSwitchOverride:
		return v.DIPSwitchOverride != DIPSwitchOverrideUnknown
	case FieldVolumeReset:
		return v.VolumeReset != VolumeResetUnknown
	case FieldSourceGroup:
		return v.SourceGroup != SourceGroupUnknown
	case FieldFirmwareVersion:
		return v.FirmwareVersion != ""
	}
	if slot := f.irSlot(); slot >= 0 {
		return v.IRCarrier[slot] != IRUnknown
	}
	return false
}

// reset puts a single field back to its sentinel
func (v *Fields) reset(f Field) {
	switch f {
	case FieldZone:
		v.Zone = NoZone
	case FieldSource:
		v.Source = NoSource
	case FieldPower:
		v.Power = PowerUnknown
	case FieldVolume:
		v.Volume = LevelUnset
	case FieldBass:
		v.Bass = LevelUnset
	case FieldTreble:
		v.Treble = LevelUnset
	case FieldDIPSwitchOverride:
		v.DIPSwitchOverride = DIPSwitchOverrideUnknown
	case FieldVolumeReset:
		v.VolumeReset = VolumeResetUnknown
	case FieldSourceGroup:
		v.SourceGroup = SourceGroupUnknown
	case FieldFirmwareVersion:
		v.FirmwareVersion = ""
	default:
		if slot := f.irSlot(); slot >= 0 {
			v.IRCarrier[slot] = IRUnknown
		}
	}
}

// copyField copies a single field from src
func (v *Fields) copyField(src Fields, f Field) {
	switch f {
	case FieldZone:
		v.Zone = src.Zone
	case FieldSource:
		v.Source = src.Source
	case FieldPower:
		v.Power = src.Power
	case FieldVolume:
		v.Volume = src.Volume
	case FieldBass:
		v.Bass = src.Bass
	case FieldTreble:
		v.Treble = src.Treble
	case FieldDIPSwitchOverride:
		v.DIPSwitchOverride = src.DIPSwitchOverride
	case FieldVolumeReset:
		v.VolumeReset = src.VolumeReset
	case FieldSourceGroup:
		v.SourceGroup = src.SourceGroup
	case FieldFirmwareVersion:
		v.FirmwareVersion = src.FirmwareVersion
	default:
		if slot := f.irSlot(); slot >= 0 {
			v.IRCarrier[slot] = src.IRCarrier[slot]
		}
	}
}
