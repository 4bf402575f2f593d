// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

// Field groups shared by several kinds
var (
	zoneOnly = []Field{FieldZone}

	// Fields of the zone connect status reply
	connectStatus = []Field{
		FieldZone,
		FieldPower,
		FieldSource,
		FieldSourceGroup,
		FieldVolume,
	}

	// Fields of the zone settings status reply
	zoneSettings = []Field{
		FieldZone,
		FieldDIPSwitchOverride,
		FieldBass,
		FieldTreble,
		FieldSourceGroup,
		FieldVolumeReset,
	}
)

// encodeLayout lists, per kind, the fields substituted into the outgoing
// template, in substitution order. Kinds absent from the table cannot be
// encoded.
var encodeLayout = map[CommandKind][]Field{
	ReadStatusSourceIR:     {},
	RestoreDefaultSourceIR: {},
	TurnAllZoneOff:         {},
	RampVolumeAllZoneUp:    {},
	RampVolumeAllZoneDown:  {},
	StopRampVolumeAllZone:  {},
	MuteAllZoneOn:          {},
	MuteAllZoneOff:         {},
	ReadVersion:            {},

	ReadStatusConnect: zoneOnly,
	ReadStatusZone:    zoneOnly,
	TurnZoneOn:        zoneOnly,
	TurnZoneOff:       zoneOnly,
	RampVolumeUp:      zoneOnly,
	RampVolumeDown:    zoneOnly,
	StopRampVolume:    zoneOnly,
	MuteOn:            zoneOnly,
	MuteOff:           zoneOnly,
	SetSourceGroupOn:  zoneOnly,
	SetSourceGroupOff: zoneOnly,
	SetVolumeResetOn:  zoneOnly,
	SetVolumeResetOff: zoneOnly,
	SetKeypadLockOn:   zoneOnly,
	SetKeypadLockOff:  zoneOnly,

	SetSourceIR38: {FieldSource},
	SetSourceIR56: {FieldSource},

	SetSource:      {FieldZone, FieldSource},
	SetVolume:      {FieldZone, FieldVolume},
	SetBassLevel:   {FieldZone, FieldBass},
	SetTrebleLevel: {FieldZone, FieldTreble},
}

// decodeLayout lists, per kind, the fields extracted from a reply matched on
// the incoming template. Replies may expose more fields than the command
// accepts.
var decodeLayout = map[CommandKind][]Field{
	ReadStatusSourceIR:     irFields,
	RestoreDefaultSourceIR: irFields,
	SetSourceIR38:          irFields,
	SetSourceIR56:          irFields,

	TurnAllZoneOff:        {},
	RampVolumeAllZoneUp:   {},
	RampVolumeAllZoneDown: {},
	StopRampVolumeAllZone: {},
	MuteAllZoneOn:         {},
	MuteAllZoneOff:        {},

	StopRampVolume:   zoneOnly,
	SetKeypadLockOn:  zoneOnly,
	SetKeypadLockOff: zoneOnly,

	ReadStatusConnect: connectStatus,
	TurnZoneOn:        connectStatus,
	TurnZoneOff:       connectStatus,
	SetSource:         connectStatus,
	SetVolume:         connectStatus,
	RampVolumeUp:      connectStatus,
	RampVolumeDown:    connectStatus,
	MuteOn:            connectStatus,
	MuteOff:           connectStatus,

	ReadStatusZone:    zoneSettings,
	SetBassLevel:      zoneSettings,
	SetTrebleLevel:    zoneSettings,
	SetSourceGroupOn:  zoneSettings,
	SetSourceGroupOff: zoneSettings,
	SetVolumeResetOn:  zoneSettings,
	SetVolumeResetOff: zoneSettings,

	ReadVersion: {FieldFirmwareVersion},

	ExternalMuteActivated:   {},
	ExternalMuteDeactivated: {},
	ErrorInCommand:          {},
}

// EncodeFields returns the fields a kind carries when encoded
func EncodeFields(kind CommandKind) ([]Field, bool) {
	fields, ok := encodeLayout[kind]
	return append([]Field(nil), fields...), ok
}

// DecodeFields returns the fields extracted from a reply of the given kind
func DecodeFields(kind CommandKind) ([]Field, bool) {
	fields, ok := decodeLayout[kind]
	return append([]Field(nil), fields...), ok
}
