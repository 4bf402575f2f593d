// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package essentia implements the telegram codec for the Nuvo Essentia
// multi-zone audio matrix serial protocol.
//
// Telegrams are fixed-format ASCII strings described by templates. A template
// holds literal characters and lowercase placeholder runs (xx, s, ppp, yy, ...)
// that are substituted when encoding and sliced out when decoding. The
// Codec matches raw telegrams against an ordered Catalog of templates and
// extracts typed Fields from them.
package essentia

import (
	"fmt"
	"strings"
)

// Telegram framing characters
const (
	OutgoingStart = '*'
	IncomingStart = '#'
	CarriageRet   = '\r'
	LineFeed      = '\n'
)

// Telegram size limits
const (
	MaxTelegramSize = 64
)

// Device limits
const (
	MaxZone       = 12
	MaxSource     = 6
	IRSourceSlots = 6

	MinVolume = -79
	MaxVolume = 0
	MinLevel  = -12
	MaxLevel  = 12

	// LevelUnset marks an unset volume, bass or treble level
	LevelUnset = -999
)

// CommandKind identifies one command or response shape of the protocol
type CommandKind int

const (
	NoCommand CommandKind = iota

	// Status reads
	ReadStatusConnect
	ReadStatusZone
	ReadStatusSourceIR
	ReadVersion

	// IR carrier frequency
	SetSourceIR38
	SetSourceIR56
	RestoreDefaultSourceIR

	// Power
	TurnZoneOn
	TurnZoneOff
	TurnAllZoneOff

	// Source and volume
	SetSource
	SetVolume
	RampVolumeUp
	RampVolumeDown
	StopRampVolume
	RampVolumeAllZoneUp
	RampVolumeAllZoneDown
	StopRampVolumeAllZone

	// Mute
	MuteOn
	MuteOff
	MuteAllZoneOn
	MuteAllZoneOff

	// Tone
	SetBassLevel
	SetTrebleLevel

	// Zone options
	SetSourceGroupOn
	SetSourceGroupOff
	SetVolumeResetOn
	SetVolumeResetOff
	SetKeypadLockOn
	SetKeypadLockOff

	// Incoming only
	ExternalMuteActivated
	ExternalMuteDeactivated
	ErrorInCommand

	// Compound commands, refused by the codec
	SetZoneStatus
	GetZoneStatus

	numCommandKinds
)

var commandKindNames = [...]string{
	NoCommand:               "NoCommand",
	ReadStatusConnect:       "ReadStatusConnect",
	ReadStatusZone:          "ReadStatusZone",
	ReadStatusSourceIR:      "ReadStatusSourceIR",
	ReadVersion:             "ReadVersion",
	SetSourceIR38:           "SetSourceIR38",
	SetSourceIR56:           "SetSourceIR56",
	RestoreDefaultSourceIR:  "RestoreDefaultSourceIR",
	TurnZoneOn:              "TurnZoneOn",
	TurnZoneOff:             "TurnZoneOff",
	TurnAllZoneOff:          "TurnAllZoneOff",
	SetSource:               "SetSource",
	SetVolume:               "SetVolume",
	RampVolumeUp:            "RampVolumeUp",
	RampVolumeDown:          "RampVolumeDown",
	StopRampVolume:          "StopRampVolume",
	RampVolumeAllZoneUp:     "RampVolumeAllZoneUp",
	RampVolumeAllZoneDown:   "RampVolumeAllZoneDown",
	StopRampVolumeAllZone:   "StopRampVolumeAllZone",
	MuteOn:                  "MuteOn",
	MuteOff:                 "MuteOff",
	MuteAllZoneOn:           "MuteAllZoneOn",
	MuteAllZoneOff:          "MuteAllZoneOff",
	SetBassLevel:            "SetBassLevel",
	SetTrebleLevel:          "SetTrebleLevel",
	SetSourceGroupOn:        "SetSourceGroupOn",
	SetSourceGroupOff:       "SetSourceGroupOff",
	SetVolumeResetOn:        "SetVolumeResetOn",
	SetVolumeResetOff:       "SetVolumeResetOff",
	SetKeypadLockOn:         "SetKeypadLockOn",
	SetKeypadLockOff:        "SetKeypadLockOff",
	ExternalMuteActivated:   "ExternalMuteActivated",
	ExternalMuteDeactivated: "ExternalMuteDeactivated",
	ErrorInCommand:          "ErrorInCommand",
	SetZoneStatus:           "SetZoneStatus",
	GetZoneStatus:           "GetZoneStatus",
}

// String returns the profile name of the command kind
func (k CommandKind) String() string {
	if k < 0 || k >= numCommandKinds {
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
	return commandKindNames[k]
}

// Known reports whether k is a member of the enumeration other than NoCommand
func (k CommandKind) Known() bool {
	return k > NoCommand && k < numCommandKinds
}

// Compound reports whether k combines several telegrams and is refused by the codec
func (k CommandKind) Compound() bool {
	return k == SetZoneStatus || k == GetZoneStatus
}

// ParseCommandKind looks up a command kind by its profile name (case-insensitive)
func ParseCommandKind(name string) (CommandKind, error) {
	for k := NoCommand + 1; k < numCommandKinds; k++ {
		if strings.EqualFold(commandKindNames[k], name) {
			return k, nil
		}
	}
	return NoCommand, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// CommandKinds returns every known command kind in declaration order
func CommandKinds() []CommandKind {
	kinds := make([]CommandKind, 0, numCommandKinds-1)
	for k := NoCommand + 1; k < numCommandKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Zone identifies an output zone (1..MaxZone)
type Zone int

// NoZone marks an unset zone
const NoZone Zone = 0

// Valid reports whether z addresses a real zone
func (z Zone) Valid() bool {
	return z >= 1 && z <= MaxZone
}

// Source identifies an input source (1..MaxSource)
type Source int

// NoSource marks an unset source
const NoSource Source = 0

// Valid reports whether s addresses a real source
func (s Source) Valid() bool {
	return s >= 1 && s <= MaxSource
}

// PowerStatus is the power state of a zone
type PowerStatus int

const (
	PowerUnknown PowerStatus = iota
	PowerOn
	PowerOff
)

// IRCarrierFrequency is the IR carrier frequency configured for a source slot
type IRCarrierFrequency int

const (
	IRUnknown IRCarrierFrequency = iota
	IR38kHz
	IR56kHz
)

// DIPSwitchOverrideStatus reports whether a zone overrides its DIP switch settings
type DIPSwitchOverrideStatus int

const (
	DIPSwitchOverrideUnknown DIPSwitchOverrideStatus = iota - 1
	DIPSwitchOverrideOff
	DIPSwitchOverrideOn
)

// VolumeResetStatus reports whether a zone resets its volume on power up
type VolumeResetStatus int

const (
	VolumeResetUnknown VolumeResetStatus = iota - 1
	VolumeResetOff
	VolumeResetOn
)

// SourceGroupStatus reports whether a zone is part of the source group
type SourceGroupStatus int

const (
	SourceGroupUnknown SourceGroupStatus = iota - 1
	SourceGroupOff
	SourceGroupOn
)
