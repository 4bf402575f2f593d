// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

// Command builder functions create Commands ready for sending.
// These are convenience wrappers around Codec.NewCommand that fill in the
// fields each kind carries.

// NewReadVersion creates a firmware version request
func NewReadVersion(c *Codec) (*Command, error) {
	return c.NewCommand(ReadVersion, NewFields())
}

// NewReadStatusConnect requests the power, source and volume status of a zone
func NewReadStatusConnect(c *Codec, zone Zone) (*Command, error) {
	return newZoneCommand(c, ReadStatusConnect, zone)
}

// NewReadStatusZone requests the tone and option settings of a zone
func NewReadStatusZone(c *Codec, zone Zone) (*Command, error) {
	return newZoneCommand(c, ReadStatusZone, zone)
}

// NewTurnZone powers a zone on or off
func NewTurnZone(c *Codec, zone Zone, on bool) (*Command, error) {
	if on {
		return newZoneCommand(c, TurnZoneOn, zone)
	}
	return newZoneCommand(c, TurnZoneOff, zone)
}

// NewMute mutes or unmutes a zone
func NewMute(c *Codec, zone Zone, on bool) (*Command, error) {
	if on {
		return newZoneCommand(c, MuteOn, zone)
	}
	return newZoneCommand(c, MuteOff, zone)
}

// NewSetSource selects the source played in a zone
func NewSetSource(c *Codec, zone Zone, source Source) (*Command, error) {
	v := NewFields()
	v.Zone = zone
	v.Source = source
	return c.NewCommand(SetSource, v)
}

// NewSetVolume sets the volume of a zone in dB below maximum (0..-79).
// The sign is ignored on the wire.
func NewSetVolume(c *Codec, zone Zone, volume int) (*Command, error) {
	v := NewFields()
	v.Zone = zone
	v.Volume = volume
	return c.NewCommand(SetVolume, v)
}

// NewSetBassLevel sets the bass level of a zone (-12..12)
func NewSetBassLevel(c *Codec, zone Zone, level int) (*Command, error) {
	v := NewFields()
	v.Zone = zone
	v.Bass = level
	return c.NewCommand(SetBassLevel, v)
}

// NewSetTrebleLevel sets the treble level of a zone (-12..12)
func NewSetTrebleLevel(c *Codec, zone Zone, level int) (*Command, error) {
	v := NewFields()
	v.Zone = zone
	v.Treble = level
	return c.NewCommand(SetTrebleLevel, v)
}

// NewSetSourceIR sets the IR carrier frequency of a source slot
func NewSetSourceIR(c *Codec, source Source, freq IRCarrierFrequency) (*Command, error) {
	v := NewFields()
	v.Source = source
	switch freq {
	case IR38kHz:
		return c.NewCommand(SetSourceIR38, v)
	case IR56kHz:
		return c.NewCommand(SetSourceIR56, v)
	}
	return nil, ErrFieldUnset
}

// NewTurnAllZoneOff powers every zone off
func NewTurnAllZoneOff(c *Codec) (*Command, error) {
	return c.NewCommand(TurnAllZoneOff, NewFields())
}

func newZoneCommand(c *Codec, kind CommandKind, zone Zone) (*Command, error) {
	v := NewFields()
	v.Zone = zone
	return c.NewCommand(kind, v)
}
