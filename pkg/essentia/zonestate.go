// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"sort"
	"sync"
	"time"
)

// ZoneStatus is the last known state of one zone
type ZoneStatus struct {
	Zone              Zone
	Power             PowerStatus
	Source            Source
	Volume            int
	Bass              int
	Treble            int
	SourceGroup       SourceGroupStatus
	DIPSwitchOverride DIPSwitchOverrideStatus
	VolumeReset       VolumeResetStatus
	Updated           time.Time
}

func newZoneStatus(zone Zone) *ZoneStatus {
	return &ZoneStatus{
		Zone:              zone,
		Power:             PowerUnknown,
		Volume:            LevelUnset,
		Bass:              LevelUnset,
		Treble:            LevelUnset,
		SourceGroup:       SourceGroupUnknown,
		DIPSwitchOverride: DIPSwitchOverrideUnknown,
		VolumeReset:       VolumeResetUnknown,
	}
}

// ZoneState folds decoded device replies into per-zone state
type ZoneState struct {
	mu           sync.RWMutex
	zones        map[Zone]*ZoneStatus
	firmware     string
	externalMute bool
}

// NewZoneState creates an empty zone state tracker
func NewZoneState() *ZoneState {
	return &ZoneState{zones: make(map[Zone]*ZoneStatus)}
}

// Apply merges the fields of a decoded device reply into the state.
// Returns true if the command carried state.
func (s *ZoneState) Apply(cmd *Command) bool {
	if cmd == nil || !cmd.Valid() || cmd.Incoming() == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := cmd.Fields()
	now := cmd.ReceivedAt()
	if now.IsZero() {
		now = time.Now()
	}

	switch cmd.Kind() {
	case ReadVersion:
		if v.Set(FieldFirmwareVersion) {
			s.firmware = v.FirmwareVersion
			return true
		}
		return false
	case ExternalMuteActivated:
		s.externalMute = true
		return true
	case ExternalMuteDeactivated:
		s.externalMute = false
		return true
	case TurnAllZoneOff:
		for _, z := range s.zones {
			z.Power = PowerOff
			z.Updated = now
		}
		return true
	}

	if !v.Zone.Valid() {
		return false
	}
	z, ok := s.zones[v.Zone]
	if !ok {
		z = newZoneStatus(v.Zone)
		s.zones[v.Zone] = z
	}

	if v.Set(FieldPower) {
		z.Power = v.Power
	}
	if v.Set(FieldSource) {
		z.Source = v.Source
	}
	if v.Set(FieldVolume) {
		z.Volume = v.Volume
	}
	if v.Set(FieldBass) {
		z.Bass = v.Bass
	}
	if v.Set(FieldTreble) {
		z.Treble = v.Treble
	}
	if v.Set(FieldSourceGroup) {
		z.SourceGroup = v.SourceGroup
	}
	if v.Set(FieldDIPSwitchOverride) {
		z.DIPSwitchOverride = v.DIPSwitchOverride
	}
	if v.Set(FieldVolumeReset) {
		z.VolumeReset = v.VolumeReset
	}
	z.Updated = now
	return true
}

// Zone returns the state of one zone
func (s *ZoneState) Zone(zone Zone) (ZoneStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[zone]
	if !ok {
		return ZoneStatus{}, false
	}
	return *z, true
}

// Zones returns every known zone ordered by zone id
func (s *ZoneState) Zones() []ZoneStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ZoneStatus, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, *z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out
}

// Firmware returns the last reported firmware version
func (s *ZoneState) Firmware() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firmware
}

// ExternalMute reports whether the external mute input is active
func (s *ZoneState) ExternalMute() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.externalMute
}
