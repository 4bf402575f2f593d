// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"errors"
	"strings"
	"testing"
)

func TestStatistics_Update(t *testing.T) {
	c, _ := newTestCodec(t)
	s := NewStatistics()

	for _, raw := range []string{
		"Z02PWRON,SRC3,GRP0,VOL-20",
		"Z02PWRON,SRC3,GRP0,VOL-20",
		"?",
		"JUNK",
		"EXTMON",
	} {
		cmd, _ := c.Decode(raw)
		s.Update(cmd, nil, ValidateCommand(cmd))
	}
	s.Update(nil, errors.New("unframed byte 0x41"), nil)

	if s.TotalTelegrams != 6 {
		t.Errorf("Expected 6 telegrams, got %d", s.TotalTelegrams)
	}
	if s.Recognized != 4 || s.Clean != 2 {
		t.Errorf("Expected 4 recognized and 2 clean, got %d and %d", s.Recognized, s.Clean)
	}
	if s.Unrecognized != 1 || s.DeviceErrors != 1 || s.ExternalMutes != 1 || s.FramingErrors != 1 {
		t.Errorf("Unexpected anomaly counters: %+v", s)
	}
	if s.PerKind[ReadStatusConnect] != 2 {
		t.Errorf("Expected 2 connect status replies, got %d", s.PerKind[ReadStatusConnect])
	}
	// external mute is a notification, not an error
	if s.Errors() != 3 {
		t.Errorf("Expected 3 errors, got %d", s.Errors())
	}

	out := s.String()
	for _, want := range []string{"Total Telegrams:", "Framing Errors:", "Device Errors:", "ReadStatusConnect"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}

	s.Reset()
	if s.TotalTelegrams != 0 || len(s.PerKind) != 0 || s.StartTime.IsZero() {
		t.Errorf("Reset should clear counters, got %+v", s)
	}
}
