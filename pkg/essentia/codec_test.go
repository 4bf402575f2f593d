// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// ============================================================
// Encode Tests
// ============================================================

func TestEncode(t *testing.T) {
	c, rec := newTestCodec(t)

	tests := []struct {
		name   string
		kind   CommandKind
		values func(v *Fields)
		want   string
	}{
		{"read version", ReadVersion, func(v *Fields) {}, "VER"},
		{"turn zone on", TurnZoneOn, func(v *Fields) { v.Zone = 1 }, "Z01ON"},
		{"turn zone off", TurnZoneOff, func(v *Fields) { v.Zone = 12 }, "Z12OFF"},
		{"set source", SetSource, func(v *Fields) { v.Zone = 2; v.Source = 6 }, "Z02SRC6"},
		{"set volume", SetVolume, func(v *Fields) { v.Zone = 1; v.Volume = -20 }, "Z01VOL20"},
		{"set bass", SetBassLevel, func(v *Fields) { v.Zone = 2; v.Bass = -3 }, "Z02BASS-03"},
		{"set treble", SetTrebleLevel, func(v *Fields) { v.Zone = 3; v.Treble = 12 }, "Z03TREB+12"},
		{"ir 38", SetSourceIR38, func(v *Fields) { v.Source = 3 }, "ISRC3LO"},
		{"ir 56", SetSourceIR56, func(v *Fields) { v.Source = 1 }, "ISRC1HI"},
		{"all off", TurnAllZoneOff, func(v *Fields) {}, "ALLOFF"},
		{"keypad lock", SetKeypadLockOn, func(v *Fields) { v.Zone = 9 }, "Z09LOCKON"},
		{"extra fields ignored", SetVolume, func(v *Fields) { v.Zone = 4; v.Volume = -1; v.Bass = 99 }, "Z04VOL01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFields()
			tt.values(&v)
			got, err := c.Encode(tt.kind, v)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	if n := rec.count(EventReplaceRejected); n != 0 {
		t.Errorf("Expected no rejected replacements, got %d", n)
	}
}

func TestEncode_UnsetFieldFails(t *testing.T) {
	c, rec := newTestCodec(t)

	v := NewFields()
	v.Zone = 1
	_, err := c.Encode(SetSource, v)

	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected *EncodeError, got %v", err)
	}
	if !errors.Is(err, ErrEncodingIncomplete) {
		t.Error("EncodeError should match ErrEncodingIncomplete")
	}
	if encErr.Telegram != "Z01SRCs" || !reflect.DeepEqual(encErr.Unfilled, []string{"s"}) {
		t.Errorf("Unexpected error detail: %+v", encErr)
	}
	if rec.count(EventReplaceRejected) != 1 || rec.events[0].Field != FieldSource {
		t.Errorf("Expected one rejected source replacement, got %+v", rec.events)
	}
}

func TestEncode_OutOfRangeFails(t *testing.T) {
	c, rec := newTestCodec(t)

	tests := []struct {
		name     string
		kind     CommandKind
		values   func(v *Fields)
		unfilled []string
	}{
		{"zone 13", TurnZoneOn, func(v *Fields) { v.Zone = 13 }, []string{"xx"}},
		{"volume 80", SetVolume, func(v *Fields) { v.Zone = 1; v.Volume = -80 }, []string{"yy"}},
		{"bass 13", SetBassLevel, func(v *Fields) { v.Zone = 1; v.Bass = 13 }, []string{"uuu"}},
		{"source 7", SetSource, func(v *Fields) { v.Zone = 1; v.Source = 7 }, []string{"s"}},
		{"nothing set", SetBassLevel, func(v *Fields) {}, []string{"xx", "uuu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFields()
			tt.values(&v)
			_, err := c.Encode(tt.kind, v)
			var encErr *EncodeError
			if !errors.As(err, &encErr) {
				t.Fatalf("Expected *EncodeError, got %v", err)
			}
			if !reflect.DeepEqual(encErr.Unfilled, tt.unfilled) {
				t.Errorf("Expected unfilled %v, got %v", tt.unfilled, encErr.Unfilled)
			}
		})
	}

	for _, e := range rec.events {
		if !errors.Is(e.Err, ErrFieldRange) && !errors.Is(e.Err, ErrFieldUnset) {
			t.Errorf("Unexpected rejection cause: %v", e.Err)
		}
	}
}

func TestEncode_Refused(t *testing.T) {
	c, _ := newTestCodec(t)
	partial, _ := newCodecWith(t, Entry{ReadVersion, "VER", "NUVO_E6D_vz.zz"})

	tests := []struct {
		name  string
		codec *Codec
		kind  CommandKind
		want  error
	}{
		{"no command", c, NoCommand, ErrUnknownKind},
		{"out of range kind", c, CommandKind(77), ErrUnknownKind},
		{"compound set", c, SetZoneStatus, ErrUnsupportedKind},
		{"compound get", c, GetZoneStatus, ErrUnsupportedKind},
		{"receive only", c, ExternalMuteActivated, ErrNoOutgoingTemplate},
		{"device error", c, ErrorInCommand, ErrNoOutgoingTemplate},
		{"not in catalog", partial, TurnZoneOn, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFields()
			v.Zone = 1
			_, err := tt.codec.Encode(tt.kind, v)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewCommand(t *testing.T) {
	c, _ := newTestCodec(t)

	v := NewFields()
	v.Zone = 1
	v.Volume = 30
	v.Bass = 5

	cmd, err := c.NewCommand(SetVolume, v)
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	if cmd.Outgoing() != "Z01VOL30" {
		t.Errorf("Expected Z01VOL30, got %q", cmd.Outgoing())
	}
	got := cmd.Fields()
	if got.Zone != 1 || got.Volume != -30 {
		t.Errorf("Expected zone 1 volume -30, got %+v", got)
	}
	if got.Set(FieldBass) {
		t.Error("Fields the kind does not carry should stay unset")
	}
	if cmd.OutgoingTemplate() != "ZxxVOLyy" || cmd.IncomingTemplate() != connectReply {
		t.Errorf("Unexpected templates: %q / %q", cmd.OutgoingTemplate(), cmd.IncomingTemplate())
	}
	if cmd.Answered() || !cmd.SentAt().IsZero() || cmd.CreatedAt().IsZero() {
		t.Error("A new command should be created but neither sent nor answered")
	}

	sent := time.Now()
	cmd.MarkSent(sent)
	if !cmd.SentAt().Equal(sent) {
		t.Error("MarkSent should record the send time")
	}

	other, _ := c.NewCommand(SetVolume, v)
	if other.ID() == cmd.ID() {
		t.Error("Commands should get distinct ids")
	}

	if _, err := c.NewCommand(SetVolume, NewFields()); err == nil {
		t.Error("Expected error for command without fields")
	}
}

// ============================================================
// Decode Tests
// ============================================================

func TestDecode_Replies(t *testing.T) {
	c, _ := newTestCodec(t)

	tests := []struct {
		name  string
		raw   string
		kind  CommandKind
		check func(v Fields) bool
	}{
		{
			name: "connect status power on",
			raw:  "Z02PWRON,SRC3,GRP0,VOL-20",
			kind: ReadStatusConnect,
			check: func(v Fields) bool {
				return v.Zone == 2 && v.Power == PowerOn && v.Source == 3 &&
					v.SourceGroup == SourceGroupOff && v.Volume == -20
			},
		},
		{
			name: "connect status power off",
			raw:  "Z11PWROFF,SRC6,GRP1,VOL-79",
			kind: ReadStatusConnect,
			check: func(v Fields) bool {
				return v.Zone == 11 && v.Power == PowerOff && v.Source == 6 &&
					v.SourceGroup == SourceGroupOn && v.Volume == -79
			},
		},
		{
			name: "zone settings",
			raw:  "Z01OR0,BASS+05,TREB-03,GRP1,VRST0",
			kind: ReadStatusZone,
			check: func(v Fields) bool {
				return v.Zone == 1 && v.DIPSwitchOverride == DIPSwitchOverrideOff &&
					v.Bass == 5 && v.Treble == -3 && v.SourceGroup == SourceGroupOn &&
					v.VolumeReset == VolumeResetOff
			},
		},
		{
			name:  "firmware",
			raw:   "NUVO_E6D_v1.23",
			kind:  ReadVersion,
			check: func(v Fields) bool { return v.FirmwareVersion == "v1.23" },
		},
		{
			name: "ir status",
			raw:  "IRSET:38,56,38,38,38,56",
			kind: ReadStatusSourceIR,
			check: func(v Fields) bool {
				return v.IRCarrier == [IRSourceSlots]IRCarrierFrequency{
					IR38kHz, IR56kHz, IR38kHz, IR38kHz, IR38kHz, IR56kHz,
				}
			},
		},
		{
			name:  "keypad lock",
			raw:   "Z04LOCKOFF",
			kind:  SetKeypadLockOff,
			check: func(v Fields) bool { return v.Zone == 4 },
		},
		{
			name:  "all zones off",
			raw:   "ALLOFF",
			kind:  TurnAllZoneOff,
			check: func(v Fields) bool { return v == NewFields() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := c.Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if cmd.Kind() != tt.kind {
				t.Fatalf("Expected %s, got %s", tt.kind, cmd.Kind())
			}
			if cmd.MatchedDirection() != DirectionIncoming {
				t.Errorf("Expected incoming match, got %s", cmd.MatchedDirection())
			}
			if cmd.Incoming() != tt.raw || !cmd.Answered() {
				t.Errorf("Reply should be recorded, got %q", cmd.Incoming())
			}
			if !tt.check(cmd.Fields()) {
				t.Errorf("Unexpected fields: %+v", cmd.Fields())
			}
		})
	}
}

func TestDecode_OutgoingEcho(t *testing.T) {
	c, _ := newTestCodec(t)

	cmd, err := c.Decode("Z05VOL30")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.Kind() != SetVolume || cmd.MatchedDirection() != DirectionOutgoing {
		t.Fatalf("Expected outgoing SetVolume, got %s (%s)", cmd.Kind(), cmd.MatchedDirection())
	}
	if cmd.Outgoing() != "Z05VOL30" || cmd.Incoming() != "" || cmd.Answered() {
		t.Error("An echo should be recorded as the outgoing telegram")
	}
	if v := cmd.Fields(); v.Zone != 5 || v.Volume != -30 {
		t.Errorf("Unexpected fields: %+v", v)
	}
}

func TestDecode_Unrecognized(t *testing.T) {
	c, rec := newTestCodec(t)

	for _, raw := range []string{"HELLO", "", "Z01VOL3", "Z02PWRON,SRC3,GRP0,VOL-2"} {
		t.Run(raw, func(t *testing.T) {
			cmd, err := c.Decode(raw)
			if err != nil {
				t.Fatalf("Unrecognized telegrams should not error: %v", err)
			}
			if cmd == nil || cmd.Valid() || cmd.Kind() != NoCommand {
				t.Fatalf("Expected NoCommand instance, got %+v", cmd)
			}
			if cmd.Incoming() != raw {
				t.Errorf("Raw telegram should be kept, got %q", cmd.Incoming())
			}
		})
	}

	if n := rec.count(EventNoCatalogMatch); n != 4 {
		t.Errorf("Expected 4 no-match events, got %d", n)
	}
}

func TestDecode_Notifications(t *testing.T) {
	c, rec := newTestCodec(t)

	tests := []struct {
		raw   string
		kind  CommandKind
		event EventType
	}{
		{"?", ErrorInCommand, EventDeviceError},
		{"EXTMON", ExternalMuteActivated, EventExternalMute},
		{"EXTMOFF", ExternalMuteDeactivated, EventExternalMute},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec.events = nil
			cmd, err := c.Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if cmd.Kind() != tt.kind {
				t.Errorf("Expected %s, got %s", tt.kind, cmd.Kind())
			}
			if rec.count(tt.event) != 1 {
				t.Errorf("Expected one %s event, got %+v", tt.event, rec.events)
			}
		})
	}
}

func TestDecode_FieldFailureKeepsKind(t *testing.T) {
	c, rec := newTestCodec(t)

	cmd, err := c.Decode("Z02PWROFF,SRCX,GRP0,VOL-20")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.Kind() != ReadStatusConnect {
		t.Fatalf("Expected ReadStatusConnect, got %s", cmd.Kind())
	}
	v := cmd.Fields()
	if v.Set(FieldSource) {
		t.Error("Source should be unset after a parse failure")
	}
	if v.Zone != 2 || v.Volume != -20 {
		t.Errorf("Other fields should still decode: %+v", v)
	}
	if rec.count(EventFieldParseFailure) != 1 {
		t.Errorf("Expected one parse failure event, got %+v", rec.events)
	}
}

func TestDecode_Compound(t *testing.T) {
	c, rec := newCodecWith(t, Entry{SetZoneStatus, "ZxxSET", ""})

	cmd, err := c.Decode("Z01SET")
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("Expected ErrUnsupportedKind, got %v", err)
	}
	if cmd == nil || cmd.Kind() != SetZoneStatus {
		t.Fatalf("Expected SetZoneStatus instance, got %+v", cmd)
	}
	if cmd.Fields().Set(FieldZone) {
		t.Error("Compound commands should not decode fields")
	}
	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %+v", rec.events)
	}
}

func TestDecode_CatalogOrderWins(t *testing.T) {
	first, _ := newCodecWith(t, Entry{TurnZoneOn, "ZxxON", ""}, Entry{MuteOn, "ZxxON", ""})
	second, _ := newCodecWith(t, Entry{MuteOn, "ZxxON", ""}, Entry{TurnZoneOn, "ZxxON", ""})

	for i := 0; i < 10; i++ {
		a, _ := first.Decode("Z01ON")
		b, _ := second.Decode("Z01ON")
		if a.Kind() != TurnZoneOn || b.Kind() != MuteOn {
			t.Fatalf("First entry should win, got %s and %s", a.Kind(), b.Kind())
		}
	}
}

func TestDecode_IncomingBeforeOutgoing(t *testing.T) {
	c, _ := newCodecWith(t,
		Entry{TurnZoneOn, "ZxxON", ""},
		Entry{TurnZoneOff, "", "ZxxON"},
	)

	cmd, _ := c.Decode("Z03ON")
	if cmd.Kind() != TurnZoneOff || cmd.MatchedDirection() != DirectionIncoming {
		t.Errorf("Incoming templates should be scanned first, got %s (%s)", cmd.Kind(), cmd.MatchedDirection())
	}
}

// A bare power template is only reachable field by field. Through the codec,
// no kind encodes power and the short form is recognized only as PWRON.
func TestCodec_BarePowerTemplate(t *testing.T) {
	c, _ := newCodecWith(t, Entry{TurnZoneOn, "Zxxppp", "Zxxppp"})

	v := NewFields()
	v.Zone = 1
	v.Power = PowerOn
	if _, err := c.Encode(TurnZoneOn, v); !errors.Is(err, ErrEncodingIncomplete) {
		t.Errorf("Expected ErrEncodingIncomplete, got %v", err)
	}

	cmd, err := c.Decode("Z01ON")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.Valid() || cmd.Kind() != NoCommand {
		t.Errorf("Z01ON should not match Zxxppp, got %s", cmd.Kind())
	}

	cmd, err = c.Decode("Z01OFF")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.Kind() != TurnZoneOn {
		t.Fatalf("Expected TurnZoneOn, got %s", cmd.Kind())
	}
	if got := cmd.Fields(); got.Zone != 1 || got.Power != PowerOff {
		t.Errorf("Expected zone 1 OFF, got zone %d power %s", got.Zone, FormatPower(got.Power))
	}
}

func TestCodec_CustomFraming(t *testing.T) {
	c, _ := newCodecWith(t, Entry{SetVolume, "#xx?yy", ""})

	v := NewFields()
	v.Zone = 4
	v.Volume = -7
	telegram, err := c.Encode(SetVolume, v)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if telegram != "#04?07" {
		t.Fatalf("Expected #04?07, got %q", telegram)
	}

	cmd, err := c.Decode(telegram)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := cmd.Fields(); cmd.Kind() != SetVolume || got.Zone != 4 || got.Volume != -7 {
		t.Errorf("Unexpected decode: %s %+v", cmd.Kind(), got)
	}
}

// TestCodec_RoundTrip encodes every sendable kind and decodes the telegram back
func TestCodec_RoundTrip(t *testing.T) {
	c, rec := newTestCodec(t)
	v := fullFields()

	for _, e := range essentiaEntries() {
		layout, ok := encodeLayout[e.Kind]
		if !ok {
			continue
		}
		t.Run(e.Kind.String(), func(t *testing.T) {
			sent, err := c.NewCommand(e.Kind, v)
			if err != nil {
				t.Fatalf("NewCommand failed: %v", err)
			}
			got, err := c.Decode(sent.Outgoing())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Kind() != e.Kind {
				t.Fatalf("%q decoded as %s", sent.Outgoing(), got.Kind())
			}
			want, decoded := sent.Fields(), got.Fields()
			for _, f := range layout {
				if want.Set(f) != decoded.Set(f) {
					t.Errorf("%s: set mismatch", f)
				}
			}
			if decoded.Zone != want.Zone || decoded.Source != want.Source ||
				decoded.Volume != want.Volume || decoded.Bass != want.Bass ||
				decoded.Treble != want.Treble {
				t.Errorf("Fields mismatch: sent %+v, decoded %+v", want, decoded)
			}
		})
	}

	if len(rec.events) != 0 {
		t.Errorf("Round trips should be silent, got %+v", rec.events)
	}
}

// ============================================================
// Receive Tests
// ============================================================

func TestReceive(t *testing.T) {
	c, rec := newTestCodec(t)

	cmd, err := NewReadStatusConnect(c, 2)
	if err != nil {
		t.Fatalf("NewReadStatusConnect failed: %v", err)
	}
	if cmd.Outgoing() != "Z02CONSR" {
		t.Fatalf("Expected Z02CONSR, got %q", cmd.Outgoing())
	}

	if err := c.Receive(cmd, "Z02PWROFF,SRC1,GRP1,VOL-79"); err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if !cmd.Answered() || cmd.Incoming() != "Z02PWROFF,SRC1,GRP1,VOL-79" {
		t.Error("Reply should be bound")
	}
	v := cmd.Fields()
	if v.Zone != 2 || v.Power != PowerOff || v.Source != 1 || v.SourceGroup != SourceGroupOn || v.Volume != -79 {
		t.Errorf("Unexpected fields: %+v", v)
	}
	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %+v", rec.events)
	}
}

func TestReceive_UsesCommandKind(t *testing.T) {
	c, _ := newTestCodec(t)

	// the reply also fits ReadStatusConnect, which sits first in the catalog
	cmd, _ := NewTurnZone(c, 3, true)
	if err := c.Receive(cmd, "Z03PWRON,SRC2,GRP0,VOL-10"); err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if cmd.Kind() != TurnZoneOn {
		t.Errorf("Receive should not re-match the kind, got %s", cmd.Kind())
	}
	if v := cmd.Fields(); v.Power != PowerOn || v.Source != 2 {
		t.Errorf("Unexpected fields: %+v", v)
	}
}

func TestReceive_TemplateMismatch(t *testing.T) {
	c, rec := newTestCodec(t)

	cmd, _ := NewReadStatusConnect(c, 2)
	if err := c.Receive(cmd, "Z02BOGUS"); err != nil {
		t.Fatalf("A mismatched reply should still bind: %v", err)
	}
	if rec.count(EventTemplateMismatch) != 1 {
		t.Errorf("Expected a template mismatch event, got %+v", rec.events)
	}
	if rec.count(EventFieldParseFailure) == 0 {
		t.Error("Expected field parse failures for the mismatched reply")
	}
	if !cmd.Answered() {
		t.Error("Reply should be recorded")
	}
}

func TestReceive_Errors(t *testing.T) {
	c, _ := newCodecWith(t, Entry{ReadVersion, "VER", ""}, Entry{SetZoneStatus, "ZxxSET", "ZxxSET"})

	if err := c.Receive(nil, "X"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind for nil command, got %v", err)
	}

	unrecognized, _ := c.Decode("JUNK")
	if err := c.Receive(unrecognized, "X"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind for NoCommand, got %v", err)
	}

	version, _ := NewReadVersion(c)
	if err := c.Receive(version, "NUVO_E6D_v1.00"); !errors.Is(err, ErrNoIncomingTemplate) {
		t.Errorf("Expected ErrNoIncomingTemplate, got %v", err)
	}

	compound, _ := c.Decode("Z01SET")
	if err := c.Receive(compound, "Z01SET"); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Expected ErrUnsupportedKind, got %v", err)
	}
}

// ============================================================
// Builder Tests
// ============================================================

func TestBuilders(t *testing.T) {
	c, _ := newTestCodec(t)

	build := func(cmd *Command, err error) string {
		t.Helper()
		if err != nil {
			t.Fatalf("Builder failed: %v", err)
		}
		return cmd.Outgoing()
	}

	tests := []struct {
		got  string
		want string
	}{
		{build(NewReadVersion(c)), "VER"},
		{build(NewReadStatusZone(c, 6)), "Z06SETSR"},
		{build(NewTurnZone(c, 3, false)), "Z03OFF"},
		{build(NewMute(c, 3, true)), "Z03MTON"},
		{build(NewMute(c, 3, false)), "Z03MTOFF"},
		{build(NewSetSource(c, 10, 2)), "Z10SRC2"},
		{build(NewSetVolume(c, 1, -25)), "Z01VOL25"},
		{build(NewSetBassLevel(c, 4, -12)), "Z04BASS-12"},
		{build(NewSetTrebleLevel(c, 4, 12)), "Z04TREB+12"},
		{build(NewSetSourceIR(c, 2, IR56kHz)), "ISRC2HI"},
		{build(NewTurnAllZoneOff(c)), "ALLOFF"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, tt.got)
		}
	}

	if _, err := NewSetSourceIR(c, 2, IRUnknown); !errors.Is(err, ErrFieldUnset) {
		t.Errorf("Expected ErrFieldUnset, got %v", err)
	}
}

// ============================================================
// Reporter Tests
// ============================================================

func TestMultiReporter(t *testing.T) {
	a, b := &eventRecorder{}, &eventRecorder{}
	r := MultiReporter(a, nil, b)
	r.Report(Event{Type: EventDeviceError})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("Both reporters should receive the event")
	}
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(zerolog.New(&buf))

	r.Report(Event{
		Type:     EventFieldParseFailure,
		Kind:     SetVolume,
		Field:    FieldVolume,
		Raw:      "Z01VOLXX",
		Template: "ZxxVOLyy",
		Err:      ErrFieldParse,
	})

	out := buf.String()
	for _, want := range []string{
		`"level":"error"`,
		`"component":"essentia"`,
		`"event":"field_parse_failure"`,
		`"kind":"SetVolume"`,
		`"field":"volume"`,
		`"raw":"Z01VOLXX"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Log output missing %s: %s", want, out)
		}
	}

	buf.Reset()
	r.Report(Event{Type: EventNoCatalogMatch, Raw: "JUNK"})
	if !strings.Contains(buf.String(), `"level":"debug"`) || strings.Contains(buf.String(), `"kind"`) {
		t.Errorf("Unexpected no-match log line: %s", buf.String())
	}
}
