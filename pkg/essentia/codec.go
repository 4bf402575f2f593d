// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Codec encodes commands into telegrams and decodes telegrams into commands
// using a template catalog. It holds no mutable state and is safe for
// concurrent use as long as the catalog is not modified.
type Codec struct {
	catalog  CatalogLookup
	reporter Reporter
}

// NewCodec creates a codec over catalog. A nil reporter discards events.
func NewCodec(catalog CatalogLookup, reporter Reporter) *Codec {
	if reporter == nil {
		reporter = NopReporter
	}
	return &Codec{catalog: catalog, reporter: reporter}
}

// Catalog returns the catalog the codec reads templates from
func (c *Codec) Catalog() CatalogLookup {
	return c.catalog
}

//////////////////////////////////////////////////////////////
// Encode
//////////////////////////////////////////////////////////////

// Encode renders the outgoing telegram for kind from v. Only the fields the
// kind carries are substituted. Any placeholder left unfilled fails the call
// with an *EncodeError.
func (c *Codec) Encode(kind CommandKind, v Fields) (string, error) {
	entry, layout, err := c.encodable(kind)
	if err != nil {
		return "", err
	}

	telegram := entry.Outgoing
	for _, f := range layout {
		out, err := EncodeField(telegram, f, v)
		if err != nil {
			c.reporter.Report(Event{
				Type:     EventReplaceRejected,
				Kind:     kind,
				Field:    f,
				Template: entry.Outgoing,
				Err:      err,
			})
			continue
		}
		telegram = out
	}

	if unfilled := unfilledPlaceholders(telegram); len(unfilled) > 0 {
		return "", &EncodeError{Kind: kind, Telegram: telegram, Unfilled: unfilled}
	}
	return telegram, nil
}

func (c *Codec) encodable(kind CommandKind) (Entry, []Field, error) {
	if !kind.Known() {
		return Entry{}, nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if kind.Compound() {
		return Entry{}, nil, fmt.Errorf("%w: %s is a compound command", ErrUnsupportedKind, kind)
	}
	entry, ok := c.catalog.Lookup(kind)
	if !ok {
		return Entry{}, nil, fmt.Errorf("%w: %s not in catalog", ErrUnknownKind, kind)
	}
	layout, ok := encodeLayout[kind]
	if !ok || entry.Outgoing == "" {
		return Entry{}, nil, fmt.Errorf("%w: %s is receive only", ErrNoOutgoingTemplate, kind)
	}
	return entry, layout, nil
}

// NewCommand encodes kind from v and returns the command ready to send.
// The command keeps only the fields the kind carries.
func (c *Codec) NewCommand(kind CommandKind, v Fields) (*Command, error) {
	telegram, err := c.Encode(kind, v)
	if err != nil {
		return nil, err
	}
	entry, _ := c.catalog.Lookup(kind)

	cmd := newCommand(kind, entry)
	for _, f := range encodeLayout[kind] {
		cmd.fields.copyField(v, f)
	}
	if cmd.fields.Volume != LevelUnset && cmd.fields.Volume > 0 {
		cmd.fields.Volume = -cmd.fields.Volume
	}
	cmd.outgoing = telegram
	return cmd, nil
}

//////////////////////////////////////////////////////////////
// Match
//////////////////////////////////////////////////////////////

// Match is the result of a catalog scan
type Match struct {
	Entry     Entry
	Direction Direction
}

// Match scans the catalog in order, first against incoming templates and then
// against outgoing templates. The first fitting template wins.
func (c *Codec) Match(raw string) (Match, bool) {
	entries := c.catalog.Entries()
	for _, e := range entries {
		if Matches(e.Incoming, raw) {
			return Match{Entry: e, Direction: DirectionIncoming}, true
		}
	}
	for _, e := range entries {
		if Matches(e.Outgoing, raw) {
			return Match{Entry: e, Direction: DirectionOutgoing}, true
		}
	}
	return Match{}, false
}

//////////////////////////////////////////////////////////////
// Decode
//////////////////////////////////////////////////////////////

// Decode matches raw against the catalog and extracts its fields. It always
// returns a command. An unrecognized telegram yields a NoCommand instance and
// a nil error. A compound kind yields the instance without fields and an
// error wrapping ErrUnsupportedKind.
func (c *Codec) Decode(raw string) (*Command, error) {
	m, ok := c.Match(raw)
	if !ok {
		cmd := &Command{
			id:        uuid.New(),
			kind:      NoCommand,
			fields:    NewFields(),
			createdAt: time.Now(),
			incoming:  raw,
		}
		cmd.receivedAt = cmd.createdAt
		c.reporter.Report(Event{Type: EventNoCatalogMatch, Raw: raw})
		return cmd, nil
	}

	kind := m.Entry.Kind
	cmd := newCommand(kind, m.Entry)
	cmd.matched = m.Direction

	switch m.Direction {
	case DirectionIncoming:
		cmd.incoming = raw
		cmd.receivedAt = cmd.createdAt
	case DirectionOutgoing:
		cmd.outgoing = raw
	}

	if kind.Compound() {
		return cmd, fmt.Errorf("%w: cannot decode compound command %s", ErrUnsupportedKind, kind)
	}

	if m.Direction == DirectionIncoming {
		c.extract(kind, m.Entry.Incoming, raw, replyFields(kind), &cmd.fields)
	} else {
		// echoes of sent telegrams carry whatever their template holds
		c.extract(kind, m.Entry.Outgoing, raw, allFields, &cmd.fields)
	}
	c.notify(cmd)
	return cmd, nil
}

// Receive binds a reply to a previously built command, decoding it with the
// incoming template of the command's own kind. The reply is not re-matched
// against the catalog; a reply that does not fit the template is reported
// and decoded anyway.
func (c *Codec) Receive(cmd *Command, raw string) error {
	if cmd == nil || !cmd.Valid() {
		return fmt.Errorf("%w: cannot bind reply to unrecognized command", ErrUnknownKind)
	}
	if cmd.kind.Compound() {
		return fmt.Errorf("%w: cannot decode compound command %s", ErrUnsupportedKind, cmd.kind)
	}
	if cmd.incomingTemplate == "" {
		return fmt.Errorf("%w: %s", ErrNoIncomingTemplate, cmd.kind)
	}

	if !Matches(cmd.incomingTemplate, raw) {
		c.reporter.Report(Event{
			Type:     EventTemplateMismatch,
			Kind:     cmd.kind,
			Raw:      raw,
			Template: cmd.incomingTemplate,
		})
	}

	cmd.incoming = raw
	cmd.receivedAt = time.Now()
	c.extract(cmd.kind, cmd.incomingTemplate, raw, replyFields(cmd.kind), &cmd.fields)
	c.notify(cmd)
	return nil
}

func replyFields(kind CommandKind) []Field {
	if fields, ok := decodeLayout[kind]; ok {
		return fields
	}
	return allFields
}

// extract decodes fields in order, reporting and skipping the ones that fail
func (c *Codec) extract(kind CommandKind, template, raw string, fields []Field, v *Fields) {
	for _, f := range fields {
		if err := DecodeField(template, raw, f, v); err != nil {
			c.reporter.Report(Event{
				Type:     EventFieldParseFailure,
				Kind:     kind,
				Field:    f,
				Raw:      raw,
				Template: template,
				Err:      err,
			})
		}
	}
}

// notify reports device-originated conditions carried by the kind itself
func (c *Codec) notify(cmd *Command) {
	switch cmd.kind {
	case ExternalMuteActivated, ExternalMuteDeactivated:
		c.reporter.Report(Event{Type: EventExternalMute, Kind: cmd.kind, Raw: cmd.incoming})
	case ErrorInCommand:
		c.reporter.Report(Event{Type: EventDeviceError, Kind: cmd.kind, Raw: cmd.incoming})
	}
}
