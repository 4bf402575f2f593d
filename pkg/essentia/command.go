// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"time"

	"github.com/google/uuid"
)

// Direction tells which template of an entry a telegram matched
type Direction int

const (
	DirectionNone Direction = iota
	DirectionIncoming
	DirectionOutgoing
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	}
	return "none"
}

// Command is one encoded or decoded command instance. It is immutable once
// built except for the sent timestamp and a late reply bound by Codec.Receive.
type Command struct {
	id     uuid.UUID
	kind   CommandKind
	fields Fields

	createdAt  time.Time
	sentAt     time.Time
	receivedAt time.Time

	outgoing         string
	incoming         string
	outgoingTemplate string
	incomingTemplate string
	matched          Direction
}

func newCommand(kind CommandKind, entry Entry) *Command {
	return &Command{
		id:               uuid.New(),
		kind:             kind,
		fields:           NewFields(),
		createdAt:        time.Now(),
		outgoingTemplate: entry.Outgoing,
		incomingTemplate: entry.Incoming,
	}
}

// ID returns the unique command id
func (c *Command) ID() uuid.UUID {
	return c.id
}

// Kind returns the command kind, NoCommand for unrecognized telegrams
func (c *Command) Kind() CommandKind {
	return c.kind
}

// Valid reports whether the command kind is known
func (c *Command) Valid() bool {
	return c.kind != NoCommand
}

// Fields returns a copy of the command fields
func (c *Command) Fields() Fields {
	return c.fields
}

// CreatedAt returns the construction time
func (c *Command) CreatedAt() time.Time {
	return c.createdAt
}

// SentAt returns when the telegram was handed to the transport, zero if never
func (c *Command) SentAt() time.Time {
	return c.sentAt
}

// ReceivedAt returns when the incoming telegram was parsed, zero if never
func (c *Command) ReceivedAt() time.Time {
	return c.receivedAt
}

// Outgoing returns the outgoing telegram
func (c *Command) Outgoing() string {
	return c.outgoing
}

// Incoming returns the incoming telegram
func (c *Command) Incoming() string {
	return c.incoming
}

// OutgoingTemplate returns the outgoing template of the command kind
func (c *Command) OutgoingTemplate() string {
	return c.outgoingTemplate
}

// IncomingTemplate returns the incoming template of the command kind
func (c *Command) IncomingTemplate() string {
	return c.incomingTemplate
}

// MatchedDirection returns which template a decoded telegram matched
func (c *Command) MatchedDirection() Direction {
	return c.matched
}

// Answered reports whether a reply has been bound to the command
func (c *Command) Answered() bool {
	return !c.receivedAt.IsZero()
}

// MarkSent records the time the outgoing telegram was handed to the transport
func (c *Command) MarkSent(t time.Time) {
	c.sentAt = t
}
