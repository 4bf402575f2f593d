// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"github.com/rs/zerolog"
)

// EventType classifies a diagnostic raised while encoding or decoding
type EventType int

const (
	EventReplaceRejected EventType = iota
	EventFieldParseFailure
	EventNoCatalogMatch
	EventTemplateMismatch
	EventExternalMute
	EventDeviceError
)

// String returns the event type name
func (t EventType) String() string {
	switch t {
	case EventReplaceRejected:
		return "replace_rejected"
	case EventFieldParseFailure:
		return "field_parse_failure"
	case EventNoCatalogMatch:
		return "no_catalog_match"
	case EventTemplateMismatch:
		return "template_mismatch"
	case EventExternalMute:
		return "external_mute"
	case EventDeviceError:
		return "device_error"
	}
	return "unknown"
}

// Event is a recoverable diagnostic. The codec keeps going after reporting one.
type Event struct {
	Type     EventType
	Kind     CommandKind
	Field    Field
	Raw      string
	Template string
	Err      error
}

// Reporter receives codec diagnostics
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(Event)

// Report calls f(e)
func (f ReporterFunc) Report(e Event) {
	f(e)
}

// NopReporter discards every event
var NopReporter Reporter = ReporterFunc(func(Event) {})

// MultiReporter fans events out to several reporters in order
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(e Event) {
		for _, r := range reporters {
			if r != nil {
				r.Report(e)
			}
		}
	})
}

type logReporter struct {
	log zerolog.Logger
}

// NewLogReporter writes events to a zerolog logger. Device errors and
// rejected substitutions log at warn, parse failures at error, the rest at
// debug.
func NewLogReporter(log zerolog.Logger) Reporter {
	return &logReporter{log: log.With().Str("component", "essentia").Logger()}
}

func (r *logReporter) Report(e Event) {
	var ev *zerolog.Event
	switch e.Type {
	case EventFieldParseFailure:
		ev = r.log.Error()
	case EventReplaceRejected, EventDeviceError, EventTemplateMismatch:
		ev = r.log.Warn()
	default:
		ev = r.log.Debug()
	}

	ev = ev.Str("event", e.Type.String())
	if e.Kind != NoCommand {
		ev = ev.Stringer("kind", e.Kind)
	}
	if e.Type == EventReplaceRejected || e.Type == EventFieldParseFailure {
		ev = ev.Stringer("field", e.Field)
	}
	if e.Raw != "" {
		ev = ev.Str("raw", e.Raw)
	}
	if e.Template != "" {
		ev = ev.Str("template", e.Template)
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Msg("codec event")
}
