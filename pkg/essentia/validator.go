// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"strings"
)

// AnomalyType represents different types of command anomalies
type AnomalyType int

const (
	AnomalyUnrecognized AnomalyType = iota
	AnomalyUnsupported
	AnomalyMissingField
	AnomalyInvalidValue
	AnomalyDeviceError
	AnomalyExternalMute
)

// String returns the anomaly name
func (a AnomalyType) String() string {
	switch a {
	case AnomalyUnrecognized:
		return "unrecognized"
	case AnomalyUnsupported:
		return "unsupported"
	case AnomalyMissingField:
		return "missing_field"
	case AnomalyInvalidValue:
		return "invalid_value"
	case AnomalyDeviceError:
		return "device_error"
	case AnomalyExternalMute:
		return "external_mute"
	}
	return "unknown"
}

// ValidationError represents a command validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateCommand checks a command for anomalies
// Returns a slice of validation errors (empty if the command is clean)
func ValidateCommand(cmd *Command) []ValidationError {
	errors := []ValidationError{}

	if !cmd.Valid() {
		return append(errors, ValidationError{
			Type:    AnomalyUnrecognized,
			Message: fmt.Sprintf("Unrecognized telegram %q", cmd.Incoming()),
			Details: map[string]interface{}{"raw": cmd.Incoming()},
		})
	}

	switch cmd.Kind() {
	case SetZoneStatus, GetZoneStatus:
		return append(errors, ValidationError{
			Type:    AnomalyUnsupported,
			Message: fmt.Sprintf("Compound command %s is not decoded", cmd.Kind()),
			Details: map[string]interface{}{"kind": cmd.Kind().String()},
		})
	case ErrorInCommand:
		errors = append(errors, ValidationError{
			Type:    AnomalyDeviceError,
			Message: "Device rejected the previous command",
			Details: map[string]interface{}{"raw": cmd.Incoming()},
		})
	case ExternalMuteActivated:
		errors = append(errors, ValidationError{
			Type:    AnomalyExternalMute,
			Message: "External mute activated",
			Details: map[string]interface{}{},
		})
	}

	errors = append(errors, validateReplyFields(cmd)...)
	errors = append(errors, validateFieldRanges(cmd.Fields())...)
	return errors
}

// validateReplyFields flags fields the reply template holds that did not decode
func validateReplyFields(cmd *Command) []ValidationError {
	errors := []ValidationError{}

	template, raw := cmd.IncomingTemplate(), cmd.Incoming()
	fields := replyFields(cmd.Kind())
	if cmd.MatchedDirection() == DirectionOutgoing {
		template, raw, fields = cmd.OutgoingTemplate(), cmd.Outgoing(), allFields
	}
	if raw == "" {
		return errors
	}

	v := cmd.Fields()
	for _, f := range fields {
		if !strings.Contains(template, f.Token()) || v.Set(f) {
			continue
		}
		errors = append(errors, ValidationError{
			Type:    AnomalyMissingField,
			Message: fmt.Sprintf("%s: %s did not decode from %q", cmd.Kind(), f, raw),
			Details: map[string]interface{}{"field": f.String(), "raw": raw, "template": template},
		})
	}
	return errors
}

// validateFieldRanges checks set fields against the device limits
func validateFieldRanges(v Fields) []ValidationError {
	errors := []ValidationError{}

	if v.Set(FieldZone) && !v.Zone.Valid() {
		errors = append(errors, invalidValue(FieldZone, int(v.Zone), 1, MaxZone))
	}
	if v.Set(FieldSource) && !v.Source.Valid() {
		errors = append(errors, invalidValue(FieldSource, int(v.Source), 1, MaxSource))
	}
	if v.Set(FieldVolume) && (v.Volume < MinVolume || v.Volume > MaxVolume) {
		errors = append(errors, invalidValue(FieldVolume, v.Volume, MinVolume, MaxVolume))
	}
	if v.Set(FieldBass) && (v.Bass < MinLevel || v.Bass > MaxLevel) {
		errors = append(errors, invalidValue(FieldBass, v.Bass, MinLevel, MaxLevel))
	}
	if v.Set(FieldTreble) && (v.Treble < MinLevel || v.Treble > MaxLevel) {
		errors = append(errors, invalidValue(FieldTreble, v.Treble, MinLevel, MaxLevel))
	}
	return errors
}

func invalidValue(f Field, value, min, max int) ValidationError {
	return ValidationError{
		Type:    AnomalyInvalidValue,
		Message: fmt.Sprintf("Invalid %s=%d (valid %d..%d)", f, value, min, max),
		Details: map[string]interface{}{"field": f.String(), "value": value, "min": min, "max": max},
	}
}
