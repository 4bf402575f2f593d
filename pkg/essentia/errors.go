// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"errors"
	"fmt"
	"strings"
)

// Caller-visible failures
var (
	ErrEncodingIncomplete = errors.New("encoding incomplete")
	ErrUnsupportedKind    = errors.New("unsupported command kind")
	ErrNoOutgoingTemplate = errors.New("no outgoing template")
	ErrNoIncomingTemplate = errors.New("no incoming template")
	ErrUnknownKind        = errors.New("unknown command kind")
)

// Field substitution and extraction failures
var (
	ErrFieldUnset      = errors.New("field not set")
	ErrFieldRange      = errors.New("field out of range")
	ErrFieldParse      = errors.New("field parse failed")
	ErrDecodeOnlyField = errors.New("field is decode only")
)

// Catalog construction failures
var (
	ErrDuplicateKind     = errors.New("duplicate command kind")
	ErrMalformedTemplate = errors.New("malformed template")
)

// EncodeError is returned when placeholders remain in an encoded telegram
type EncodeError struct {
	Kind     CommandKind
	Telegram string
	Unfilled []string
}

// Error implements the error interface
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %v: %q still holds %s",
		e.Kind, ErrEncodingIncomplete, e.Telegram, strings.Join(e.Unfilled, ","))
}

// Unwrap lets errors.Is match ErrEncodingIncomplete
func (e *EncodeError) Unwrap() error {
	return ErrEncodingIncomplete
}
