// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"strings"
)

// The ON power status is one character narrower than its placeholder. It is
// the only width asymmetry the comparator tolerates.
const (
	powerOnMarker     = "PWRON"
	powerOnNormalized = "PWRXON"
)

// Matches reports whether raw could be an instance of template. Lengths must
// agree (or raw carries PWRON and is exactly one character shorter), and every
// character must match except where the template holds a placeholder.
func Matches(template, raw string) bool {
	if template == "" {
		return false
	}
	if len(template) != len(raw) {
		if !strings.Contains(raw, powerOnMarker) || len(template)-1 != len(raw) {
			return false
		}
	}

	raw = strings.Replace(raw, powerOnMarker, powerOnNormalized, -1)
	if len(raw) != len(template) {
		return false
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != template[i] && !isPlaceholderChar(template[i]) {
			return false
		}
	}
	return true
}

func isPlaceholderChar(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// unfilledPlaceholders returns the placeholder runs still present in s
func unfilledPlaceholders(s string) []string {
	var runs []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && isPlaceholderChar(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	return runs
}

// tokensByWidth lists placeholder tokens longest first for template scanning
var tokensByWidth = []string{
	"vz.zz",
	"ppp", "uuu", "ttt",
	"xx", "yy", "aa", "bb", "cc", "dd", "ee", "ff",
	"s", "q", "i", "r",
}

// ValidateTemplate checks that every lowercase character of template belongs
// to a known placeholder token
func ValidateTemplate(template string) error {
	for i := 0; i < len(template); {
		c := template[i]
		if c > 0x7E || (c < 0x20 && c != '\t') {
			return fmt.Errorf("%w: %q has non-printable byte 0x%02X at %d", ErrMalformedTemplate, template, c, i)
		}
		if !isPlaceholderChar(c) {
			i++
			continue
		}
		width := 0
		for _, token := range tokensByWidth {
			if strings.HasPrefix(template[i:], token) {
				width = len(token)
				break
			}
		}
		if width == 0 {
			return fmt.Errorf("%w: %q has stray placeholder character %q at %d", ErrMalformedTemplate, template, c, i)
		}
		i += width
	}
	return nil
}
