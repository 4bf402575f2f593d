// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"sort"
	"time"
)

// Statistics tracks telegram statistics and error rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalTelegrams uint64
	Recognized     uint64
	Clean          uint64
	Unrecognized   uint64
	FramingErrors  uint64
	MissingFields  uint64
	InvalidValues  uint64
	DeviceErrors   uint64
	ExternalMutes  uint64
	Unsupported    uint64
	PerKind        map[CommandKind]uint64

	// Rates (calculated)
	TelegramRate float64 // telegrams/sec
	ErrorRate    float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		PerKind:        make(map[CommandKind]uint64),
	}
}

// Update updates statistics based on a decoded command and its anomalies.
// Pass a nil command with a framing error for bytes that never formed a telegram.
func (s *Statistics) Update(cmd *Command, framingErr error, validationErrors []ValidationError) {
	s.TotalTelegrams++
	s.LastUpdateTime = time.Now()

	if framingErr != nil {
		s.FramingErrors++
		return
	}
	if cmd == nil {
		return
	}

	if cmd.Valid() {
		s.Recognized++
		s.PerKind[cmd.Kind()]++
	}

	if len(validationErrors) == 0 {
		s.Clean++
		return
	}

	for _, err := range validationErrors {
		switch err.Type {
		case AnomalyUnrecognized:
			s.Unrecognized++
		case AnomalyUnsupported:
			s.Unsupported++
		case AnomalyMissingField:
			s.MissingFields++
		case AnomalyInvalidValue:
			s.InvalidValues++
		case AnomalyDeviceError:
			s.DeviceErrors++
		case AnomalyExternalMute:
			s.ExternalMutes++
		}
	}
}

// Errors returns the number of telegrams counted as errors
func (s *Statistics) Errors() uint64 {
	return s.FramingErrors + s.Unrecognized + s.MissingFields + s.InvalidValues + s.DeviceErrors + s.Unsupported
}

// CalculateRates calculates telegram and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.TelegramRate = float64(s.TotalTelegrams) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	percent := func(n uint64) float64 {
		if s.TotalTelegrams == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalTelegrams)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Telegrams: %8d\n", s.TotalTelegrams)
	result += fmt.Sprintf("Recognized:      %8d (%.1f%%)\n", s.Recognized, percent(s.Recognized))
	result += fmt.Sprintf("Clean:           %8d (%.1f%%)\n", s.Clean, percent(s.Clean))

	if s.Unrecognized > 0 {
		result += fmt.Sprintf("Unrecognized:    %8d (%.1f%%)\n", s.Unrecognized, percent(s.Unrecognized))
	}
	if s.FramingErrors > 0 {
		result += fmt.Sprintf("Framing Errors:  %8d (%.1f%%)\n", s.FramingErrors, percent(s.FramingErrors))
	}
	if s.MissingFields > 0 {
		result += fmt.Sprintf("Missing Fields:  %8d\n", s.MissingFields)
	}
	if s.InvalidValues > 0 {
		result += fmt.Sprintf("Invalid Values:  %8d\n", s.InvalidValues)
	}
	if s.DeviceErrors > 0 {
		result += fmt.Sprintf("Device Errors:   %8d\n", s.DeviceErrors)
	}
	if s.ExternalMutes > 0 {
		result += fmt.Sprintf("External Mutes:  %8d\n", s.ExternalMutes)
	}
	if s.Unsupported > 0 {
		result += fmt.Sprintf("Unsupported:     %8d\n", s.Unsupported)
	}

	if len(s.PerKind) > 0 {
		kinds := make([]CommandKind, 0, len(s.PerKind))
		for k := range s.PerKind {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		result += "By kind:\n"
		for _, k := range kinds {
			result += fmt.Sprintf("  %-24s %6d\n", k, s.PerKind[k])
		}
	}

	result += fmt.Sprintf("Telegram Rate:   %8.1f telegrams/sec\n", s.TelegramRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
