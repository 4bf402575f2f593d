// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"fmt"
	"time"
)

// EncodeTelegram frames an outgoing telegram for the wire: "*" + telegram + CR
func EncodeTelegram(telegram string) []byte {
	out := make([]byte, 0, len(telegram)+2)
	out = append(out, OutgoingStart)
	out = append(out, telegram...)
	out = append(out, CarriageRet)
	return out
}

// Frame is one telegram cut out of the byte stream
type Frame struct {
	Telegram  string
	Start     byte // '*' for outgoing echoes, '#' for device replies
	Timestamp time.Time
}

// Outgoing reports whether the frame was written by a controller
func (f Frame) Outgoing() bool {
	return f.Start == OutgoingStart
}

// Framer states
const (
	frameIdle = iota
	frameBody
)

// Framer cuts telegrams out of a byte stream. A telegram starts with '*' or
// '#' and ends at CR; a trailing LF is ignored.
type Framer struct {
	state     int
	start     byte
	buffer    []byte
	rawBuffer []byte
}

// NewFramer creates a new telegram framer
func NewFramer() *Framer {
	return &Framer{
		state:     frameIdle,
		buffer:    make([]byte, 0, MaxTelegramSize),
		rawBuffer: make([]byte, 0, MaxTelegramSize+2),
	}
}

// Reset drops any partial telegram
func (f *Framer) Reset() {
	f.state = frameIdle
	f.start = 0
	f.buffer = f.buffer[:0]
	f.rawBuffer = f.rawBuffer[:0]
}

// RawBytes returns the bytes accumulated since the last telegram
func (f *Framer) RawBytes() []byte {
	return f.rawBuffer
}

// DecodeByte feeds one byte to the framer.
// Returns a frame once a telegram is complete, nil while incomplete.
// Returns an error for bytes that cannot belong to a telegram.
func (f *Framer) DecodeByte(b byte) (*Frame, error) {
	f.rawBuffer = append(f.rawBuffer, b)

	if b == OutgoingStart || b == IncomingStart {
		var err error
		if f.state == frameBody {
			err = fmt.Errorf("telegram %q interrupted by start byte %q", f.buffer, b)
		}
		f.Reset()
		f.rawBuffer = append(f.rawBuffer, b)
		f.start = b
		f.state = frameBody
		return nil, err
	}

	switch f.state {
	case frameIdle:
		if b == CarriageRet || b == LineFeed {
			f.rawBuffer = f.rawBuffer[:0]
			return nil, nil
		}
		f.Reset()
		return nil, fmt.Errorf("unframed byte 0x%02X", b)

	case frameBody:
		if b == CarriageRet || b == LineFeed {
			frame := &Frame{
				Telegram:  string(f.buffer),
				Start:     f.start,
				Timestamp: time.Now(),
			}
			f.Reset()
			return frame, nil
		}
		if len(f.buffer) >= MaxTelegramSize {
			f.Reset()
			return nil, fmt.Errorf("telegram overflow: exceeds %d bytes", MaxTelegramSize)
		}
		f.buffer = append(f.buffer, b)
		return nil, nil

	default:
		f.Reset()
		return nil, fmt.Errorf("invalid framer state: %d", f.state)
	}
}
