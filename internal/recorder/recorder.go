// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package recorder captures framed telegrams to a CBOR stream and replays them.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

// Record is one captured telegram
type Record struct {
	Timestamp int64  `cbor:"1,keyasint"` // unix nanoseconds
	Start     byte   `cbor:"2,keyasint"`
	Telegram  string `cbor:"3,keyasint"`
}

// FromFrame converts a framed telegram to a record
func FromFrame(f essentia.Frame) Record {
	return Record{
		Timestamp: f.Timestamp.UnixNano(),
		Start:     f.Start,
		Telegram:  f.Telegram,
	}
}

// Frame converts the record back to a frame
func (r Record) Frame() essentia.Frame {
	return essentia.Frame{
		Telegram:  r.Telegram,
		Start:     r.Start,
		Timestamp: time.Unix(0, r.Timestamp),
	}
}

// Recorder appends records to Dest. Safe for concurrent use.
type Recorder struct {
	Dest io.Writer

	mu   sync.Mutex
	enc  *cbor.Encoder
	once sync.Once
}

// Record writes one frame
func (r *Recorder) Record(f essentia.Frame) error {
	r.once.Do(func() {
		r.enc = cbor.NewEncoder(r.Dest)
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(FromFrame(f))
}

// ReadIn decodes records from r into out until EOF, then closes out
func ReadIn(ctx context.Context, out chan<- Record, r io.Reader) error {
	defer close(out)

	dec := cbor.NewDecoder(r)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("while decoding: %w", err)
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Replay reads a recording and hands each frame to handle in order.
// A handler error stops the replay.
func Replay(ctx context.Context, r io.Reader, handle func(essentia.Frame) error) error {
	records := make(chan Record, 100)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ReadIn(ctx, records, r) })
	g.Go(func() error {
		for rec := range records {
			if err := handle(rec.Frame()); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
