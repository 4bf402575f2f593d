// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var (
	errReplyTimeout   = errors.New("no reply before timeout")
	errDeviceRejected = errors.New("device rejected the command")
)

// readFrames cuts telegrams out of r and sends them to out until r fails or
// ctx is cancelled. Framing errors are counted and passed to onFramingError
// when it is not nil. out is closed on return.
func readFrames(ctx context.Context, r io.Reader, out chan<- essentia.Frame, onFramingError func(error)) error {
	defer close(out)

	framer := essentia.NewFramer()
	buf := make([]byte, 128)

	for {
		n, err := r.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if n == 0 && ctx.Err() != nil {
			return ctx.Err()
		}

		for i := 0; i < n; i++ {
			frame, err := framer.DecodeByte(buf[i])
			if err != nil {
				metrics.RecordFramingError()
				log.Debug().Err(err).Msg("framing error")
				if onFramingError != nil {
					onFramingError(err)
				}
				continue
			}
			if frame == nil {
				continue
			}

			select {
			case out <- *frame:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// exchange writes cmd to w and binds the first device reply read from frames.
// Echoes of outgoing telegrams, external mute notifications and replies that
// do not answer cmd are skipped.
func exchange(ctx context.Context, c *essentia.Codec, w io.Writer, frames <-chan essentia.Frame, cmd *essentia.Command, timeout time.Duration) error {
	if _, err := w.Write(essentia.EncodeTelegram(cmd.Outgoing())); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	cmd.MarkSent(time.Now())

	log.Debug().
		Str("kind", cmd.Kind().String()).
		Str("telegram", cmd.Outgoing()).
		Msg("telegram sent")

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			return fmt.Errorf("%s: %w", cmd.Kind(), errReplyTimeout)

		case frame, ok := <-frames:
			if !ok {
				return ErrConnectionClosed
			}
			if frame.Outgoing() {
				continue
			}

			if m, matched := c.Match(frame.Telegram); matched && m.Direction == essentia.DirectionIncoming {
				switch m.Entry.Kind {
				case essentia.ExternalMuteActivated, essentia.ExternalMuteDeactivated:
					if note, err := c.Decode(frame.Telegram); err == nil {
						metrics.RecordTelegram(note)
					}
					continue
				case essentia.ErrorInCommand:
					if reply, err := c.Decode(frame.Telegram); err == nil {
						metrics.RecordTelegram(reply)
					}
					return fmt.Errorf("%s %q: %w", cmd.Kind(), cmd.Outgoing(), errDeviceRejected)
				}
			}

			if !answers(cmd, frame.Telegram) {
				if other, err := c.Decode(frame.Telegram); err == nil {
					metrics.RecordTelegram(other)
				}
				log.Debug().
					Str("kind", cmd.Kind().String()).
					Str("telegram", frame.Telegram).
					Msg("unrelated telegram skipped")
				continue
			}

			if err := c.Receive(cmd, frame.Telegram); err != nil {
				return err
			}
			metrics.RecordTelegram(cmd)
			metrics.RecordReply(cmd)
			return nil
		}
	}
}

// answers reports whether raw has the shape of the reply to cmd and, when cmd
// addresses a zone, names the same zone
func answers(cmd *essentia.Command, raw string) bool {
	template := cmd.IncomingTemplate()
	if template == "" {
		// Receive reports the missing template
		return true
	}
	if !essentia.Matches(template, raw) {
		return false
	}

	zone := cmd.Fields().Zone
	if !zone.Valid() {
		return true
	}
	reply := essentia.NewFields()
	if err := essentia.DecodeField(template, raw, essentia.FieldZone, &reply); err != nil {
		return false
	}
	return reply.Zone == essentia.NoZone || reply.Zone == zone
}
