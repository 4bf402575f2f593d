// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package essentia

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomFields fills every encodable field with an in-range value
func randomFields(rng *rand.Rand) Fields {
	v := NewFields()
	v.Zone = Zone(rng.Intn(MaxZone) + 1)
	v.Source = Source(rng.Intn(MaxSource) + 1)
	v.Volume = -rng.Intn(-MinVolume + 1)
	v.Bass = rng.Intn(MaxLevel-MinLevel+1) + MinLevel
	v.Treble = rng.Intn(MaxLevel-MinLevel+1) + MinLevel
	return v
}

// ============================================================
// Codec Fuzz Tests
// ============================================================

// TestFuzzDecode_RandomTelegrams decodes random printable strings and
// verifies the codec never panics and always returns a command
func TestFuzzDecode_RandomTelegrams(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	c, _ := newTestCodec(t)
	t.Logf("Running %d fuzz rounds", rounds)

	alphabet := "ZXON0123456789PWRFSCGVL-+,:?#*._"
	for i := 0; i < rounds; i++ {
		n := rng.Intn(40)
		raw := make([]byte, n)
		for j := range raw {
			raw[j] = alphabet[rng.Intn(len(alphabet))]
		}

		cmd, _ := c.Decode(string(raw))
		if cmd == nil {
			t.Fatalf("Decode(%q) returned nil", raw)
		}
		ValidateCommand(cmd)
	}
}

// TestFuzzDecode_MutatedReplies flips single characters of valid replies,
// which must never panic and must keep every decoded field in range
func TestFuzzDecode_MutatedReplies(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	c, _ := newTestCodec(t)

	replies := []string{
		"Z02PWRON,SRC3,GRP0,VOL-20",
		"Z11PWROFF,SRC6,GRP1,VOL-79",
		"Z01OR0,BASS+05,TREB-03,GRP1,VRST0",
		"IRSET:38,56,38,38,38,56",
		"NUVO_E6D_v1.23",
	}

	for i := 0; i < rounds; i++ {
		raw := []byte(replies[rng.Intn(len(replies))])
		raw[rng.Intn(len(raw))] = byte(rng.Intn(95) + 32)

		cmd, _ := c.Decode(string(raw))
		for _, e := range validateFieldRanges(cmd.Fields()) {
			t.Errorf("Decoded out of range value from %q: %s", raw, e.Message)
		}
	}
}

// TestFuzzCodec_RoundTrip encodes random in-range fields for every sendable
// kind and checks that decoding restores kind and fields
func TestFuzzCodec_RoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	c, _ := newTestCodec(t)
	entries := essentiaEntries()

	for i := 0; i < rounds; i++ {
		e := entries[rng.Intn(len(entries))]
		layout, ok := encodeLayout[e.Kind]
		if !ok {
			continue
		}

		sent, err := c.NewCommand(e.Kind, randomFields(rng))
		if err != nil {
			t.Fatalf("NewCommand(%s) failed: %v", e.Kind, err)
		}
		got, _ := c.Decode(sent.Outgoing())
		if got.Kind() != e.Kind {
			t.Fatalf("%q decoded as %s, want %s", sent.Outgoing(), got.Kind(), e.Kind)
		}

		want, decoded := sent.Fields(), got.Fields()
		for _, f := range layout {
			expected, actual := NewFields(), NewFields()
			expected.copyField(want, f)
			actual.copyField(decoded, f)
			if expected != actual {
				t.Errorf("%s: %s mismatch after round trip of %q", e.Kind, f, sent.Outgoing())
			}
		}
	}
}

// TestFuzzFramer_RandomBytes feeds random bytes to the framer
func TestFuzzFramer_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)

	for i := 0; i < rounds; i++ {
		f := NewFramer()
		data := make([]byte, rng.Intn(256)+1)
		rng.Read(data)
		for _, b := range data {
			frame, _ := f.DecodeByte(b)
			if frame != nil && len(frame.Telegram) > MaxTelegramSize {
				t.Fatalf("Frame exceeds %d bytes: %d", MaxTelegramSize, len(frame.Telegram))
			}
		}
	}
}
