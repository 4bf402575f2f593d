// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package metrics exposes telegram and codec counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var (
	registerOnce sync.Once

	telegrams = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nuvostat",
			Subsystem: "link",
			Name:      "telegrams_total",
			Help:      "Telegrams seen on the link by direction and kind.",
		},
		[]string{"direction", "kind"},
	)
	codecEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nuvostat",
			Subsystem: "codec",
			Name:      "events_total",
			Help:      "Codec diagnostics by event type.",
		},
		[]string{"type"},
	)
	encodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nuvostat",
			Subsystem: "codec",
			Name:      "encode_failures_total",
			Help:      "Commands that could not be encoded.",
		},
		[]string{"kind"},
	)
	framingErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nuvostat",
			Subsystem: "link",
			Name:      "framing_errors_total",
			Help:      "Bytes or partial telegrams dropped by the framer.",
		},
	)
	replyLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nuvostat",
			Subsystem: "link",
			Name:      "reply_latency_seconds",
			Help:      "Time from sending a command to binding its reply.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"kind"},
	)
)

// Register adds the collectors to the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(telegrams, codecEvents, encodeFailures, framingErrors, replyLatency)
	})
}

// RecordTelegram counts one decoded telegram
func RecordTelegram(cmd *essentia.Command) {
	if cmd == nil {
		return
	}
	Register()
	direction := cmd.MatchedDirection().String()
	if cmd.MatchedDirection() == essentia.DirectionNone && cmd.Incoming() != "" {
		direction = essentia.DirectionIncoming.String()
	}
	telegrams.WithLabelValues(direction, cmd.Kind().String()).Inc()
}

// RecordFramingError counts one framer error
func RecordFramingError() {
	Register()
	framingErrors.Inc()
}

// RecordEncodeFailure counts one rejected encode
func RecordEncodeFailure(kind essentia.CommandKind) {
	Register()
	encodeFailures.WithLabelValues(kind.String()).Inc()
}

// RecordReply observes the send-to-reply latency of an answered command
func RecordReply(cmd *essentia.Command) {
	if cmd == nil || !cmd.Answered() || cmd.SentAt().IsZero() {
		return
	}
	Register()
	replyLatency.WithLabelValues(cmd.Kind().String()).
		Observe(cmd.ReceivedAt().Sub(cmd.SentAt()).Seconds())
}

// Reporter counts codec events
func Reporter() essentia.Reporter {
	Register()
	return essentia.ReporterFunc(func(e essentia.Event) {
		codecEvents.WithLabelValues(e.Type.String()).Inc()
	})
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
