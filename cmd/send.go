// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

// Exit codes shared by send and probe
const (
	exitOK         = 0
	exitNoReply    = 1
	exitFailed     = 1
	exitConnection = 2
)

var (
	sendFields  fieldFlags
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <kind>",
	Short: "Send one command and wait for its reply",
	Long: `Encode a command, write it to the connection and wait for the device reply.
The reply is decoded with the incoming template of the command kind and
printed with any anomalies.

Exit codes:
  0 - Reply received before timeout
  1 - Timeout, encoding error, or the device answered with an error ('?')
  2 - Connection error

Examples:
  nuvostat -p /dev/ttyUSB0 send TurnZoneOn --zone 2
  nuvostat -p /dev/ttyUSB0 send SetVolume -z 2 --volume 35 --timeout 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendFields.register(sendCmd)
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 0, "Reply timeout (default from session.reply_timeout)")
}

func runSend(cmd *cobra.Command, args []string) error {
	kind, err := essentia.ParseCommandKind(args[0])
	if err != nil {
		return err
	}
	v, err := sendFields.fields(cmd)
	if err != nil {
		return err
	}
	request, code := buildRequest(os.Stderr, codec, kind, v)
	if request == nil {
		os.Exit(code)
	}

	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(exitConnection)
	}
	defer conn.Close()

	timeout := cfg.Session.ReplyTimeout.Duration
	if cmd.Flags().Changed("timeout") {
		timeout = sendTimeout
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connection: %s\n", connInfo)
	fmt.Fprintf(out, "Sending %s %q (timeout %s)\n\n", essentia.FormatKind(kind), request.Outgoing(), timeout)

	code = sendCommand(cmd.Context(), out, codec, conn, request, timeout)
	conn.Close()
	os.Exit(code)
	return nil
}

// buildRequest encodes the command to send. An encode failure is printed to
// out and returned as exitFailed with a nil command.
func buildRequest(out io.Writer, c *essentia.Codec, kind essentia.CommandKind, v essentia.Fields) (*essentia.Command, int) {
	request, err := c.NewCommand(kind, v)
	if err != nil {
		metrics.RecordEncodeFailure(kind)
		fmt.Fprintf(out, "Encode error: %v\n", err)
		return nil, exitFailed
	}
	return request, exitOK
}

// sendCommand performs one exchange on conn and prints the outcome.
// Returns the process exit code.
func sendCommand(ctx context.Context, out io.Writer, c *essentia.Codec, conn Connection, request *essentia.Command, timeout time.Duration) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan essentia.Frame, 16)
	go func() {
		if err := readFrames(ctx, conn, frames, nil); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("reader stopped")
		}
	}()

	err := exchange(ctx, c, conn, frames, request, timeout)
	return reportExchange(out, request, err)
}

// reportExchange prints the result of an exchange and maps it to an exit code
func reportExchange(out io.Writer, request *essentia.Command, err error) int {
	switch {
	case err == nil:
		fmt.Fprintf(out, "SUCCESS: reply in %s\n", request.ReceivedAt().Sub(request.SentAt()).Round(time.Millisecond))
		fmt.Fprint(out, essentia.FormatCommand(request))
		printValidationErrors(out, essentia.ValidateCommand(request))
		return exitOK

	case errors.Is(err, errReplyTimeout):
		fmt.Fprintf(out, "TIMEOUT: %v\n", err)
		return exitNoReply

	case errors.Is(err, errDeviceRejected):
		fmt.Fprintf(out, "REJECTED: %v\n", err)
		return exitNoReply

	default:
		fmt.Fprintf(out, "Connection error: %v\n", err)
		return exitConnection
	}
}
