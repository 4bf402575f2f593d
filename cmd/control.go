// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/nuvostat/internal/metrics"
	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

var controlZones int

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling Essentia zones",
	Long: `Control an Essentia audio matrix via an interactive terminal UI.

Features:
  - Zone list with power, source and volume
  - Power on/off, mute and volume steps for the selected zone
  - Source and volume entry
  - Periodic status polling
  - Statistics tracking and event logging
  - Automatic reconnection on connection loss

Keys: Tab switches between the zone list and the inputs, arrows select a zone,
o/f turn the zone on/off, m toggles mute, +/- step the volume, A turns every
zone off, Enter applies the focused input, q quits.

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
	controlCmd.Flags().IntVar(&controlZones, "zones", 6, fmt.Sprintf("Number of zones to show and poll (1-%d)", essentia.MaxZone))
}

// connectionManager handles connection lifecycle and reconnection
type connectionManager struct {
	conn     Connection
	connInfo string
	mu       sync.RWMutex
	writeMu  sync.Mutex
	p        *tea.Program
	codec    *essentia.Codec
	done     chan struct{}
	open     func() (Connection, string, error)
}

func (cm *connectionManager) getConn() Connection {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.conn
}

func (cm *connectionManager) setConn(conn Connection, connInfo string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.conn = conn
	cm.connInfo = connInfo
}

// send writes the framed outgoing telegram of cmd
func (cm *connectionManager) send(cmd *essentia.Command) error {
	conn := cm.getConn()
	if conn == nil {
		return errConnectionLost
	}

	cm.writeMu.Lock()
	defer cm.writeMu.Unlock()
	if _, err := conn.Write(essentia.EncodeTelegram(cmd.Outgoing())); err != nil {
		return err
	}
	cmd.MarkSent(time.Now())
	return nil
}

var errConnectionLost = errors.New("connection lost")

func runControl(cmd *cobra.Command, args []string) error {
	if controlZones < 1 || controlZones > essentia.MaxZone {
		return fmt.Errorf("--zones must be between 1 and %d, got %d", essentia.MaxZone, controlZones)
	}

	open := func() (Connection, string, error) { return OpenConnection(cfg) }
	conn, connInfo, err := open()
	if err != nil {
		return err
	}

	// The TUI owns the terminal. Codec diagnostics go to the event log and metrics.
	zerolog.SetGlobalLevel(zerolog.Disabled)
	tuiCodec := essentia.NewCodec(codec.Catalog(), metrics.Reporter())

	cm := &connectionManager{
		conn:     conn,
		connInfo: connInfo,
		codec:    tuiCodec,
		done:     make(chan struct{}),
		open:     open,
	}

	m := initialControlModel(cm, connInfo, controlZones, cfg.Session.PollInterval.Duration)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	cm.p = p

	go cm.readerLoop()

	_, err = p.Run()
	close(cm.done)
	if c := cm.getConn(); c != nil {
		c.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// readerLoop handles reading from connection with automatic reconnection
func (cm *connectionManager) readerLoop() {
	for {
		select {
		case <-cm.done:
			return
		default:
		}

		if cm.readFromConnection() {
			cm.p.Send(connectionLostMsg{})
			if !cm.reconnect() {
				return
			}
		}
	}
}

// readFromConnection decodes telegrams from the connection until it fails.
// Returns true if the connection was lost, false if shutdown was requested.
func (cm *connectionManager) readFromConnection() bool {
	framer := essentia.NewFramer()
	synchronized := false
	errorsBeforeSync := 0

	batchChan := make(chan controlDataMsg, 100)
	syncChan := make(chan controlSyncMsg, 1)
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		buf := make([]byte, 128)
		for {
			select {
			case <-cm.done:
				return
			default:
			}

			conn := cm.getConn()
			if conn == nil {
				return
			}

			n, err := conn.Read(buf)
			if err != nil {
				select {
				case <-cm.done:
					return
				default:
				}
				// a closed WebSocket stays closed
				if errors.Is(err, ErrConnectionClosed) || errors.Is(err, io.EOF) {
					return
				}
				time.Sleep(10 * time.Millisecond)
				continue
			}

			for i := 0; i < n; i++ {
				frame, framingErr := framer.DecodeByte(buf[i])
				if framingErr != nil {
					metrics.RecordFramingError()
					if synchronized {
						select {
						case batchChan <- controlDataMsg{framingErr: framingErr}:
						default:
						}
					} else {
						errorsBeforeSync++
					}
					continue
				}
				if frame == nil {
					continue
				}

				if !synchronized {
					synchronized = true
					select {
					case syncChan <- controlSyncMsg{framingErrors: errorsBeforeSync}:
					default:
					}
				}

				decoded, decodeErr := cm.codec.Decode(frame.Telegram)
				metrics.RecordTelegram(decoded)
				select {
				case batchChan <- controlDataMsg{
					frame:            *frame,
					cmd:              decoded,
					decodeErr:        decodeErr,
					validationErrors: essentia.ValidateCommand(decoded),
				}:
				default:
				}
			}
		}
	}()

	// Batch sender goroutine - sends batched updates to TUI at fixed rate
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-cm.done:
				return
			case <-readerDone:
				return
			case <-ticker.C:
				var batch controlBatchMsg

				select {
				case sync := <-syncChan:
					batch.syncMsg = &sync
				default:
				}

			drainLoop:
				for {
					select {
					case msg := <-batchChan:
						batch.messages = append(batch.messages, msg)
					default:
						break drainLoop
					}
				}

				if batch.syncMsg != nil || len(batch.messages) > 0 {
					cm.p.Send(batch)
				}
			}
		}
	}()

	<-readerDone

	select {
	case <-cm.done:
		return false
	default:
		return true
	}
}

// reconnect attempts to reconnect with exponential backoff.
// Returns false if shutdown was requested during reconnection.
func (cm *connectionManager) reconnect() bool {
	if conn := cm.getConn(); conn != nil {
		conn.Close()
	}
	cm.setConn(nil, "")

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-cm.done:
			return false
		case <-time.After(backoff):
		}

		conn, connInfo, err := cm.open()
		if err == nil {
			cm.setConn(conn, connInfo)
			cm.p.Send(reconnectedMsg{connInfo: connInfo})
			return true
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
