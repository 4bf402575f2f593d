// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/Thermoquad/nuvostat/internal/config"
)

// EnvPassword holds the bridge password so it stays out of shell history
const EnvPassword = "NUVOSTAT_PASSWORD"

const (
	// serialPollTimeout bounds a single serial read so readers notice shutdown
	serialPollTimeout = 200 * time.Millisecond
	bridgeDialTimeout = 15 * time.Second
)

// ErrConnectionClosed is returned by reads once the bridge connection is gone
var ErrConnectionClosed = errors.New("websocket connection closed")

// Connection carries raw telegram bytes to and from the matrix
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// OpenConnection opens the transport named by c. The WebSocket bridge takes
// precedence over a serial port. The returned string describes the link.
func OpenConnection(c config.Config) (Connection, string, error) {
	switch {
	case c.WebSocket.URL != "":
		password, err := bridgePassword(c.WebSocket.Username)
		if err != nil {
			return nil, "", err
		}
		ctx, cancel := context.WithTimeout(context.Background(), bridgeDialTimeout)
		defer cancel()
		conn, err := dialBridge(ctx, c.WebSocket, password)
		if err != nil {
			return nil, "", err
		}
		return conn, "WebSocket: " + c.WebSocket.URL, nil

	case c.Serial.Port != "":
		conn, err := openSerial(c.Serial)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", c.Serial.Port, c.Serial.Baud), nil
	}
	return nil, "", errors.New("either --port or --url must be specified")
}

//////////////////////////////////////////////////////////////
// Serial
//////////////////////////////////////////////////////////////

// serialLink is an RS-232 port at 8N1. Reads return (0, nil) when the poll
// timeout passes without data.
type serialLink struct {
	serial.Port
}

func openSerial(c config.SerialConfig) (Connection, error) {
	port, err := serial.Open(c.Port, &serial.Mode{
		BaudRate: c.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", c.Port, err)
	}
	if err := port.SetReadTimeout(serialPollTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("serial port %s: %w", c.Port, err)
	}
	return &serialLink{Port: port}, nil
}

//////////////////////////////////////////////////////////////
// WebSocket bridge
//////////////////////////////////////////////////////////////

// bridgeLink streams telegram bytes through a serial-to-WebSocket bridge.
// Text and binary messages are read as one byte stream. Writes go out as
// binary messages.
type bridgeLink struct {
	ws *websocket.Conn

	msg     io.Reader
	readErr error

	writeMu sync.Mutex
}

func (b *bridgeLink) Read(p []byte) (int, error) {
	for b.readErr == nil {
		if b.msg == nil {
			_, r, err := b.ws.NextReader()
			if err != nil {
				b.readErr = fmt.Errorf("%w: %v", ErrConnectionClosed, err)
				break
			}
			b.msg = r
		}

		n, err := b.msg.Read(p)
		if errors.Is(err, io.EOF) {
			b.msg = nil
			err = nil
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
	return 0, b.readErr
}

func (b *bridgeLink) Write(p []byte) (int, error) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *bridgeLink) Close() error {
	return b.ws.Close()
}

// dialBridge connects to the bridge at c.URL, authenticating with HTTP Basic
// auth when a username is configured
func dialBridge(ctx context.Context, c config.WebSocketConfig, password string) (Connection, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" && c.NoSSLVerify {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	header := http.Header{}
	if c.Username != "" {
		req := http.Request{Header: header}
		req.SetBasicAuth(c.Username, password)
	}

	ws, resp, err := dialer.DialContext(ctx, c.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial %s (HTTP %d): %w", u.Host, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", u.Host, err)
	}
	return &bridgeLink{ws: ws}, nil
}

// bridgePassword returns the bridge password for username. The environment
// wins, then a hidden terminal prompt, then a plain line from stdin.
func bridgePassword(username string) (string, error) {
	if username == "" {
		return "", nil
	}
	if pw := os.Getenv(EnvPassword); pw != "" {
		return pw, nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
