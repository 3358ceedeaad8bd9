package client

import (
	"fmt"
	"net"
	"sync"

	"github.com/dmitrijs2005/udpmail/internal/protocol"
)

// Listener is the persistent notification socket. It binds an ephemeral UDP
// port whose number is supplied to the server at LOGIN time; the server's
// push datagrams arrive here. Datagrams it cannot recognize are ignored.
type Listener struct {
	conn *net.UDPConn

	mu     sync.Mutex
	closed bool
}

// NewListener binds a free local UDP port.
func NewListener() (*Listener, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Listener{conn: conn}, nil
}

// Port returns the local port the listener is bound to.
func (l *Listener) Port() int {
	return l.conn.LocalAddr().(*net.UDPAddr).Port
}

// Start consumes datagrams in a background goroutine and invokes handler for
// every NEW_EMAIL push. It returns immediately; the goroutine exits when the
// listener is closed.
func (l *Listener) Start(handler func(msg string)) {
	go func() {
		buf := make([]byte, protocol.MaxDatagramSize)
		for {
			n, _, err := l.conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			msg := string(buf[:n])
			if len(msg) >= len(protocol.PrefixNewEmail) && msg[:len(protocol.PrefixNewEmail)] == protocol.PrefixNewEmail {
				handler(msg)
			}
		}
	}()
}

// Close shuts the socket down and stops the background goroutine.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.conn.Close()
}
