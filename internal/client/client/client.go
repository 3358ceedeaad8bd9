// Package client implements the protocol peer side: sending command
// datagrams and waiting for the reply, plus the persistent listener that
// receives NEW_EMAIL push notifications.
package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/protocol"
)

// Client sends one command datagram per call from a fresh ephemeral socket
// and waits for a single reply datagram, mirroring how the deployed client
// talks to the server.
type Client struct {
	serverAddr string
	timeout    time.Duration
}

func NewClient(serverAddr string, timeout time.Duration) *Client {
	return &Client{serverAddr: serverAddr, timeout: timeout}
}

// Send transmits the command and returns the reply text. A lost request or
// reply surfaces as a read deadline error; there is no retransmission.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	raddr, err := net.ResolveUDPAddr("udp", c.serverAddr)
	if err != nil {
		return "", fmt.Errorf("resolve server address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write([]byte(command)); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	buf := make([]byte, protocol.MaxDatagramSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("waiting for reply: %w", err)
	}

	return string(buf[:n]), nil
}
