package client

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendTo(t *testing.T, port int, msg string) {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte(msg))
	require.NoError(t, err)
}

func TestListener_ReceivesPushes(t *testing.T) {
	l, err := NewListener()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	got := make(chan string, 1)
	l.Start(func(msg string) { got <- msg })

	sendTo(t, l.Port(), "NEW_EMAIL:From alice (01/01/2024 12:00:00)")

	select {
	case msg := <-got:
		assert.Equal(t, "NEW_EMAIL:From alice (01/01/2024 12:00:00)", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("push notification not delivered")
	}
}

func TestListener_IgnoresUnknownDatagrams(t *testing.T) {
	l, err := NewListener()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	got := make(chan string, 1)
	l.Start(func(msg string) { got <- msg })

	sendTo(t, l.Port(), "something else entirely")

	select {
	case msg := <-got:
		t.Fatalf("unexpected handler call for %q", msg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestListener_CloseIsIdempotent(t *testing.T) {
	l, err := NewListener()
	require.NoError(t, err)

	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}
