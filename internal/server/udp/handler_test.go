package udp

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/udpmail/internal/logging"
	"github.com/dmitrijs2005/udpmail/internal/protocol"
	"github.com/dmitrijs2005/udpmail/internal/server/accounts"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
	"github.com/dmitrijs2005/udpmail/internal/server/presence"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- helpers ----

// newTestServer wires the dispatcher to real file-backed stores in a temp
// directory and a real loopback socket for replies and pushes.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	as := accounts.NewService(accounts.NewFileRepository(dir))
	ms := mailbox.NewService(mailbox.NewFileRepository(dir))

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	s := NewServer(conn.LocalAddr().(*net.UDPAddr), protocol.MaxDatagramSize, nopLogger{}, as, ms, presence.NewRegistry())
	s.conn = conn
	return s
}

func clientAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

func (s *Server) do(t *testing.T, raw string, from *net.UDPAddr) string {
	t.Helper()
	return s.dispatch(context.Background(), protocol.Parse(raw), from, nopLogger{})
}

// notifyListener binds a loopback socket that stands in for a client's
// notification listener.
func notifyListener(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func expectPush(t *testing.T, conn *net.UDPConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, protocol.MaxDatagramSize)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err, "expected a push datagram")
	return string(buf[:n])
}

func expectNoPush(t *testing.T, conn *net.UDPConn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	buf := make([]byte, protocol.MaxDatagramSize)
	_, _, err := conn.ReadFromUDP(buf)
	assert.Error(t, err, "no push datagram may arrive")
}

// ---- tests ----

func TestDispatch_RegisterAndDuplicate(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, "REGISTER:alice:p1", clientAddr(40000))
	assert.Equal(t, protocol.ReplyRegisterOK, resp)

	resp = s.do(t, "REGISTER:alice:p2", clientAddr(40000))
	assert.Equal(t, protocol.ReplyUserExists, resp)
}

func TestDispatch_LoginReturnsMailbox(t *testing.T) {
	s := newTestServer(t)

	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	resp := s.do(t, "LOGIN:alice:pw", clientAddr(40000))

	require.True(t, strings.HasPrefix(resp, protocol.PrefixEmailList))
	assert.ElementsMatch(t, []string{mailbox.WelcomeID}, protocol.SplitEmailList(resp))
}

func TestDispatch_LoginWrongPassword(t *testing.T) {
	s := newTestServer(t)

	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	resp := s.do(t, "LOGIN:alice:wrong", clientAddr(40000))

	assert.Equal(t, protocol.ReplyLoginFailed, resp)
	_, online := s.presence.Lookup("alice")
	assert.False(t, online, "failed login must not create a presence entry")
}

func TestDispatch_LoginRegistersPresencePort(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))

	t.Run("explicit notify port", func(t *testing.T) {
		s.do(t, "LOGIN:alice:pw:55555", clientAddr(40000))
		addr, online := s.presence.Lookup("alice")
		require.True(t, online)
		assert.Equal(t, 55555, addr.Port)
	})

	t.Run("unparsable port falls back to source port", func(t *testing.T) {
		s.do(t, "LOGIN:alice:pw:notaport", clientAddr(40123))
		addr, online := s.presence.Lookup("alice")
		require.True(t, online)
		assert.Equal(t, 40123, addr.Port)
	})

	t.Run("omitted port defaults to source port", func(t *testing.T) {
		s.do(t, "LOGIN:alice:pw", clientAddr(40456))
		addr, online := s.presence.Lookup("alice")
		require.True(t, online)
		assert.Equal(t, 40456, addr.Port)
	})
}

func TestDispatch_SendToUnknownRecipient(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))

	resp := s.do(t, "SEND:ghost:alice:hi:body", clientAddr(40000))
	assert.Equal(t, protocol.ReplyNoSuchUser, resp)

	// alice's mailbox holds only the welcome message
	resp = s.do(t, "LIST:alice", clientAddr(40000))
	assert.ElementsMatch(t, []string{mailbox.WelcomeID}, protocol.SplitEmailList(resp))
}

func TestDispatch_SendPushesToOnlineRecipient(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	conn, port := notifyListener(t)
	s.do(t, "LOGIN:bob:pw:"+strconv.Itoa(port), clientAddr(40001))

	resp := s.do(t, "SEND:bob:alice:hello:the body", clientAddr(40000))
	assert.Equal(t, "Email sent to bob", resp)

	push := expectPush(t, conn)
	assert.True(t, strings.HasPrefix(push, protocol.PrefixNewEmail))
	assert.Contains(t, push, "From alice")

	expectNoPush(t, conn)
}

func TestDispatch_SendNoPushWhenOffline(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	conn, _ := notifyListener(t)

	resp := s.do(t, "SEND:bob:alice:hello:body", clientAddr(40000))
	assert.Equal(t, "Email sent to bob", resp)
	expectNoPush(t, conn)
}

func TestDispatch_LogoutStopsPushesButNotDeposits(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	conn, port := notifyListener(t)
	s.do(t, "LOGIN:bob:pw:"+strconv.Itoa(port), clientAddr(40001))

	assert.Equal(t, protocol.ReplyLogoutOK, s.do(t, "LOGOUT:bob", clientAddr(40001)))

	resp := s.do(t, "SEND:bob:alice:hello:body", clientAddr(40000))
	assert.Equal(t, "Email sent to bob", resp)
	expectNoPush(t, conn)

	ids := protocol.SplitEmailList(s.do(t, "LIST:bob", clientAddr(40001)))
	assert.Len(t, ids, 2, "deposit must succeed even after logout")
}

func TestDispatch_SendBodyKeepsDelimiters(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	s.do(t, "SEND:bob:alice:meeting:moved to 10:30 today", clientAddr(40000))

	ids := protocol.SplitEmailList(s.do(t, "LIST:bob", clientAddr(40001)))
	var msgID string
	for _, id := range ids {
		if id != mailbox.WelcomeID {
			msgID = id
		}
	}
	require.NotEmpty(t, msgID)

	content := s.do(t, "GET_EMAIL:bob:"+msgID, clientAddr(40001))
	assert.Contains(t, content, "Subject: meeting")
	assert.Contains(t, content, "moved to 10:30 today")
}

func TestDispatch_GetEmailIdempotent(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	first := s.do(t, "GET_EMAIL:bob:"+mailbox.WelcomeID, clientAddr(40001))
	second := s.do(t, "GET_EMAIL:bob:"+mailbox.WelcomeID, clientAddr(40001))
	assert.Equal(t, first, second)

	assert.Equal(t, protocol.ReplyNoSuchEmail, s.do(t, "GET_EMAIL:bob:nope.txt", clientAddr(40001)))
}

func TestDispatch_ListAccounts(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	s.do(t, "REGISTER:bob:pw", clientAddr(40001))

	resp := s.do(t, "LIST_ACCOUNTS", clientAddr(40000))
	require.True(t, strings.HasPrefix(resp, protocol.PrefixAccountList))
	listed := strings.Split(strings.TrimPrefix(resp, protocol.PrefixAccountList), ",")
	assert.ElementsMatch(t, []string{"alice", "bob"}, listed)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, protocol.ReplyUnknownCommand, s.do(t, "FROBNICATE:now", clientAddr(40000)))
}

func TestDispatch_MalformedRequests(t *testing.T) {
	s := newTestServer(t)

	for _, raw := range []string{"REGISTER", "REGISTER:alice", "LOGIN:alice", "SEND:bob:alice:subj", "LIST", "GET_EMAIL:bob", "LOGOUT"} {
		resp := s.do(t, raw, clientAddr(40000))
		assert.True(t, strings.HasPrefix(resp, protocol.PrefixError), "request %q must yield an error reply, got %q", raw, resp)
	}
}

// ---- fault propagation ----

type failingAccounts struct{}

func (f failingAccounts) Register(context.Context, string, string) (bool, error) {
	return false, errors.New("disk on fire")
}
func (f failingAccounts) Authenticate(context.Context, string, string) (bool, error) {
	return false, errors.New("disk on fire")
}
func (f failingAccounts) ListUsernames(context.Context) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestDispatch_StoreFaultBecomesErrorReply(t *testing.T) {
	s := newTestServer(t)
	s.accounts = failingAccounts{}

	resp := s.do(t, "REGISTER:alice:pw", clientAddr(40000))
	assert.True(t, strings.HasPrefix(resp, protocol.PrefixError))
	assert.Contains(t, resp, "disk on fire")
}
