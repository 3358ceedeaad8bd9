// Package udp runs the command socket: a single receive loop that hands each
// inbound datagram to its own goroutine, a dispatcher that maps verbs onto
// the stores and the presence registry, and the best-effort push notifier.
package udp

import (
	"context"
	"fmt"
	"net"

	"github.com/dmitrijs2005/udpmail/internal/logging"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
	"github.com/dmitrijs2005/udpmail/internal/server/presence"
)

// accountSvc and mailboxSvc are the slices of the store services the
// dispatcher needs; tests substitute fakes.
type accountSvc interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

type mailboxSvc interface {
	Deposit(ctx context.Context, recipient, sender, senderAddr, subject, body string) (*mailbox.Delivery, error)
	List(ctx context.Context, username string) ([]string, error)
	Fetch(ctx context.Context, username, id string) (string, error)
	SeedWelcome(ctx context.Context, username string) error
}

type Server struct {
	addr     *net.UDPAddr
	bufSize  int
	logger   logging.Logger
	accounts accountSvc
	mailbox  mailboxSvc
	presence *presence.Registry

	conn *net.UDPConn
}

func NewServer(addr *net.UDPAddr, bufSize int, l logging.Logger, as accountSvc, ms mailboxSvc, reg *presence.Registry) *Server {
	return &Server{
		addr:     addr,
		bufSize:  bufSize,
		logger:   l.With("module", "udp_server"),
		accounts: as,
		mailbox:  ms,
		presence: reg,
	}
}

// Run binds the UDP socket and serves datagrams until ctx is cancelled.
// A failing or malformed request never stops the loop; each datagram is
// handled in its own goroutine so a slow store operation does not stall
// reception of the next one.
func (s *Server) Run(ctx context.Context) error {

	conn, err := net.ListenUDP("udp", s.addr)
	if err != nil {
		return fmt.Errorf("udp listen error: %w", err)
	}
	s.conn = conn

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping UDP server...")
		conn.Close()
	}()

	s.logger.Info(ctx, "Starting UDP server", "address", conn.LocalAddr().String())

	buf := make([]byte, s.bufSize)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn(ctx, "receive error", "error", err.Error())
			continue
		}

		// the buffer is reused by the next read, so hand the goroutine a copy
		raw := string(buf[:n])
		go s.handle(ctx, raw, raddr)
	}
}
