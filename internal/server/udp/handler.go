package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/udpmail/internal/common"
	"github.com/dmitrijs2005/udpmail/internal/logging"
	"github.com/dmitrijs2005/udpmail/internal/protocol"
)

// handle processes one datagram end to end: parse, dispatch, reply. Panics
// and errors are contained here so the receive loop never dies because of a
// single request.
func (s *Server) handle(ctx context.Context, raw string, raddr *net.UDPAddr) {
	log := s.logger.With("request_id", uuid.NewString(), "client", raddr.String())

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "panic while handling request", "panic", fmt.Sprint(p))
			s.reply(ctx, protocol.PrefixError+"internal error", raddr, log)
		}
	}()

	req := protocol.Parse(raw)
	log.Info(ctx, "request", "verb", req.Verb)

	resp := s.dispatch(ctx, req, raddr, log)
	if resp != "" {
		log.Debug(ctx, "reply", "bytes", len(resp))
		s.reply(ctx, resp, raddr, log)
	}
}

func (s *Server) reply(ctx context.Context, resp string, raddr *net.UDPAddr, log logging.Logger) {
	if _, err := s.conn.WriteToUDP([]byte(resp), raddr); err != nil {
		log.Warn(ctx, "reply send error", "error", err.Error())
	}
}

// dispatch routes a parsed request to its handler and converts every error
// into a textual reply. Domain outcomes (unknown user, duplicate account,
// failed login) are literal statuses produced by the handlers themselves;
// only real faults end up with the ERROR: prefix.
func (s *Server) dispatch(ctx context.Context, req protocol.Request, raddr *net.UDPAddr, log logging.Logger) string {

	var resp string
	var err error

	switch req.Verb {
	case protocol.VerbRegister:
		resp, err = s.handleRegister(ctx, req)
	case protocol.VerbLogin:
		resp, err = s.handleLogin(ctx, req, raddr)
	case protocol.VerbSend:
		resp, err = s.handleSend(ctx, req, raddr, log)
	case protocol.VerbList:
		resp, err = s.handleList(ctx, req)
	case protocol.VerbGetEmail:
		resp, err = s.handleGetEmail(ctx, req)
	case protocol.VerbLogout:
		resp, err = s.handleLogout(ctx, req)
	case protocol.VerbListAccounts:
		resp, err = s.handleListAccounts(ctx)
	default:
		return protocol.ReplyUnknownCommand
	}

	if err != nil {
		if errors.Is(err, common.ErrorMalformedRequest) {
			log.Warn(ctx, "malformed request", "verb", req.Verb)
			return protocol.PrefixError + common.ErrorMalformedRequest.Error()
		}
		log.Error(ctx, "request failed", "verb", req.Verb, "error", err.Error())
		return protocol.PrefixError + err.Error()
	}

	return resp
}

func (s *Server) handleRegister(ctx context.Context, req protocol.Request) (string, error) {
	fields, ok := req.Fields(2)
	if !ok {
		return "", common.ErrorMalformedRequest
	}
	username, password := fields[0], fields[1]

	created, err := s.accounts.Register(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !created {
		return protocol.ReplyUserExists, nil
	}

	if err := s.mailbox.SeedWelcome(ctx, username); err != nil {
		return "", err
	}

	return protocol.ReplyRegisterOK, nil
}

func (s *Server) handleLogin(ctx context.Context, req protocol.Request, raddr *net.UDPAddr) (string, error) {
	// LOGIN:<user>:<password> or LOGIN:<user>:<password>:<notifyPort>
	parts := strings.Split(req.Rest, protocol.Delimiter)
	if req.Rest == "" || len(parts) < 2 || len(parts) > 3 {
		return "", common.ErrorMalformedRequest
	}
	username, password := parts[0], parts[1]

	// an unparsable port falls back to the request's own source port
	notifyPort := raddr.Port
	if len(parts) == 3 {
		if p, err := strconv.Atoi(parts[2]); err == nil {
			notifyPort = p
		}
	}

	ok, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return protocol.ReplyLoginFailed, nil
	}

	s.presence.Set(username, &net.UDPAddr{IP: raddr.IP, Port: notifyPort})

	ids, err := s.mailbox.List(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return protocol.ReplyNoSuchUser, nil
		}
		return "", err
	}

	return protocol.JoinEmailList(ids), nil
}

func (s *Server) handleSend(ctx context.Context, req protocol.Request, raddr *net.UDPAddr, log logging.Logger) (string, error) {
	// SEND:<recipient>:<sender>:<subject>:<body>; the body keeps any ":"
	fields, ok := req.Fields(4)
	if !ok {
		return "", common.ErrorMalformedRequest
	}
	recipient, sender, subject, body := fields[0], fields[1], fields[2], fields[3]

	delivery, err := s.mailbox.Deposit(ctx, recipient, sender, raddr.String(), subject, body)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return protocol.ReplyNoSuchUser, nil
		}
		return "", err
	}

	// best-effort push, decoupled from the primary reply
	if addr, online := s.presence.Lookup(recipient); online {
		go s.notify(ctx, addr, sender, delivery.DisplayTime, log)
	}

	return "Email sent to " + recipient, nil
}

// notify sends the NEW_EMAIL datagram to a logged-in recipient. Failures are
// logged and never reach the depositing sender.
func (s *Server) notify(ctx context.Context, addr *net.UDPAddr, sender, displayTime string, log logging.Logger) {
	msg := fmt.Sprintf("%sFrom %s (%s)", protocol.PrefixNewEmail, sender, displayTime)
	if _, err := s.conn.WriteToUDP([]byte(msg), addr); err != nil {
		log.Warn(ctx, "push notification error", "to", addr.String(), "error", err.Error())
		return
	}
	log.Info(ctx, "push notification sent", "to", addr.String())
}

func (s *Server) handleList(ctx context.Context, req protocol.Request) (string, error) {
	fields, ok := req.Fields(1)
	if !ok {
		return "", common.ErrorMalformedRequest
	}

	ids, err := s.mailbox.List(ctx, fields[0])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return protocol.ReplyNoSuchUser, nil
		}
		return "", err
	}

	return protocol.JoinEmailList(ids), nil
}

func (s *Server) handleGetEmail(ctx context.Context, req protocol.Request) (string, error) {
	fields, ok := req.Fields(2)
	if !ok {
		return "", common.ErrorMalformedRequest
	}

	content, err := s.mailbox.Fetch(ctx, fields[0], fields[1])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return protocol.ReplyNoSuchEmail, nil
		}
		return "", err
	}

	return content, nil
}

func (s *Server) handleLogout(ctx context.Context, req protocol.Request) (string, error) {
	fields, ok := req.Fields(1)
	if !ok {
		return "", common.ErrorMalformedRequest
	}

	s.presence.Remove(fields[0])
	return protocol.ReplyLogoutOK, nil
}

func (s *Server) handleListAccounts(ctx context.Context) (string, error) {
	usernames, err := s.accounts.ListUsernames(ctx)
	if err != nil {
		return "", err
	}
	return protocol.JoinAccountList(usernames), nil
}
