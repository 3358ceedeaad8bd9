// Package cli is the interactive terminal front end: a small REPL over the
// command protocol plus the push-notification listener. All state it keeps is
// the name of the currently logged-in user.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/udpmail/internal/client/client"
	"github.com/dmitrijs2005/udpmail/internal/client/config"
	"github.com/dmitrijs2005/udpmail/internal/protocol"
)

type sender interface {
	Send(ctx context.Context, command string) (string, error)
}

type App struct {
	config   *config.Config
	client   sender
	listener *client.Listener
	reader   *bufio.Reader
	out      io.Writer

	currentUser string
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		client: client.NewClient(c.ServerAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.listener != nil {
			a.listener.Close()
		}
	}()

	fmt.Fprintf(a.out, "udpmail client, server %s\n", a.config.ServerAddr)
	a.printHelp()

	for {
		cmd, err := GetSimpleText(a.reader, "", a.out)
		if err != nil {
			return
		}

		switch strings.ToLower(cmd) {
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "send":
			a.send(ctx)
		case "list":
			a.list(ctx)
		case "read":
			a.read(ctx)
		case "accounts":
			a.accounts(ctx)
		case "logout":
			a.logout(ctx)
		case "help":
			a.printHelp()
		case "exit", "quit":
			return
		case "":
		default:
			fmt.Fprintf(a.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "commands: register, login, send, list, read, accounts, logout, help, exit")
}

// roundTrip sends one command and prints transport failures uniformly.
func (a *App) roundTrip(ctx context.Context, command string) (string, bool) {
	resp, err := a.client.Send(ctx, command)
	if err != nil {
		fmt.Fprintf(a.out, "server unreachable: %v\n", err)
		return "", false
	}
	return resp, true
}

func (a *App) register(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil || username == "" {
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return
	}

	resp, ok := a.roundTrip(ctx, protocol.VerbRegister+protocol.Delimiter+username+protocol.Delimiter+password)
	if !ok {
		return
	}
	fmt.Fprintln(a.out, resp)
}

// ensureListener lazily opens the notification socket; its port travels with
// the LOGIN command so the server can push to it.
func (a *App) ensureListener() {
	if !a.config.Notifications || a.listener != nil {
		return
	}
	l, err := client.NewListener()
	if err != nil {
		fmt.Fprintf(a.out, "notifications disabled: %v\n", err)
		return
	}
	l.Start(func(msg string) {
		fmt.Fprintf(a.out, "\n%s\ntype 'list' to refresh your mailbox\n> ", msg)
	})
	a.listener = l
}

func (a *App) login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil || username == "" {
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return
	}

	a.ensureListener()

	command := protocol.VerbLogin + protocol.Delimiter + username + protocol.Delimiter + password
	if a.listener != nil {
		command = fmt.Sprintf("%s%s%d", command, protocol.Delimiter, a.listener.Port())
	}

	resp, ok := a.roundTrip(ctx, command)
	if !ok {
		return
	}

	if !strings.HasPrefix(resp, protocol.PrefixEmailList) {
		fmt.Fprintln(a.out, resp)
		return
	}

	a.currentUser = username
	fmt.Fprintf(a.out, "logged in as %s\n", username)
	a.printEmailList(resp)
}

func (a *App) printEmailList(resp string) {
	ids := protocol.SplitEmailList(resp)
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "mailbox is empty")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(a.out, "  %s\n", id)
	}
}

func (a *App) send(ctx context.Context) {
	if a.currentUser == "" {
		fmt.Fprintln(a.out, "log in first")
		return
	}

	recipient, err := GetSimpleText(a.reader, "To", a.out)
	if err != nil || recipient == "" {
		return
	}
	subject, err := GetSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return
	}
	body, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return
	}

	command := strings.Join([]string{protocol.VerbSend, recipient, a.currentUser, subject, body}, protocol.Delimiter)
	resp, ok := a.roundTrip(ctx, command)
	if !ok {
		return
	}
	fmt.Fprintln(a.out, resp)
}

func (a *App) list(ctx context.Context) {
	if a.currentUser == "" {
		fmt.Fprintln(a.out, "log in first")
		return
	}

	resp, ok := a.roundTrip(ctx, protocol.VerbList+protocol.Delimiter+a.currentUser)
	if !ok {
		return
	}
	if !strings.HasPrefix(resp, protocol.PrefixEmailList) {
		fmt.Fprintln(a.out, resp)
		return
	}
	a.printEmailList(resp)
}

func (a *App) read(ctx context.Context) {
	if a.currentUser == "" {
		fmt.Fprintln(a.out, "log in first")
		return
	}

	id, err := GetSimpleText(a.reader, "Message id", a.out)
	if err != nil || id == "" {
		return
	}

	resp, ok := a.roundTrip(ctx, protocol.VerbGetEmail+protocol.Delimiter+a.currentUser+protocol.Delimiter+id)
	if !ok {
		return
	}
	fmt.Fprintln(a.out, resp)
}

func (a *App) accounts(ctx context.Context) {
	resp, ok := a.roundTrip(ctx, protocol.VerbListAccounts)
	if !ok {
		return
	}
	if strings.HasPrefix(resp, protocol.PrefixAccountList) {
		resp = strings.TrimPrefix(resp, protocol.PrefixAccountList)
	}
	fmt.Fprintln(a.out, resp)
}

func (a *App) logout(ctx context.Context) {
	if a.currentUser == "" {
		return
	}

	resp, ok := a.roundTrip(ctx, protocol.VerbLogout+protocol.Delimiter+a.currentUser)
	if !ok {
		return
	}
	a.currentUser = ""
	fmt.Fprintln(a.out, resp)
}
