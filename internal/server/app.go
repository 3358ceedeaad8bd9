// Package server initializes and runs the mail exchange server. It selects
// the bind address, opens the storage backend, and starts the UDP command
// socket, shutting everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/udpmail/internal/logging"
	"github.com/dmitrijs2005/udpmail/internal/netx"
	"github.com/dmitrijs2005/udpmail/internal/server/accounts"
	"github.com/dmitrijs2005/udpmail/internal/server/config"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
	"github.com/dmitrijs2005/udpmail/internal/server/presence"
	"github.com/dmitrijs2005/udpmail/internal/server/storage"
	"github.com/dmitrijs2005/udpmail/internal/server/udp"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Manager
	server *udp.Server
	bindIP net.IP
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewDefault()

	store, err := storage.NewManager(storage.Config{
		DatabaseDSN: c.DatabaseDSN,
		DataDir:     c.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	bindIP := net.ParseIP(c.BindAddr)
	if bindIP == nil {
		bindIP = netx.ServerBindIP()
	}

	as := accounts.NewService(store.Accounts())
	ms := mailbox.NewService(store.Mailbox())
	reg := presence.NewRegistry()

	addr := &net.UDPAddr{IP: bindIP, Port: c.Port}
	srv := udp.NewServer(addr, c.ReadBufferSize, logger, as, ms, reg)

	return &App{config: c, logger: logger, store: store, server: srv, bindIP: bindIP}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "bind_ip", app.bindIP.String(), "port", app.config.Port)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err.Error())
	}
}
