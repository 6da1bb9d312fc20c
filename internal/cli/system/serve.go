package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/server"
)

// runServer is replaced in tests.
var runServer = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.Run(ctx, addr)
}

type ServeCmd struct {
	Addr          string   `help:"Address to listen on." default:"${default_addr}"`
	AllowedOrigin []string `help:"Origin allowed to call the API. Repeatable; defaults to any origin." name:"allowed-origin"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultServerAddr
	}

	lock, err := server.AcquireLock(ctx.ConfigDir, addr)
	if err != nil {
		if errors.Is(err, server.ErrAlreadyRunning) {
			return fmt.Errorf("%w (lockfile: %s)", err, server.LockfilePath(ctx.ConfigDir))
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to remove server lockfile", "error", err)
		}
	}()

	var opts []server.Option
	if len(c.AllowedOrigin) > 0 {
		opts = append(opts, server.WithAllowedOrigins(c.AllowedOrigin...))
	}
	srv := server.New(ctx.Store, opts...)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving meal plans on http://%s (Ctrl+C to stop)\n", addr)
	if err := runServer(runCtx, srv, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	ctx.Println("Server stopped.")
	return nil
}
