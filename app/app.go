package app

import (
	"context"
	"time"

	"log/slog"

	"github.com/waitline/waitline-manager/config"
	httpapi "github.com/waitline/waitline-manager/internal/api/http"
	"github.com/waitline/waitline-manager/internal/apisrv/auth"
	"github.com/waitline/waitline-manager/internal/apisrv/owner"
	"github.com/waitline/waitline-manager/internal/apisrv/public"
	"github.com/waitline/waitline-manager/internal/cache"
	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/identity"
	"github.com/waitline/waitline-manager/internal/mail"
	"github.com/waitline/waitline-manager/internal/ratelimit"
	"github.com/waitline/waitline-manager/internal/store"
)

// App wires the store, the identity gateway, the mailer and the http api
// together and owns their lifecycle.
type App struct {
	hs     *httpapi.Server
	db     dependency.Repository
	mailer dependency.Mailer
	c      *config.Config
	done   chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting waitline manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}

	idc, err := identity.New(&a.c.Identity)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create identity client",
			slog.String("err", err.Error()),
		)
		return err
	}

	authS, err := auth.New(&a.c.Auth, idc)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create auth server",
			slog.String("err", err.Error()),
		)
		return err
	}

	if a.c.Mailer.APIKey != "" {
		a.mailer, err = mail.New(&a.c.Mailer, a.db.Mail())
		if err != nil {
			slog.Default().ErrorContext(ctx, "failed to create mailer",
				slog.String("err", err.Error()),
			)
			return err
		}
		if err = a.mailer.Start(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "failed to start mail worker",
				slog.String("err", err.Error()),
			)
			return err
		}
	} else {
		slog.Default().WarnContext(ctx, "no sendgrid api key, mail disabled")
	}

	ownerS := owner.New(a.db)
	publicS := public.New(a.db, a.mailer,
		ratelimit.NewJoinLimiterFromConfig(&a.c.RateLimit),
		cache.NewFormConfigCache(time.Minute),
	)

	a.hs = httpapi.New(&a.c.HTTP)
	if err = a.hs.Start(ctx, authS, ownerS, publicS); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	go func() {
		<-a.hs.Done()
		close(a.done)
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.mailer != nil {
		if err := a.mailer.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "mail worker shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
