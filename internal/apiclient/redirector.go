package apiclient

import (
	"context"
	"log/slog"
)

// Redirector sends the user to a login entry point once their session is gone.
type Redirector interface {
	Redirect(ctx context.Context, location string)
}

type RedirectFunc func(ctx context.Context, location string)

func (f RedirectFunc) Redirect(ctx context.Context, location string) {
	f(ctx, location)
}

var logRedirector = RedirectFunc(func(ctx context.Context, location string) {
	slog.Info("API CLIENT", "message", "session ended, no redirector configured", "location", location)
})
