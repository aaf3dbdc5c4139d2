package report

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// Options provides optional data attached to a reported error
type Options struct {
	Tags  map[string]string
	Extra map[string]interface{}
	Level sentry.Level
}

// ReportError captures err on the request hub when one is present in ctx
// (set by the sentryhttp handler), otherwise on the global hub.
func ReportError(ctx context.Context, err error, opts Options) {
	if err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range opts.Tags {
			scope.SetTag(k, v)
		}
		if opts.Extra != nil {
			scope.SetContext("extra", opts.Extra)
		}
		level := opts.Level
		if level == "" {
			level = sentry.LevelError
		}
		scope.SetLevel(level)
		hub.CaptureException(err)
	})
}
