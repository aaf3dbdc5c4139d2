// Package report forwards server-side failures to Sentry when a DSN is configured.
package report

import (
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initializes the global Sentry client. An empty DSN leaves
// reporting disabled; every function in this package is then a no-op.
func SetupSentry(dsn, env, release string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return err
	}
	configureScope(env, release)
	return nil
}

// FlushSentry waits for buffered events to be delivered
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// Enabled reports whether a Sentry client has been initialized
func Enabled() bool {
	return sentry.CurrentHub().Client() != nil
}

func configureScope(env, version string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("env", env)
		scope.SetTag("app_version", version)
		scope.SetTag("go_version", runtime.Version())
		scope.SetContext("host_info", map[string]interface{}{
			"hostname": hostname(),
		})
	})
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
