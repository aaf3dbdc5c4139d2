package report

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSentry_EmptyDSNIsDisabled(t *testing.T) {
	require.NoError(t, SetupSentry("", "test", "dev"))
	ReportError(context.Background(), errors.New("ignored"), Options{})
}

func TestReportError_UsesContextHub(t *testing.T) {
	var mu sync.Mutex
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)

	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	ReportError(ctx, errors.New("upstream failed"), Options{Tags: map[string]string{"upstream": "openrouteservice"}})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "openrouteservice", events[0].Tags["upstream"])
	assert.Equal(t, sentry.LevelError, events[0].Level)
}

func TestReportError_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		ReportError(context.Background(), nil, Options{})
	})
}
