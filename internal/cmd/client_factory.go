package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/takeme/profilectl/internal/api"
	"github.com/takeme/profilectl/internal/cache"
	"github.com/takeme/profilectl/internal/config"
)

type clientFactory struct {
	settings  config.Settings
	userAgent string
}

func newClientFactory(ctx context.Context) *clientFactory {
	s := settingsFrom(ctx)
	ua := s.UserAgent
	if ua == "" {
		ua = fmt.Sprintf("profilectl/%s", version)
	}
	return &clientFactory{settings: s, userAgent: ua}
}

// client builds an API client with the configured cache attached. The
// returned close function releases the cache and is always safe to call.
func (f *clientFactory) client() (*api.Client, func(), error) {
	client := api.New(f.settings.BaseURL)
	client.HTTP.Timeout = f.settings.Timeout
	client.UserAgent = f.userAgent

	store, err := cache.Open(f.settings.Cache)
	if err != nil {
		return nil, func() {}, err
	}
	if store == nil {
		return client, func() {}, nil
	}
	client.Cache = store
	return client, func() {
		if err := store.Close(); err != nil {
			slog.Debug("closing profile cache failed", "error", err)
		}
	}, nil
}

// getClient creates an API client from the resolved settings.
func getClient(ctx context.Context) (*api.Client, func(), error) {
	return newClientFactory(ctx).client()
}
