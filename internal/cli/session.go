package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/cache"
	"github.com/rshade/lectern/internal/config"
	"github.com/rshade/lectern/internal/portal"
)

// portalSession bundles what a portal command needs: the config, the stored
// login and a client authorized with it.
type portalSession struct {
	cfg     *config.Config
	store   *portal.SessionStore
	session *portal.Session
	client  *portal.Client
}

// openSessionStore returns the store at the configured session path.
func openSessionStore() (*portal.SessionStore, error) {
	path, err := config.SessionPath()
	if err != nil {
		return nil, fmt.Errorf("resolving session path: %w", err)
	}
	return portal.NewSessionStore(path), nil
}

// openFileCache returns the offline response cache described by cfg.
func openFileCache(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	store, err := cache.NewFileStore(dir, cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

// newPortalClient builds a client for cfg. sess may be nil before login.
func newPortalClient(cfg *config.Config, store *portal.SessionStore, sess *portal.Session) (*portal.Client, error) {
	opts := portal.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger,
	}

	if sess != nil {
		files, err := openFileCache(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("offline cache unavailable")
		} else {
			opts.Cache = files
		}
		opts.Token = sess.Token
		opts.CacheScope = sess.User.ID
		opts.OnUnauthorized = func() {
			if err := store.Clear(); err != nil {
				logger.Warn().Err(err).Msg("could not clear expired session")
				return
			}
			logger.Info().Msg("session expired, stored login removed")
		}
	}

	return portal.NewClient(opts)
}

// requireSession loads the stored login and returns an authorized client.
func requireSession(cmd *cobra.Command) (*portalSession, error) {
	cfg := config.GetGlobalConfig()
	store, err := openSessionStore()
	if err != nil {
		return nil, err
	}

	sess, err := store.Load()
	if err != nil {
		if errors.Is(err, portal.ErrNotLoggedIn) {
			return nil, err
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	client, err := newPortalClient(cfg, store, sess)
	if err != nil {
		return nil, err
	}

	logger.Debug().Ctx(cmd.Context()).
		Str("user_id", sess.User.ID).
		Str("base_url", client.BaseURL()).
		Msg("session loaded")

	return &portalSession{cfg: cfg, store: store, session: sess, client: client}, nil
}

// listingOptions returns the listing options for this session's locale.
func (s *portalSession) listingOptions() portal.ListingOptions {
	return portal.ListingOptions{Locale: s.cfg.UI.Locale, Clock: s.client.Now}
}
