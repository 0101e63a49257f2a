package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"venuebook/internal/assets"
	"venuebook/internal/booking"
	"venuebook/internal/config"
	"venuebook/internal/logging"
	"venuebook/internal/session"
	"venuebook/internal/store"
)

// lockWaitTimeout bounds how long a command waits for another to finish.
var lockWaitTimeout = 10 * time.Second

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	if c.verbose != nil && *c.verbose {
		return logging.NewFromConfig(cfg)
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{cfg.LogPath()},
	})
}

// env bundles the resources one command invocation works with.
type env struct {
	cfg    *config.Config
	store  *store.Store
	svc    *booking.Service
	images *assets.Library
	logger *slog.Logger
}

type runOptions struct {
	// mutate holds the operation lock for the whole command. Other commands
	// hold it only while the store opens.
	mutate bool
}

// openStore opens the database under the operation lock, so schema
// migrations and the admin seed never run concurrently with another command.
// The lock is returned held when keepLock is set and released otherwise.
func openStore(ctx context.Context, cfg *config.Config, keepLock bool) (*store.Store, *session.Lock, error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockWaitTimeout)
	lock, err := session.AcquireLock(lockCtx, cfg.LockPath())
	cancel()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		_ = lock.Release()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if !keepLock {
		_ = lock.Release()
		lock = nil
	}
	return st, lock, nil
}

// run opens the store, builds the booking service and invokes fn. Resources
// are released when fn returns.
func (c *commandContext) run(cmd *cobra.Command, opts runOptions, fn func(context.Context, *env) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	logger = logger.With(logging.String("command", cmd.CommandPath()))

	st, lock, err := openStore(ctx, cfg, opts.mutate)
	if err != nil {
		return err
	}
	defer lock.Release()
	defer st.Close()

	images := assets.New(cfg.Paths.AssetsDir)
	e := &env{
		cfg:    cfg,
		store:  st,
		images: images,
		logger: logger,
		svc:    booking.NewService(st, images, booking.PolicyFromConfig(cfg), logger),
	}
	return fn(ctx, e)
}

// actor returns the logged-in user, refreshed from the store so a deleted
// account or a changed admin flag takes effect immediately.
func (e *env) actor(ctx context.Context) (*store.User, error) {
	sess, err := session.Load(e.cfg.SessionPath())
	if err != nil {
		return nil, err
	}
	user, err := e.store.GetUser(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		_, _ = session.Clear(e.cfg.SessionPath())
		return nil, session.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	e.logger = logging.WithSessionID(e.logger, sess.ID)
	e.svc = booking.NewService(e.store, e.images, booking.PolicyFromConfig(e.cfg), e.logger)
	return user, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
