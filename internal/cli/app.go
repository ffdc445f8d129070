package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"college-finder/internal/cache"
	"college-finder/internal/common/config"
	"college-finder/internal/common/database"
	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/observability"
)

// app holds the per-invocation dependencies shared by every command.
type app struct {
	cfg     *config.Config
	zap     *zap.Logger
	log     logger.Logger
	errs    *apperrors.ErrorHandler
	obs     *observability.Observability
	cache   *cache.Cache
	gen     gemini.Generator
	closers []func() error
}

// userError carries the message safe to print. The cause stays reachable
// through errors.Is and errors.As.
type userError struct {
	msg   string
	cause error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.cause }

// newApp loads config and opens the cache. withModel also builds the Gemini
// client unless one was injected.
func newApp(ctx context.Context, flags *rootFlags, opts Options, withModel bool) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"app": cfg.App.Name})

	a := &app{
		cfg:  cfg,
		zap:  zapLog,
		log:  log,
		errs: apperrors.NewErrorHandler(log),
		obs:  observability.New(cfg.App.Name, log),
	}

	if err := a.openCache(ctx); err != nil {
		a.close()
		return nil, err
	}

	if withModel {
		if opts.Generator != nil {
			a.gen = opts.Generator
		} else {
			if err := config.ValidateGenAI(cfg); err != nil {
				a.close()
				return nil, err
			}
			client, err := gemini.NewClient(ctx, cfg.GenAI)
			if err != nil {
				a.close()
				return nil, err
			}
			a.gen = client
			log.Debug("genai client ready", map[string]interface{}{"model": client.Model()})
		}
	}
	return a, nil
}

func (a *app) openCache(ctx context.Context) error {
	var store cache.Store
	switch a.cfg.Cache.Backend {
	case config.CacheBackendMemory:
		store = cache.NewMemoryStore()

	case config.CacheBackendRedis:
		var rdb *database.RedisClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			rdb, err = database.NewRedis(a.cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rdb.Ping(ctx); err != nil {
				rdb.Close()
				return err
			}
			return nil
		}, 3, 500*time.Millisecond, a.log, "redis connection")
		if err != nil {
			return apperrors.NewCacheError(err)
		}
		store = cache.NewRedisStore(rdb.Client)

	default:
		db, err := database.NewSQLite(a.cfg.Cache.SQLitePath)
		if err != nil {
			return apperrors.NewCacheError(err)
		}
		a.closers = append(a.closers, db.Close)
		s, err := cache.NewSQLiteStore(ctx, db.DB)
		if err != nil {
			return apperrors.NewCacheError(err)
		}
		store = s
	}

	c := cache.New(store, a.log)
	// cache.Close runs before the sqlite handle it depends on is closed
	a.closers = append([]func() error{c.Close}, a.closers...)
	if err := c.Init(ctx); err != nil {
		return err
	}
	a.cache = c
	a.log.Debug("cache ready", map[string]interface{}{
		"backend":   a.cfg.Cache.Backend,
		"namespace": a.cfg.Cache.Namespace,
	})
	return nil
}

// fail logs err in full and returns the user-facing error.
func (a *app) fail(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &userError{msg: a.errs.Handle(operation, err), cause: err}
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("close failed", map[string]interface{}{"error": err})
		}
	}
	a.closers = nil
	a.obs.Shutdown()
	_ = a.zap.Sync()
}

// retryWithBackoff retries operation with exponential backoff until it
// succeeds, attempts run out or ctx is done.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
