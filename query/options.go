package query

import (
	"time"

	"github.com/agentuity/resource-console/logger"
)

// DefaultGCTime is how long an unobserved entry survives without access.
const DefaultGCTime = 5 * time.Minute

type config struct {
	staleTime     time.Duration
	gcTime        time.Duration
	sweepInterval time.Duration
	logger        logger.Logger
	now           func() time.Time
}

// Option configures a Store.
type Option func(*config)

// WithStaleTime sets how long fetched data counts as fresh. Zero keeps data
// fresh until it is invalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *config) {
		c.staleTime = d
	}
}

// WithGCTime sets how long an entry with no observers is kept after its last
// access. Zero or negative uses DefaultGCTime.
func WithGCTime(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.gcTime = d
		}
	}
}

// WithSweepInterval sets how often the garbage collector runs.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *config) {
		c.logger = log
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		gcTime: DefaultGCTime,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sweepInterval == 0 {
		cfg.sweepInterval = min(time.Minute, cfg.gcTime)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewConsoleLogger(logger.LevelError)
	}
	return cfg
}
