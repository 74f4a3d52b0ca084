package homesearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Store drivers.
const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverValkey = "valkey"
	driverSQLite = "sqlite"
)

type clientConfig struct {
	driver     string
	addrs      []string
	password   string
	sqlitePath string
	keyPrefix  string

	session SessionProvider

	cacheTTL        time.Duration
	cacheMaxEntries int
	timeout         time.Duration
	poolSize        int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps records in process memory. This is the default.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithValkey stores records in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores records in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores records in a single SQLite file, created if missing.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.sqlitePath = path
	})
}

// WithKeyPrefix namespaces record keys. Default: "homesearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSession sets how the current user is resolved.
// Without it, only users attached with ContextWithUser are recognized.
func WithSession(p SessionProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.session = p
	})
}

// WithUser makes every call act as the given user unless the context names another one.
func WithUser(id, displayName string) Option {
	return WithSession(staticSession{user: User{ID: id, DisplayName: displayName}})
}

// WithCacheTTL sets how long a search result stays cached. Default: 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithCacheSize sets the maximum number of cached results. Default: 50.
func WithCacheSize(entries int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheMaxEntries = entries
	})
}

// WithTimeout sets the overall search budget. Default: 30 seconds.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithPoolSize sets the number of source-query workers. Default: 32.
func WithPoolSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.poolSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK and engine metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
