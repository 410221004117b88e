package redis

import "time"

// Config holds connection settings. Compose it with an env prefix, e.g. `envPrefix:"REDIS_"`.
type Config struct {
	URL            string        `env:"URL"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"KEY_PREFIX" envDefault:"taskflask:"`
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool { return c.URL != "" }
