package redisresource

import "time"

type Config struct {
	ConnectionURL  string        `env:"RESCACHE_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL has the form "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"RESCACHE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"RESCACHE_REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"RESCACHE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds all connection attempts together.
	KeyPrefix      string        `env:"RESCACHE_REDIS_KEY_PREFIX"`                                         // KeyPrefix is prepended to every redis key read by models.
}
