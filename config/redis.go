package config

import "strings"

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	URI       string `env:"URI"        envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"   envDefault:""`
	DB        int    `env:"DB"         envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"chat:session:"`
}

// Sanitize trims the address and restores the key prefix.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.URI == "" {
		c.URI = "localhost:6379"
	}
	if c.DB < 0 {
		c.DB = 0
	}
	if strings.TrimSpace(c.KeyPrefix) == "" {
		c.KeyPrefix = "chat:session:"
	}
}
