package config

import (
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:          8080,
		JWTSecret:           "0123456789abcdef0123",
		StoreTimeoutSeconds: 5,
		TopGamesMaxLimit:    100,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	testCases := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "invalid port", mutate: func(c *Config) { c.ServerPort = 0 }, wantError: true},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantError: true},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantError: true},
		{
			name: "cache address without port",
			mutate: func(c *Config) {
				c.DatabaseCacheAddress = "localhost"
				c.DatabaseCachePort = 0
			},
			wantError: true,
		},
		{
			name: "cache address with port",
			mutate: func(c *Config) {
				c.DatabaseCacheAddress = "localhost"
				c.DatabaseCachePort = 6379
			},
		},
		{name: "zero store timeout", mutate: func(c *Config) { c.StoreTimeoutSeconds = 0 }, wantError: true},
		{name: "zero top games limit", mutate: func(c *Config) { c.TopGamesMaxLimit = 0 }, wantError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)

			err := validateConfig(c, log)
			if tc.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDurations(t *testing.T) {
	c := Config{}
	assert.Equal(t, 5*time.Second, c.StoreTimeout())
	assert.Equal(t, 24*365*time.Hour, c.JWTExpiry())
	assert.False(t, c.CacheEnabled())

	c.StoreTimeoutSeconds = 2
	c.JWTExpiryHours = 1
	c.DatabaseCacheAddress = "valkey"
	assert.Equal(t, 2*time.Second, c.StoreTimeout())
	assert.Equal(t, time.Hour, c.JWTExpiry())
	assert.True(t, c.CacheEnabled())
}
