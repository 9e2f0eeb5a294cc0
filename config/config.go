package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours       int    `mapstructure:"JWT_EXPIRY_HOURS"`
	CookieSecure         bool   `mapstructure:"COOKIE_SECURE"`
	StoreTimeoutSeconds  int    `mapstructure:"STORE_TIMEOUT_SECONDS"`
	TopGamesMaxLimit     int    `mapstructure:"TOP_GAMES_MAX_LIMIT"`
	LoginRatePerMinute   int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	AdminUsername        string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail           string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword        string `mapstructure:"ADMIN_PASSWORD"`
}

const (
	MinJWTSecretLength = 16
)

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_EXPIRY_HOURS", "COOKIE_SECURE",
	"STORE_TIMEOUT_SECONDS", "TOP_GAMES_MAX_LIMIT", "LOGIN_RATE_PER_MINUTE",
	"SCHEDULER_ENABLED",
	"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "production")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24*365)
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("STORE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("TOP_GAMES_MAX_LIMIT", 100)
	viper.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	viper.SetDefault("SCHEDULER_ENABLED", false)
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	setDefaults()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("DB_HOST") && viper.IsSet("JWT_SECRET")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"cacheEnabled", config.CacheEnabled(),
	)
	ConfigInstance = config
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if len(config.JWTSecret) < MinJWTSecretLength {
		return log.Error(
			"Fatal error: JWT_SECRET is missing or too short",
			"minLength", MinJWTSecretLength,
		)
	}

	if config.DatabaseCacheAddress != "" && config.DatabaseCachePort <= 0 {
		return log.Error(
			"Fatal error: DB_CACHE_PORT required when DB_CACHE_ADDRESS is set",
			"address", config.DatabaseCacheAddress,
		)
	}

	if config.StoreTimeoutSeconds <= 0 {
		return log.Error("Fatal error: invalid store timeout", "seconds", config.StoreTimeoutSeconds)
	}

	if config.TopGamesMaxLimit <= 0 {
		return log.Error("Fatal error: invalid top games max limit", "limit", config.TopGamesMaxLimit)
	}

	return nil
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) StoreTimeout() time.Duration {
	if c.StoreTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

func (c Config) JWTExpiry() time.Duration {
	if c.JWTExpiryHours <= 0 {
		return 24 * 365 * time.Hour
	}
	return time.Duration(c.JWTExpiryHours) * time.Hour
}
