package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress           string        `env:"RUN_ADDRESS"`
	DatabaseDSN          string        `env:"DATABASE_URI"`
	MigrationsDir        string        `env:"MIGRATIONS_DIR"`
	JWTUserSecret        string        `env:"JWT_USER_SECRET"`
	DepositPendingTTL    time.Duration `env:"DEPOSIT_PENDING_TTL"    envDefault:"24h"`
	DepositSweepInterval time.Duration `env:"DEPOSIT_SWEEP_INTERVAL" envDefault:"1m"`
}

func LoadConfig() (*Config, error) {
	// .env не обязателен, в контейнерах конфигурация приходит из окружения.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTUserSecret, "j", "", "JWT signing secret")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:           defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:          defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:        defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:        defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		DepositPendingTTL:    envConfig.DepositPendingTTL,
		DepositSweepInterval: envConfig.DepositSweepInterval,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
