package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/raidtracker/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                    string `env:"ENV" envDefault:"production"`
	DiscordToken           string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID         string `env:"DISCORD_GUILD_ID,required"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	RedisURL               string `env:"REDIS_URL"`
	SessionTTLSec          int    `env:"SESSION_TTL_SEC" envDefault:"300"`
	RaidResetTimezone      string `env:"RAID_RESET_TIMEZONE" envDefault:"UTC"`
	RaidResetHour          int    `env:"RAID_RESET_HOUR" envDefault:"5"`
	DetectionMessageTTLSec int    `env:"DETECTION_MESSAGE_TTL_SEC" envDefault:"300"`
	RegistryCacheTTLSec    int    `env:"REGISTRY_CACHE_TTL_SEC" envDefault:"86400"`
	AIAPIURL               string `env:"AI_API_URL"`
	AIAPIKey               string `env:"AI_API_KEY"`
	AIModel                string `env:"AI_MODEL" envDefault:"claude-opus-4-5-20251101"`
	AIRequestsPerMinute    int    `env:"AI_REQUESTS_PER_MINUTE" envDefault:"20"`
	DefaultLocale          string `env:"DEFAULT_LOCALE" envDefault:"en-US"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                    raw.Env,
		DiscordToken:           raw.DiscordToken,
		DiscordGuildID:         raw.DiscordGuildID,
		DatabaseURL:            raw.DatabaseURL,
		RedisURL:               raw.RedisURL,
		SessionTTLSec:          raw.SessionTTLSec,
		RaidResetTimezone:      raw.RaidResetTimezone,
		RaidResetHour:          raw.RaidResetHour,
		DetectionMessageTTLSec: raw.DetectionMessageTTLSec,
		RegistryCacheTTLSec:    raw.RegistryCacheTTLSec,
		AIAPIURL:               raw.AIAPIURL,
		AIAPIKey:               raw.AIAPIKey,
		AIModel:                raw.AIModel,
		AIRequestsPerMinute:    raw.AIRequestsPerMinute,
		DefaultLocale:          raw.DefaultLocale,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
