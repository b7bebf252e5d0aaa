package config

import (
	"fmt"
	"time"
)

var supportedLocales = []string{"en-US", "zh-TW"}

type Config struct {
	Env                    string
	DiscordToken           string
	DiscordGuildID         string
	DatabaseURL            string
	RedisURL               string
	SessionTTLSec          int
	RaidResetTimezone      string
	RaidResetHour          int
	DetectionMessageTTLSec int
	RegistryCacheTTLSec    int
	AIAPIURL               string
	AIAPIKey               string
	AIModel                string
	AIRequestsPerMinute    int
	DefaultLocale          string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	for _, p := range c.positiveFieldChecks() {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.RaidResetHour < 0 || c.RaidResetHour > 23 {
		return fmt.Errorf("RAID_RESET_HOUR must be within 0-23, got %d", c.RaidResetHour)
	}
	if c.RaidResetTimezone == "" {
		return fmt.Errorf("RAID_RESET_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.RaidResetTimezone); err != nil {
		return fmt.Errorf("RAID_RESET_TIMEZONE is invalid: %w", err)
	}
	if (c.AIAPIURL == "") != (c.AIAPIKey == "") {
		return fmt.Errorf("AI_API_URL and AI_API_KEY must be set together")
	}
	if !IsSupportedLocale(c.DefaultLocale) {
		return fmt.Errorf("DEFAULT_LOCALE %q is not supported", c.DefaultLocale)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "DATABASE_URL", value: c.DatabaseURL},
	}
}

type positiveEnvField struct {
	name  string
	value int
}

func (c *Config) positiveFieldChecks() []positiveEnvField {
	return []positiveEnvField{
		{name: "SESSION_TTL_SEC", value: c.SessionTTLSec},
		{name: "DETECTION_MESSAGE_TTL_SEC", value: c.DetectionMessageTTLSec},
		{name: "REGISTRY_CACHE_TTL_SEC", value: c.RegistryCacheTTLSec},
		{name: "AI_REQUESTS_PER_MINUTE", value: c.AIRequestsPerMinute},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) VisionEnabled() bool {
	return c.AIAPIURL != "" && c.AIAPIKey != ""
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

func (c *Config) DetectionMessageTTL() time.Duration {
	return time.Duration(c.DetectionMessageTTLSec) * time.Second
}

func (c *Config) RegistryCacheTTL() time.Duration {
	return time.Duration(c.RegistryCacheTTLSec) * time.Second
}

func IsSupportedLocale(locale string) bool {
	for _, l := range supportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}
