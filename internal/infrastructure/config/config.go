package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
// It is built once at startup and never modified afterwards.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Zendesk ZendeskConfig `mapstructure:"zendesk"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"` // 0 disables the timeout middleware
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ZendeskConfig holds Zendesk API settings.
type ZendeskConfig struct {
	Email          string        `mapstructure:"email"`
	APIToken       string        `mapstructure:"api_token"`
	Domain         string        `mapstructure:"domain"`   // e.g. acme.zendesk.com
	BaseURL        string        `mapstructure:"base_url"` // overrides https://{domain}
	Timeout        time.Duration `mapstructure:"timeout"`
	HealthCacheTTL time.Duration `mapstructure:"health_cache_ttl"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig holds circuit breaker settings for Zendesk calls.
// MaxFailures of zero disables the breaker.
type BreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}

// Enabled reports whether the breaker should wrap Zendesk calls.
func (b BreakerConfig) Enabled() bool {
	return b.MaxFailures > 0
}

// SlackConfig holds Slack incoming-webhook settings.
type SlackConfig struct {
	WebhookURL   string        `mapstructure:"webhook_url"`
	StrictStatus bool          `mapstructure:"strict_status"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DisplayConfig holds message rendering settings.
type DisplayConfig struct {
	Timezone           string `mapstructure:"timezone"`
	ConversationHeader string `mapstructure:"conversation_header"`
	LinkTicket         bool   `mapstructure:"link_ticket"`
	MarkAuthorRoles    bool   `mapstructure:"mark_author_roles"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys to environment variables. When several names
// are listed the first one set wins.
var envBindings = map[string][]string{
	"server.port":             {"SERVER_PORT", "PORT"},
	"server.read_timeout":     {"SERVER_READ_TIMEOUT"},
	"server.write_timeout":    {"SERVER_WRITE_TIMEOUT"},
	"server.request_timeout":  {"SERVER_REQUEST_TIMEOUT"},
	"server.shutdown_timeout": {"SERVER_SHUTDOWN_TIMEOUT"},

	"zendesk.email":            {"ZENDESK_EMAIL"},
	"zendesk.api_token":        {"ZENDESK_TOKEN", "ZENDESK_API_TOKEN"},
	"zendesk.domain":           {"ZENDESK_DOMAIN"},
	"zendesk.base_url":         {"ZENDESK_BASE_URL"},
	"zendesk.timeout":          {"ZENDESK_TIMEOUT"},
	"zendesk.health_cache_ttl": {"ZENDESK_HEALTH_CACHE_TTL"},

	"zendesk.breaker.max_failures": {"ZENDESK_BREAKER_MAX_FAILURES"},
	"zendesk.breaker.cooldown":     {"ZENDESK_BREAKER_COOLDOWN"},

	"slack.webhook_url":   {"SLACK_WEBHOOK_URL"},
	"slack.strict_status": {"SLACK_STRICT_STATUS"},
	"slack.timeout":       {"SLACK_TIMEOUT"},

	"display.timezone":            {"DISPLAY_TIMEZONE"},
	"display.conversation_header": {"DISPLAY_CONVERSATION_HEADER"},
	"display.link_ticket":         {"DISPLAY_LINK_TICKET"},
	"display.mark_author_roles":   {"DISPLAY_MARK_AUTHOR_ROLES"},

	"logging.level":  {"LOG_LEVEL"},
	"logging.format": {"LOG_FORMAT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", time.Duration(0))
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("zendesk.timeout", time.Duration(0))
	v.SetDefault("zendesk.health_cache_ttl", 30*time.Second)
	v.SetDefault("zendesk.breaker.max_failures", 0)
	v.SetDefault("zendesk.breaker.cooldown", 30*time.Second)

	v.SetDefault("slack.strict_status", false)
	v.SetDefault("slack.timeout", time.Duration(0))

	v.SetDefault("display.timezone", "Asia/Jakarta")
	v.SetDefault("display.conversation_header", "Percakapan Tiket")
	v.SetDefault("display.link_ticket", true)
	v.SetDefault("display.mark_author_roles", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads configuration from a .env file, the YAML file at path and the
// environment, in increasing order of precedence.
// A missing .env or config file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			expanded := os.ExpandEnv(string(data))
			if err := v.ReadConfig(strings.NewReader(expanded)); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Zendesk.Domain = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(c.Zendesk.Domain), "https://"), "/")
	c.Zendesk.BaseURL = strings.TrimRight(strings.TrimSpace(c.Zendesk.BaseURL), "/")
	c.Slack.WebhookURL = strings.TrimSpace(c.Slack.WebhookURL)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// Location returns the display timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
