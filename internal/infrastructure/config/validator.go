package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateLogLevel checks if the log level is valid.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// ValidateLogFormat checks if the log format is valid.
func ValidateLogFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return nil
}

// ValidateNonEmpty checks if a string is non-empty.
func ValidateNonEmpty(value string, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDuration checks if a duration is greater than zero.
func ValidateDuration(duration time.Duration, fieldName string) error {
	if duration <= 0 {
		return fmt.Errorf("%s must be greater than 0", fieldName)
	}
	return nil
}

// ValidateOptionalDuration checks if a duration is zero (disabled) or positive.
func ValidateOptionalDuration(duration time.Duration, fieldName string) error {
	if duration < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

// ValidatePort checks if a port number is valid.
func ValidatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}

// ValidateHTTPURL checks if value is an absolute http or https URL.
func ValidateHTTPURL(value string, fieldName string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", fieldName, value)
	}
	return nil
}

// ValidateTimezone checks if name is a loadable IANA timezone.
func ValidateTimezone(name string, fieldName string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%s: unknown timezone %q", fieldName, name)
	}
	return nil
}

// Validate performs comprehensive validation on the configuration.
// Returns an error listing every failed check.
func (c *Config) Validate() error {
	var errors []string
	check := func(err error) {
		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	// Server validation
	check(ValidatePort(c.Server.Port, "server.port"))
	check(ValidateDuration(c.Server.ReadTimeout, "server.read_timeout"))
	check(ValidateDuration(c.Server.WriteTimeout, "server.write_timeout"))
	check(ValidateDuration(c.Server.ShutdownTimeout, "server.shutdown_timeout"))
	check(ValidateOptionalDuration(c.Server.RequestTimeout, "server.request_timeout"))

	// Logical constraint: RequestTimeout should be less than WriteTimeout
	if c.Server.RequestTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		errors = append(errors, "server.request_timeout must be less than server.write_timeout")
	}

	// Zendesk validation
	check(ValidateNonEmpty(c.Zendesk.Domain, "zendesk.domain"))
	check(ValidateNonEmpty(c.Zendesk.Email, "zendesk.email"))
	check(ValidateNonEmpty(c.Zendesk.APIToken, "zendesk.api_token"))
	if c.Zendesk.BaseURL != "" {
		check(ValidateHTTPURL(c.Zendesk.BaseURL, "zendesk.base_url"))
	}
	check(ValidateOptionalDuration(c.Zendesk.Timeout, "zendesk.timeout"))
	check(ValidateOptionalDuration(c.Zendesk.HealthCacheTTL, "zendesk.health_cache_ttl"))
	if c.Zendesk.Breaker.MaxFailures < 0 {
		errors = append(errors, "zendesk.breaker.max_failures must not be negative")
	}
	if c.Zendesk.Breaker.Enabled() {
		check(ValidateDuration(c.Zendesk.Breaker.Cooldown, "zendesk.breaker.cooldown"))
	}

	// Slack validation
	if err := ValidateNonEmpty(c.Slack.WebhookURL, "slack.webhook_url"); err != nil {
		check(err)
	} else {
		check(ValidateHTTPURL(c.Slack.WebhookURL, "slack.webhook_url"))
	}
	check(ValidateOptionalDuration(c.Slack.Timeout, "slack.timeout"))

	// Display validation
	check(ValidateTimezone(c.Display.Timezone, "display.timezone"))
	check(ValidateNonEmpty(c.Display.ConversationHeader, "display.conversation_header"))

	// Logging validation
	check(ValidateLogLevel(c.Logging.Level))
	check(ValidateLogFormat(c.Logging.Format))

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", joinErrors(errors))
	}

	return nil
}

// joinErrors joins multiple error messages with newlines and bullets.
func joinErrors(errors []string) string {
	return strings.Join(errors, "\n  - ")
}
