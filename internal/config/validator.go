package config

import (
	"fmt"

	"safegenie/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateValidation(cfg.Validation); err != nil {
		errors = append(errors, err)
	}

	if err := validateChannels(cfg.Channels); err != nil {
		errors = append(errors, err)
	}

	if err := validateRateLimit(cfg.RateLimit); err != nil {
		errors = append(errors, err)
	}

	if err := validateTracker(cfg.Tracker); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateValidation(cfg ValidationConfig) error {
	if cfg.MaxMessageLength < 1 {
		return &ValidationError{
			Field:   "validation.max_message_length",
			Message: "max message length must be positive",
		}
	}

	if cfg.MinRecipients < 1 {
		return &ValidationError{
			Field:   "validation.min_recipients",
			Message: "minimum recipient count must be at least 1",
		}
	}

	return nil
}

func validateChannels(cfg ChannelsConfig) error {
	if cfg.SendTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "channels.send_timeout_seconds",
			Message: "per-channel send timeout must be positive",
		}
	}

	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return &ValidationError{
			Field:   "channels.smtp.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.SMTP.Port),
		}
	}

	return nil
}

func validateRateLimit(cfg RateLimitConfig) error {
	if cfg.WindowSeconds <= 0 {
		return &ValidationError{
			Field:   "ratelimit.window_seconds",
			Message: "window must be positive",
		}
	}

	if cfg.Quota <= 0 {
		return &ValidationError{
			Field:   "ratelimit.quota",
			Message: "quota must be positive",
		}
	}

	switch cfg.Store {
	case constants.RateLimitStoreMemory, constants.RateLimitStoreRedis:
	default:
		return &ValidationError{
			Field:   "ratelimit.store",
			Message: fmt.Sprintf("unknown store: %s (supported: memory, redis)", cfg.Store),
		}
	}

	return nil
}

func validateTracker(cfg TrackerConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.SampleIntervalSeconds <= 0 {
		return &ValidationError{
			Field:   "tracker.sample_interval_seconds",
			Message: "sample interval must be positive",
		}
	}

	if cfg.RetentionWindowSeconds <= 0 {
		return &ValidationError{
			Field:   "tracker.retention_window_seconds",
			Message: "retention window must be positive",
		}
	}

	if cfg.ProviderURL == "" {
		return &ValidationError{
			Field:   "tracker.provider_url",
			Message: "geolocation provider URL is required when the tracker is enabled",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	if cfg.Type == "" {
		return nil // broker is optional
	}

	switch cfg.Type {
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return &ValidationError{
				Field:   "broker.kafka.brokers",
				Message: "at least one Kafka broker is required",
			}
		}
		for i, broker := range cfg.Kafka.Brokers {
			if broker == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
					Message: "broker address cannot be empty",
				}
			}
		}
		return nil
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka)", cfg.Type),
		}
	}
}
