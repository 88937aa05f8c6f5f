package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"safegenie/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Credentials are bound but must never be logged anywhere downstream.
func bindEnvVariables() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("channels.dry_run", "CHANNELS_DRY_RUN")
	viper.BindEnv("channels.api.key", "CHANNELS_API_KEY")
	viper.BindEnv("channels.api.from", "CHANNELS_API_FROM")
	viper.BindEnv("channels.smtp.host", "CHANNELS_SMTP_HOST")
	viper.BindEnv("channels.smtp.port", "CHANNELS_SMTP_PORT")
	viper.BindEnv("channels.smtp.user", "CHANNELS_SMTP_USER")
	viper.BindEnv("channels.smtp.password", "CHANNELS_SMTP_PASSWORD")
	viper.BindEnv("channels.smtp.from", "CHANNELS_SMTP_FROM")
	viper.BindEnv("channels.sms.account_sid", "CHANNELS_SMS_ACCOUNT_SID")
	viper.BindEnv("channels.sms.auth_token", "CHANNELS_SMS_AUTH_TOKEN")
	viper.BindEnv("channels.sms.from_number", "CHANNELS_SMS_FROM_NUMBER")
	viper.BindEnv("channels.push.credentials_file", "CHANNELS_PUSH_CREDENTIALS_FILE")
	viper.BindEnv("channels.push.project_id", "CHANNELS_PUSH_PROJECT_ID")

	viper.BindEnv("ratelimit.window_seconds", "RATELIMIT_WINDOW_SECONDS")
	viper.BindEnv("ratelimit.quota", "RATELIMIT_QUOTA")

	viper.BindEnv("tracker.sample_interval_seconds", "TRACKER_SAMPLE_INTERVAL_SECONDS")
	viper.BindEnv("tracker.retention_window_seconds", "TRACKER_RETENTION_WINDOW_SECONDS")
	viper.BindEnv("tracker.provider_url", "TRACKER_PROVIDER_URL")

	viper.BindEnv("database.postgres.host", "DATABASE_POSTGRES_HOST")
	viper.BindEnv("database.postgres.port", "DATABASE_POSTGRES_PORT")
	viper.BindEnv("database.postgres.user", "DATABASE_POSTGRES_USER")
	viper.BindEnv("database.postgres.password", "DATABASE_POSTGRES_PASSWORD")
	viper.BindEnv("database.postgres.dbname", "DATABASE_POSTGRES_DBNAME")
	viper.BindEnv("database.postgres.sslmode", "DATABASE_POSTGRES_SSLMODE")

	viper.BindEnv("database.redis.host", "DATABASE_REDIS_HOST")
	viper.BindEnv("database.redis.port", "DATABASE_REDIS_PORT")
	viper.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")
	viper.BindEnv("database.redis.db", "DATABASE_REDIS_DB")

	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.dispatch_topic", "BROKER_KAFKA_DISPATCH_TOPIC")

	viper.BindEnv("reporting.webhook_url", "REPORTING_WEBHOOK_URL")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 30
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}

	if cfg.Validation.MaxMessageLength == 0 {
		cfg.Validation.MaxMessageLength = constants.DefaultMaxMessageLength
	}
	if cfg.Validation.MinRecipients == 0 {
		cfg.Validation.MinRecipients = constants.DefaultMinRecipients
	}

	if cfg.Channels.SendTimeoutSeconds == 0 {
		cfg.Channels.SendTimeoutSeconds = int(constants.DefaultSendTimeout.Seconds())
	}
	if cfg.Channels.API.URL == "" {
		cfg.Channels.API.URL = constants.DefaultAPIURL
	}
	if cfg.Channels.SMTP.Host == "" {
		cfg.Channels.SMTP.Host = constants.DefaultSMTPHost
	}
	if cfg.Channels.SMTP.Port == 0 {
		cfg.Channels.SMTP.Port = constants.DefaultSMTPPort
	}
	if cfg.Channels.SMS.BaseURL == "" {
		cfg.Channels.SMS.BaseURL = constants.DefaultSMSBaseURL
	}

	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = int(constants.DefaultRateLimitWindow.Seconds())
	}
	if cfg.RateLimit.Quota == 0 {
		cfg.RateLimit.Quota = constants.DefaultRateLimitQuota
	}
	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = constants.RateLimitStoreMemory
	}
	if cfg.RateLimit.CleanupIntervalSeconds == 0 {
		cfg.RateLimit.CleanupIntervalSeconds = 300
	}
	if cfg.RateLimit.MaxAgeSeconds == 0 {
		cfg.RateLimit.MaxAgeSeconds = 600
	}

	if cfg.Tracker.SampleIntervalSeconds == 0 {
		cfg.Tracker.SampleIntervalSeconds = int(constants.DefaultSampleInterval.Seconds())
	}
	if cfg.Tracker.RetentionWindowSeconds == 0 {
		cfg.Tracker.RetentionWindowSeconds = int(constants.DefaultRetention.Seconds())
	}
	if cfg.Tracker.LocateTimeoutSeconds == 0 {
		cfg.Tracker.LocateTimeoutSeconds = int(constants.DefaultLocateTimeout.Seconds())
	}

	if cfg.Broker.Kafka.DispatchTopic == "" {
		cfg.Broker.Kafka.DispatchTopic = constants.DefaultDispatchTopic
	}

	if cfg.Reporting.TimeoutSeconds == 0 {
		cfg.Reporting.TimeoutSeconds = 5
	}
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("BROKER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}

	return nil
}
