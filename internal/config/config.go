package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Validation     ValidationConfig
	Channels       ChannelsConfig
	RateLimit      RateLimitConfig
	Tracker        TrackerConfig
	Database       DatabaseConfig
	Broker         BrokerConfig
	Reporting      ReportingConfig
	CircuitBreaker CircuitBreakerConfig
}

type ServerConfig struct {
	Port                int `mapstructure:"port"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ValidationConfig struct {
	MaxMessageLength int `mapstructure:"max_message_length"`
	MinRecipients    int `mapstructure:"min_recipients"`
}

type ChannelsConfig struct {
	SendTimeoutSeconds int  `mapstructure:"send_timeout_seconds"`
	DryRun             bool `mapstructure:"dry_run"`

	API  APIChannelConfig  `mapstructure:"api"`
	SMTP SMTPChannelConfig `mapstructure:"smtp"`
	SMS  SMSChannelConfig  `mapstructure:"sms"`
	Push PushChannelConfig `mapstructure:"push"`
}

type APIChannelConfig struct {
	Key      string `mapstructure:"key"`
	URL      string `mapstructure:"url"`
	From     string `mapstructure:"from"`
	Priority int    `mapstructure:"priority"`
}

type SMTPChannelConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Priority int    `mapstructure:"priority"`
}

type SMSChannelConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	BaseURL    string `mapstructure:"base_url"`
	Priority   int    `mapstructure:"priority"`
}

type PushChannelConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
	Priority        int    `mapstructure:"priority"`
}

type RateLimitConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	WindowSeconds          int    `mapstructure:"window_seconds"`
	Quota                  int64  `mapstructure:"quota"`
	Store                  string `mapstructure:"store"`
	CleanupIntervalSeconds int    `mapstructure:"cleanup_interval_seconds"`
	MaxAgeSeconds          int    `mapstructure:"max_age_seconds"`
}

type TrackerConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	SampleIntervalSeconds  int    `mapstructure:"sample_interval_seconds"`
	RetentionWindowSeconds int    `mapstructure:"retention_window_seconds"`
	LocateTimeoutSeconds   int    `mapstructure:"locate_timeout_seconds"`
	ProviderURL            string `mapstructure:"provider_url"`
}

type DatabaseConfig struct {
	Postgres       PostgresConfig `mapstructure:"postgres"`
	Redis          RedisConfig    `mapstructure:"redis"`
	RunMigrations  bool           `mapstructure:"run_migrations"`
	MigrationsPath string         `mapstructure:"migrations_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers       []string    `mapstructure:"brokers"`
	DispatchTopic string      `mapstructure:"dispatch_topic"`
	Retry         RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type ReportingConfig struct {
	WebhookURL     string `mapstructure:"webhook_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
