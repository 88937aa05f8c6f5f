package constants

import "time"

const (
	DefaultHTTPTimeout    = 10 * time.Second
	DefaultSendTimeout    = 10 * time.Second
	DefaultLocateTimeout  = 15 * time.Second
	DefaultSampleInterval = 3 * time.Minute
	DefaultRetention      = 30 * time.Minute
)

const (
	DefaultRateLimitWindow = 60 * time.Second
	DefaultRateLimitQuota  = 20
)

const (
	DefaultMaxMessageLength = 5000
	DefaultMinRecipients    = 1
)

const (
	ChannelAPI  = "api"
	ChannelSMTP = "smtp"
	ChannelSMS  = "sms"
	ChannelPush = "push"
)

const (
	DefaultAPIURL     = "https://api.sendgrid.com/v3/mail/send"
	DefaultSMTPHost   = "smtp-relay.brevo.com"
	DefaultSMTPPort   = 587
	DefaultSMSBaseURL = "https://api.twilio.com"
)

const (
	AlertSubject = "\U0001F6A8 SOS Alert - Emergency Location Update"
	MapsLinkBase = "https://maps.google.com/?q="
)

const (
	KafkaBatchTimeout    = 10 * time.Millisecond
	KafkaWriteTimeout    = 10 * time.Second
	DefaultDispatchTopic = "sos_dispatches"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)
