package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Cache     CacheConfig
	NATS      NATSConfig
	JWT       JWTConfig
	Session   SessionConfig
	WebSocket WebSocketConfig
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig selects the user store and holds the PostgreSQL settings.
// Driver is either "mongo" or "postgres".
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// MongoConfig contains MongoDB connection configuration
type MongoConfig struct {
	URI            string
	Database       string
	UserCollection string
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// CacheConfig configures the user lookup cache. Driver is "redis", "memory" or "none".
type CacheConfig struct {
	Driver string
	TTL    time.Duration
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// JWTConfig contains the secret used to verify service tokens on the publish API
type JWTConfig struct {
	Secret string
	Issuer string
}

// SessionConfig describes how session cookies issued by the intranet web layer are read
type SessionConfig struct {
	Secret          string
	CookieName      string
	MaxAge          time.Duration
	AllowUnverified bool
}

// WebSocketConfig contains connection tuning for the /ws endpoint
type WebSocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	AllowedOrigins []string
}

// NewRelicConfig contains New Relic APM configuration
type NewRelicConfig struct {
	Enabled     bool
	LicenseKey  string
	AppName     string
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Type     string
}
