package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/spf13/viper"
)

// ErrMissingSessionSecret is returned when SESSION_SECRET is not configured
var ErrMissingSessionSecret = errors.New("config: SESSION_SECRET is required")

// InitConfig loads configuration from the environment. When APP_ENV is local,
// variables are first loaded from the .env file at configPath.
func InitConfig(configPath string) (*models.Config, error) {
	v := newViper()
	if v.GetString("APP_ENV") == "local" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return Load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "intranet-notify")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_VERSION", "dev")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8090)
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)

	v.SetDefault("DB_DRIVER", "mongo")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "intranet")
	v.SetDefault("MONGO_USER_COLLECTION", "users")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("CACHE_DRIVER", "memory")
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_ENABLED", false)

	v.SetDefault("JWT_ISSUER", "intranet")

	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_MAX_AGE", "336h")
	v.SetDefault("SESSION_ALLOW_UNVERIFIED", true)

	v.SetDefault("WS_WRITE_WAIT", "10s")
	v.SetDefault("WS_PONG_WAIT", "60s")
	v.SetDefault("WS_PING_PERIOD", "54s")
	v.SetDefault("WS_MAX_MESSAGE_SIZE", 4096)

	v.SetDefault("NEW_RELIC_ENABLED", false)
	v.SetDefault("NEW_RELIC_APP_NAME", "intranet-notify")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_TYPE", "stdout")
}

// Load builds the typed configuration from v
func Load(v *viper.Viper) (*models.Config, error) {
	configs := &models.Config{}

	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	configs.Mongo.URI = v.GetString("MONGO_URI")
	configs.Mongo.Database = v.GetString("MONGO_DATABASE")
	configs.Mongo.UserCollection = v.GetString("MONGO_USER_COLLECTION")

	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	configs.Cache.Driver = v.GetString("CACHE_DRIVER")
	configs.Cache.TTL = v.GetDuration("CACHE_TTL")

	configs.NATS.URL = v.GetString("NATS_URL")
	configs.NATS.Enabled = v.GetBool("NATS_ENABLED")

	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	configs.Session.Secret = v.GetString("SESSION_SECRET")
	configs.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	configs.Session.MaxAge = v.GetDuration("SESSION_MAX_AGE")
	configs.Session.AllowUnverified = v.GetBool("SESSION_ALLOW_UNVERIFIED")

	configs.WebSocket.WriteWait = v.GetDuration("WS_WRITE_WAIT")
	configs.WebSocket.PongWait = v.GetDuration("WS_PONG_WAIT")
	configs.WebSocket.PingPeriod = v.GetDuration("WS_PING_PERIOD")
	configs.WebSocket.MaxMessageSize = v.GetInt64("WS_MAX_MESSAGE_SIZE")
	configs.WebSocket.AllowedOrigins = splitList(v.GetString("WS_ALLOWED_ORIGINS"))

	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.LogsEnabled = v.GetBool("NEW_RELIC_LOGS_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.Type = v.GetString("LOG_TYPE")

	if err := validate(configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func validate(configs *models.Config) error {
	if configs.Session.Secret == "" {
		return ErrMissingSessionSecret
	}
	// pings must be sent before the peer's read deadline expires
	if configs.WebSocket.PongWait > 0 && configs.WebSocket.PingPeriod >= configs.WebSocket.PongWait {
		configs.WebSocket.PingPeriod = configs.WebSocket.PongWait * 9 / 10
	}
	if configs.Cache.TTL <= 0 {
		configs.Cache.TTL = time.Minute
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
