package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Snomn123/Whatsapp-layout/pkg/database"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
	"github.com/Snomn123/Whatsapp-layout/pkg/storage"
)

type Config struct {
	Server    ServerConfig
	Database  database.Config
	WebSocket WebSocketConfig
	Presence  PresenceConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type PresenceConfig struct {
	// IdleThreshold separates "online" from "idle" by last-activity age.
	IdleThreshold time.Duration `mapstructure:"idle_threshold"`
	// SweepInterval is how often the monitor re-broadcasts presence state.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
	Issuer   string
}

type StorageConfig struct {
	Driver string // local, s3
	Local  storage.LocalConfig
	S3     storage.S3Config
}

// Load reads configuration from ./config/config.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: rely on defaults and env vars.
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "chat.db")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 65536)
	v.SetDefault("presence.idle_threshold", "5m")
	v.SetDefault("presence.sweep_interval", "60s")
	v.SetDefault("jwt.duration", "1h")
	v.SetDefault("jwt.issuer", "whatsapp-layout")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "uploads")
	v.SetDefault("storage.local.url_prefix", "/uploads")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "chat-server")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.s3.bucket", "S3_BUCKET")
	v.BindEnv("storage.s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Viper unmarshals duration strings inconsistently across sources, so
	// parse them explicitly.
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Presence.IdleThreshold = parseDuration(v, "presence.idle_threshold", 5*time.Minute)
	cfg.Presence.SweepInterval = parseDuration(v, "presence.sweep_interval", 60*time.Second)
	cfg.JWT.Duration = parseDuration(v, "jwt.duration", time.Hour)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (set JWT_SECRET)")
	}

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}
