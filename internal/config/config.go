package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Chat/websocket tuning
	Chat ChatConfig `json:"chat"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`  // seconds
	WriteTimeout int    `json:"write_timeout"` // seconds
	Environment  string `json:"environment"`   // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// ChatConfig tunes the live connection path.
type ChatConfig struct {
	SendBuffer   int `json:"send_buffer"`   // per-connection outbound queue
	PingInterval int `json:"ping_interval"` // seconds
	PongWait     int `json:"pong_wait"`     // seconds
	WriteWait    int `json:"write_wait"`    // seconds
	ReadLimit    int `json:"read_limit"`    // bytes
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// LoadConfig reads .env (if present) and builds the config from the
// environment with sane defaults for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system env variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:         envOr("CHAT_SERVICE_PORT", "7003"),
			Host:         envOr("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  envIntOr("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: envIntOr("SERVER_WRITE_TIMEOUT", 15),
			Environment:  envOr("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         envOr("DB_HOST", "localhost"),
			Port:         envOr("DB_PORT", "3306"),
			Username:     envOr("DB_USER", "evently"),
			Password:     envOr("DB_PASSWORD", "evently123"),
			DatabaseName: envOr("DB_NAME", "evently"),
			MaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 5),
		},
		Chat: ChatConfig{
			SendBuffer:   envIntOr("CHAT_SEND_BUFFER", 256),
			PingInterval: envIntOr("CHAT_PING_INTERVAL", 30),
			PongWait:     envIntOr("CHAT_PONG_WAIT", 60),
			WriteWait:    envIntOr("CHAT_WRITE_WAIT", 10),
			ReadLimit:    envIntOr("CHAT_READ_LIMIT", 64*1024),
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
	}
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
