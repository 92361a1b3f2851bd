package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"CHAT_SERVICE_PORT", "SERVER_HOST", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
	"ENVIRONMENT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "CHAT_SEND_BUFFER", "CHAT_PING_INTERVAL",
	"CHAT_PONG_WAIT", "CHAT_WRITE_WAIT", "CHAT_READ_LIMIT", "LOG_LEVEL", "LOG_FORMAT",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range testEnvVars {
		os.Unsetenv(k)
	}
}

func TestLoadConfig_DefaultBehavior(t *testing.T) {
	clearTestEnvVars(t)
	defer clearTestEnvVars(t)

	config := LoadConfig()

	require.NotNil(t, config)

	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, "3306", config.Database.Port)
	assert.Equal(t, "evently", config.Database.Username)
	assert.Equal(t, "evently", config.Database.DatabaseName)
	assert.Equal(t, 25, config.Database.MaxOpenConns)
	assert.Equal(t, 5, config.Database.MaxIdleConns)

	assert.Equal(t, "7003", config.Server.Port)
	assert.Equal(t, "development", config.Server.Environment)

	assert.Equal(t, 256, config.Chat.SendBuffer)
	assert.Equal(t, 30, config.Chat.PingInterval)
	assert.Equal(t, 60, config.Chat.PongWait)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearTestEnvVars(t)
	defer clearTestEnvVars(t)

	t.Setenv("CHAT_SERVICE_PORT", "9999")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CHAT_SEND_BUFFER", "16")

	config := LoadConfig()

	assert.Equal(t, "9999", config.Server.Port)
	assert.Equal(t, "db.internal", config.Database.Host)
	assert.Equal(t, 16, config.Chat.SendBuffer)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	clearTestEnvVars(t)
	defer clearTestEnvVars(t)

	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	config := LoadConfig()
	assert.Equal(t, 25, config.Database.MaxOpenConns)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "3306",
			Username:     "evently",
			Password:     "secret",
			DatabaseName: "evently",
		},
	}

	dsn := cfg.DSN()
	assert.Equal(t, "evently:secret@tcp(localhost:3306)/evently?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestDSN_DefaultsHostAndPort(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Username:     "u",
			Password:     "p",
			DatabaseName: "d",
		},
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "@tcp(localhost:3306)/d")
}
