package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadDefaultsFromEnvOnly(t *testing.T) {
	t.Setenv("STEAM_BOT_TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, ModePolling, cfg.Telegram.Mode)
	assert.Equal(t, "https://store.steampowered.com", cfg.Steam.StoreURL)
	assert.Equal(t, "https://api.steampowered.com", cfg.Steam.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Steam.Timeout)
	assert.Equal(t, 3, cfg.Steam.NewsCount)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.SingleFlight)
	assert.Equal(t, BackendRedis, cfg.Preferences.Backend)
	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Empty(t, cfg.Server.GRPCPort)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
telegram:
  token: from-file
  admin_id: 99
cache:
  backend: memory
  ttl: 1m
  single_flight: false
preferences:
  backend: postgres
database:
  host: db
  port: 5433
  user: bot
  password: pw
  dbname: prefs
  sslmode: require
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
`)
	t.Setenv("STEAM_BOT_TELEGRAM_TOKEN", "from-env")
	t.Setenv("STEAM_BOT_STEAM_NEWS_COUNT", "5")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, int64(99), cfg.Telegram.AdminID)
	assert.Equal(t, 5, cfg.Steam.NewsCount)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "bot.interactions", cfg.Kafka.Topic)
	assert.Equal(t, "host=db port=5433 user=bot password=pw dbname=prefs sslmode=require", cfg.Database.DSN())
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"missing token":     "cache:\n  backend: memory\n",
		"bad cache backend": "telegram:\n  token: t\ncache:\n  backend: memcached\n",
		"bad store url":     "telegram:\n  token: t\nsteam:\n  store_url: store.steampowered.com\n",
		"webhook no url":    "telegram:\n  token: t\n  mode: webhook\n",
		"kafka no brokers":  "telegram:\n  token: t\nkafka:\n  enabled: true\n",
		"unknown mode":      "telegram:\n  token: t\n  mode: carrier-pigeon\n",
		"bad prefs backend": "telegram:\n  token: t\npreferences:\n  backend: memory\n",
		"malformed yaml":    "telegram: [token\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STEAM_BOT_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STEAM_BOT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("STEAM_BOT_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
