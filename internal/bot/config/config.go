package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/umanagarjuna/steam-bot/pkg/validator"
)

const envPrefix = "STEAM_BOT"

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	BackendRedis    = "redis"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Telegram    TelegramConfig
	Steam       SteamConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Preferences PreferencesConfig
	Database    DatabaseConfig
	Kafka       KafkaConfig
	Server      ServerConfig
	Tasks       TasksConfig
	Log         LogConfig
}

type TelegramConfig struct {
	Token         string
	Mode          string
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	WebhookURL    string        `mapstructure:"webhook_url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	AdminID       int64         `mapstructure:"admin_id"`
}

type SteamConfig struct {
	StoreURL  string `mapstructure:"store_url"`
	APIURL    string `mapstructure:"api_url"`
	Timeout   time.Duration
	NewsCount int    `mapstructure:"news_count"`
	UserAgent string `mapstructure:"user_agent"`
}

type CacheConfig struct {
	Backend      string
	TTL          time.Duration
	SingleFlight bool `mapstructure:"single_flight"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PreferencesConfig struct {
	Backend string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type ServerConfig struct {
	HTTPPort string `mapstructure:"http_port"`
	GRPCPort string `mapstructure:"grpc_port"`
}

type TasksConfig struct {
	Timeout time.Duration
}

type LogConfig struct {
	Development bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.mode", ModePolling)
	v.SetDefault("telegram.poll_timeout", 10*time.Second)
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.webhook_secret", "")
	v.SetDefault("telegram.admin_id", 0)

	v.SetDefault("steam.store_url", "https://store.steampowered.com")
	v.SetDefault("steam.api_url", "https://api.steampowered.com")
	v.SetDefault("steam.timeout", 10*time.Second)
	v.SetDefault("steam.news_count", 3)
	v.SetDefault("steam.user_agent", "steam-bot")

	v.SetDefault("cache.backend", BackendRedis)
	v.SetDefault("cache.ttl", 10*time.Second)
	v.SetDefault("cache.single_flight", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("preferences.backend", BackendRedis)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "steam_bot")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "bot.interactions")

	v.SetDefault("server.http_port", ":8080")
	v.SetDefault("server.grpc_port", "")

	v.SetDefault("tasks.timeout", 30*time.Second)

	v.SetDefault("log.development", false)
}

// LoadDotEnv copies variables from .env files into the process environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads config.yaml from the given directories (./configs and . by
// default), then the STEAM_BOT_* environment. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Telegram),
		validation.Field(&c.Steam),
		validation.Field(&c.Cache),
		validation.Field(&c.Preferences),
		validation.Field(&c.Kafka),
		validation.Field(&c.Server),
	)
}

func (c TelegramConfig) Validate() error {
	webhook := c.Mode == ModeWebhook
	return validation.ValidateStruct(&c,
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.Mode, validation.Required, validation.In(ModePolling, ModeWebhook)),
		validation.Field(&c.WebhookURL, validation.When(webhook, validation.Required, validation.By(baseURL))),
	)
}

func (c SteamConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.StoreURL, validation.Required, validation.By(baseURL)),
		validation.Field(&c.APIURL, validation.Required, validation.By(baseURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.NewsCount, validation.Required, validation.Min(1)),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendRedis, BackendMemory)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
	)
}

func (c PreferencesConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendRedis, BackendPostgres)),
	)
}

func (c KafkaConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Brokers, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Topic, validation.When(c.Enabled, validation.Required)),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPPort, validation.Required),
	)
}

func baseURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return validator.ValidateBaseURL(s)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
