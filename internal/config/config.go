package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LLMConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the pgx connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MigrateURL builds the golang-migrate URL (pgx/v5 driver scheme).
func (p PostgresConfig) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type StorageConfig struct {
	// Mode selects the backend: postgres, file or hybrid.
	Mode     string         `mapstructure:"mode"`
	BaseDir  string         `mapstructure:"base_dir"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FeedsConfig struct {
	Sources       []string `mapstructure:"sources"`
	LookbackHours int      `mapstructure:"lookback_hours"`
}

type DigestConfig struct {
	Author string `mapstructure:"author"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Schedule    string `mapstructure:"schedule"` // cron spec for the daily digest task
}

type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Feeds   FeedsConfig   `mapstructure:"feeds"`
	Digest  DigestConfig  `mapstructure:"digest"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

// defaultFeedSources are the stock AI news feeds used when the config file
// names none.
var defaultFeedSources = []string{
	"https://techcrunch.com/tag/artificial-intelligence/feed/",
	"https://www.theverge.com/rss/ai-artificial-intelligence/index.xml",
	"https://www.artificialintelligence-news.com/feed/",
	"https://venturebeat.com/category/ai/feed/",
	"https://www.technologyreview.com/topic/artificial-intelligence/feed",
	"https://www.wired.com/feed/tag/ai/latest/rss",
}

func setDefaults() {
	viper.SetDefault("llm.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("storage.mode", "hybrid")
	viper.SetDefault("storage.base_dir", "articles")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", 5432)
	viper.SetDefault("storage.postgres.database", "newsforge")
	viper.SetDefault("storage.postgres.user", "postgres")
	viper.SetDefault("storage.postgres.sslmode", "disable")
	viper.SetDefault("feeds.sources", defaultFeedSources)
	viper.SetDefault("feeds.lookback_hours", 24)
	viper.SetDefault("digest.author", "Claude")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("worker.concurrency", 2)
	viper.SetDefault("worker.schedule", "0 6 * * *")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	// Secrets come from the environment without a prefix.
	viper.BindEnv("llm.api_key", "LLM_API_KEY")
	viper.BindEnv("llm.endpoint", "LLM_ENDPOINT")
	viper.BindEnv("llm.model", "LLM_MODEL")
	viper.BindEnv("storage.postgres.password", "DB_PASSWORD")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and env vars carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
