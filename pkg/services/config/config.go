package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the service configuration profile.
type Config struct {
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Meetup struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"meetup"`

	Exchange struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"exchange"`

	// CentralBlogID is the network's central site ID.
	CentralBlogID int64 `mapstructure:"central_blog_id"`
}

// Load reads a configuration profile from path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("meetup.base_url", "https://api.meetup.com")
	v.SetDefault("central_blog_id", 1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
