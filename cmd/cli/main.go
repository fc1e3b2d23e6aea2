package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/reports/definitions"
	"github.com/wc-tools/camp-reports/pkg/runtime/terminal"
	"github.com/wc-tools/camp-reports/pkg/services/config"
	"github.com/wc-tools/camp-reports/pkg/services/currency"
	"github.com/wc-tools/camp-reports/pkg/services/meetup"
	rediscache "github.com/wc-tools/camp-reports/pkg/store/redis"
	sqlstore "github.com/wc-tools/camp-reports/pkg/store/sql"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: buildRegistry,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildRegistry(configPath string) (reports.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	registry := reports.NewRegistry()
	err = definitions.RegisterAll(registry, definitions.Dependencies{
		Index:         sqlstore.NewIndexStore(db),
		Meetup:        meetup.NewClient(cfg.Meetup.BaseURL, cfg.Meetup.APIKey),
		Converter:     currency.NewClient(cfg.Exchange.BaseURL),
		Cache:         rediscache.NewCache(redisClient),
		CentralBlogID: cfg.CentralBlogID,
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}
