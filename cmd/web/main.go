package main

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/reports/definitions"
	"github.com/wc-tools/camp-reports/pkg/server"
	"github.com/wc-tools/camp-reports/pkg/services/config"
	"github.com/wc-tools/camp-reports/pkg/services/currency"
	"github.com/wc-tools/camp-reports/pkg/services/meetup"
	rediscache "github.com/wc-tools/camp-reports/pkg/store/redis"
	sqlstore "github.com/wc-tools/camp-reports/pkg/store/sql"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Camp Reports",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "camp-reports.yaml",
		"Path to the configuration profile")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to build report registry: %w", err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	for _, meta := range registry.List() {
		logger.Info().Msgf("Report: `%s`, Group: `%s`", meta.Slug, meta.Group)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	addr := net.JoinHostPort(host, port)
	api := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Reports: registry,
		},
	})

	logger.Info().Msgf("starting server on %s", addr)
	if err := api.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func buildRegistry(cfg *config.Config) (reports.Registry, error) {
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
