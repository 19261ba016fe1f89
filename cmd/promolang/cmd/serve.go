package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promolang/promolang/internal/cache"
	"github.com/promolang/promolang/internal/core/api"
	"github.com/promolang/promolang/internal/core/auth"
	"github.com/promolang/promolang/internal/core/config"
	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/core/server"
	"github.com/promolang/promolang/internal/logger"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the promotion REST API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().Bool("no-auth", false, "disable API key authentication (development only)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := db.MigrateUp(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	store := db.NewStore(queries)

	var authn api.Authenticator
	noAuth, _ := cmd.Flags().GetBool("no-auth")
	if !noAuth {
		secrets, err := config.HMACSecrets()
		if err != nil {
			return fmt.Errorf("failed to load HMAC secrets: %w", err)
		}
		if len(secrets) == 0 {
			return fmt.Errorf("no HMAC secrets configured (set PROMO_HMAC_SECRET or pass --no-auth)")
		}
		authn = auth.NewAuthenticator(secrets, queries)
	} else {
		log.Warn("API key authentication disabled")
	}

	// Redis when configured, in-process otherwise. Either way results are
	// keyed on source checksum plus context digest.
	var cacheSvc cache.Service
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cacheSvc = redisCache
	} else {
		memCache, err := cache.NewMemoryCache(10_000, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("failed to build memory cache: %w", err)
		}
		cacheSvc = memCache
	}
	defer cacheSvc.Close()

	a := api.NewAPI(store, cacheSvc, authn, queries.DB(), log)

	log.Info("starting promolang API",
		"version", Version,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabaseURL)

	srv := server.New(cfg, a.Router, log)
	return srv.Run(ctx)
}
