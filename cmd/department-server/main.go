package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/config"
	"github.com/mahaseva-integrations/trackapi/internal/logger"
	"github.com/mahaseva-integrations/trackapi/internal/provider/memory"
	"github.com/mahaseva-integrations/trackapi/internal/provider/postgres"
	"github.com/mahaseva-integrations/trackapi/internal/server"
	"github.com/mahaseva-integrations/trackapi/internal/server/handlers"
	"github.com/mahaseva-integrations/trackapi/internal/track"
	"github.com/mahaseva-integrations/trackapi/internal/version"
)

//	@title			department-server
//	@description	department-server implements the department side of the Track Application Status integration:
//	@description	the encrypted status-exchange endpoint queried by the government portal, plus the legacy
//	@description	push-authentication handshake.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Protocol failures are returned as an unencrypted {"error","timestamp"} body.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	## Authentication & Authorization
//	@description
//	@description	Requests carry no credentials. The portal is authenticated implicitly: only a counterpart holding
//	@description	the shared TripleDES key material can produce an envelope that decrypts to a valid request, and
//	@description	the legacy handshake additionally verifies a keyed CRC-32 checksum.
//	@description
//	@description	In production the endpoint is additionally restricted to the portal's IP range at the network layer.
//	@description
//	@license.name	MIT

//	@servers.url			https://department.example.gov.in
//	@servers.description	Production server
//	@servers.url			http://localhost:8080
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			Track
//	@tag.description	Encrypted status-exchange endpoint

//	@tag.name			Legacy
//	@tag.description	Legacy portal handshake endpoints

//	@tag.name			Common
//	@tag.description	Server infrastructure endpoints (health, readiness, version)

func main() {
	cmd := &cobra.Command{
		Use:   "department-server",
		Short: "Track Application Status department server",
		Long:  `department-server answers encrypted application status inquiries from the government portal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	var appLogger *slog.Logger
	if cfg.EnableLogging {
		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	} else {
		appLogger = logger.NewDiscardLogger()
	}

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("API_ENDPOINT", cfg.APIEndpoint),
		slog.String("SEED_DATA_PATH", cfg.SeedDataPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, pinger, cleanup, err := buildProvider(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize data provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	srv, err := server.NewServer(cfg, provider, pinger, appLogger)
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

// buildProvider selects the data provider: postgres when DATABASE_URL is set,
// otherwise the in-memory provider seeded from SEED_DATA_PATH.
func buildProvider(ctx context.Context, cfg *config.ServerEnvironment, appLogger *slog.Logger) (track.DataProvider, handlers.Pinger, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.SeedDataPath == "" {
			return nil, nil, nil, fmt.Errorf("either DATABASE_URL or SEED_DATA_PATH must be set")
		}

		provider, err := memory.LoadSeedFile(cfg.SeedDataPath)
		if err != nil {
			return nil, nil, nil, err
		}
		appLogger.Info("using in-memory data provider", slog.String("seed_file", cfg.SeedDataPath))
		return provider, nil, func() {}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	defer dbCancel()

	pool, err := postgres.NewPool(dbCtx, postgres.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConnections:  cfg.DBMaxConnections,
		MinConnections:  cfg.DBMinConnections,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		ConnectTimeout:  cfg.DBConnectTimeout,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	if err := pool.Ping(dbCtx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("error pinging database via pool: %w", err)
	}

	appLogger.Info("connected to PostgreSQL")

	if err := postgres.Migrate(dbCtx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	provider := postgres.NewProvider(pool)
	cleanup := func() {
		pool.Close()
		appLogger.Info("database connection closed")
	}
	return provider, provider, cleanup, nil
}
