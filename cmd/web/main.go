package main

import (
	"database/sql"
	"fmt"
	"net"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/counsel-tools/rate-lens/pkg/cache"
	"github.com/counsel-tools/rate-lens/pkg/server"
	"github.com/counsel-tools/rate-lens/pkg/services/calc"
	"github.com/counsel-tools/rate-lens/pkg/services/config"
	"github.com/counsel-tools/rate-lens/pkg/services/currency"
	"github.com/counsel-tools/rate-lens/pkg/services/impact"
	"github.com/counsel-tools/rate-lens/pkg/services/peer"
	"github.com/counsel-tools/rate-lens/pkg/services/staffclass"
	"github.com/counsel-tools/rate-lens/pkg/services/trends"
	"github.com/counsel-tools/rate-lens/pkg/store/rates"
	sqlstore "github.com/counsel-tools/rate-lens/pkg/store/sql"
	"github.com/counsel-tools/rate-lens/pkg/store/unicourt"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the rate analytics web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	redisCache := cache.NewRedisCacheWithOptions(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisCache.Close()

	billingStore, err := sqlstore.NewBillingStore(db)
	if err != nil {
		return fmt.Errorf("failed to create billing store: %w", err)
	}
	rateStore, err := sqlstore.NewRateStore(db)
	if err != nil {
		return fmt.Errorf("failed to create rate store: %w", err)
	}

	converter := currency.NewConverter(rates.NewClient(cfg.Rates.BaseURL), redisCache)
	engine := calc.NewEngine(converter)

	impactSvc := impact.NewService(billingStore, rateStore, engine, redisCache)
	trendsSvc := trends.NewAnalyzer(rateStore, converter, nil)
	peerSvc := peer.NewService(rateStore, converter)
	unicourtClient := unicourt.NewClient(cfg.UniCourt.BaseURL, cfg.UniCourt.APIKey, redisCache)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Impact:      impactSvc,
			Trends:      trendsSvc,
			StaffClass:  staffclass.NewAnalyzer(),
			Peers:       peerSvc,
			Performance: unicourtClient,
			Logger:      logger,
		},
	})

	return api.Start()
}
