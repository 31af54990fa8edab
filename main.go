package main

import (
	"context"
	"net/http"
	"time"

	"github.com/MMN3003/metaswap/src/config"
	"github.com/MMN3003/metaswap/src/logger"

	"github.com/MMN3003/metaswap/src/Infrastructure/dexscreener"
	"github.com/MMN3003/metaswap/src/Infrastructure/evm"
	"github.com/MMN3003/metaswap/src/Infrastructure/kyber"
	"github.com/MMN3003/metaswap/src/Infrastructure/okx"
	"github.com/MMN3003/metaswap/src/Infrastructure/oneinch"
	"github.com/MMN3003/metaswap/src/Infrastructure/openocean"
	"github.com/MMN3003/metaswap/src/Infrastructure/solana"

	jobsRepo "github.com/MMN3003/metaswap/src/jobs/repository"
	jobs "github.com/MMN3003/metaswap/src/jobs/usecase"
	cronAdapter "github.com/MMN3003/metaswap/src/swap/adapter/cron"
	provider "github.com/MMN3003/metaswap/src/swap/adapter/provider"
	signerAdapter "github.com/MMN3003/metaswap/src/swap/adapter/signer"
	tokenAdapter "github.com/MMN3003/metaswap/src/swap/adapter/token"
	swapHD "github.com/MMN3003/metaswap/src/swap/delivery/http"
	swapdomain "github.com/MMN3003/metaswap/src/swap/domain"
	swapRepo "github.com/MMN3003/metaswap/src/swap/repository"
	swap "github.com/MMN3003/metaswap/src/swap/usecase"
	token "github.com/MMN3003/metaswap/src/token/usecase"

	_ "github.com/MMN3003/metaswap/docs" // Swagger docs
	_ "github.com/lib/pq"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	cfg := config.LoadFromEnv()
	logg := logger.New(cfg.Env)

	ctx := context.Background()

	// --- Database connection ---
	logg.Infof("Connecting to database: %s", cfg.DatabaseURL)

	dsn := cfg.DatabaseURL
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logg.Fatalf("Failed to get generic DB handle: %v", err)
	}
	defer sqlDB.Close()

	// Connection pool tuning
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	// --- Chain clients ---
	evmClient, err := evm.NewClient(ctx, evm.Config{
		PrivateKey: cfg.Signer.PrivateKey,
		RPCURLs:    cfg.Signer.RPCURLs,
	})
	if err != nil {
		logg.Fatalf("Failed to initialize EVM signer: %v", err)
	}
	logg.Infof("Signer wallet: %s", evmClient.WalletAddress())

	solClient, err := solana.NewClient(cfg.Solana.RPCURL)
	if err != nil {
		logg.Fatalf("Failed to initialize Solana client: %v", err)
	}

	// --- Aggregator clients ---
	okxClient, err := okx.NewClient(cfg.OKX.BaseURL,
		okx.WithCredentials(cfg.OKX.APIKey, cfg.OKX.SecretKey, cfg.OKX.Passphrase))
	if err != nil {
		logg.Fatalf("Failed to initialize OKX client: %v", err)
	}
	kyberClient, err := kyber.NewClient(cfg.Kyber.BaseURL, kyber.WithClientID(cfg.Kyber.ClientID))
	if err != nil {
		logg.Fatalf("Failed to initialize Kyber client: %v", err)
	}
	oneinchClient, err := oneinch.NewClient(cfg.OneInch.BaseURL, oneinch.WithAPIKey(cfg.OneInch.APIKey))
	if err != nil {
		logg.Fatalf("Failed to initialize 1inch client: %v", err)
	}
	openoceanClient, err := openocean.NewClient(cfg.OpenOcean.BaseURL, openocean.WithAPIKey(cfg.OpenOcean.APIKey))
	if err != nil {
		logg.Fatalf("Failed to initialize OpenOcean client: %v", err)
	}
	dexClient, err := dexscreener.NewClient(cfg.DexScreener.BaseURL)
	if err != nil {
		logg.Fatalf("Failed to initialize DexScreener client: %v", err)
	}

	// --- Dependencies ---
	tokenSvc := token.NewService(dexClient, evmClient, solClient, logg)

	defaultSlippage, err := decimal.NewFromString(cfg.DefaultSlippage)
	if err != nil {
		logg.Fatalf("Invalid DEFAULT_SLIPPAGE: %v", err)
	}

	// Registration order is the quote tie-break order.
	providers := []swapdomain.SwapProvider{
		provider.NewOKXProvider(okxClient, logg),
		provider.NewKyberProvider(kyberClient, logg),
		provider.NewOneInchProvider(oneinchClient, logg),
		provider.NewOpenOceanProvider(openoceanClient, logg),
	}

	pool := swap.NewPool(providers, cfg.ProviderTimeout, logg)
	normalizer := swap.NewNormalizer(
		tokenAdapter.NewTokenPort(tokenSvc),
		swapdomain.ChainID(cfg.DefaultChain),
		defaultSlippage,
		logg,
	)
	aggregator := swap.NewAggregator(cfg.ProviderTimeout, logg)
	executionRepo := swapRepo.NewExecutionRepo(gormDB, logg)
	swapSvc := swap.NewService(
		pool,
		normalizer,
		aggregator,
		signerAdapter.NewSignerPort(evmClient),
		executionRepo,
		cfg.ProviderTimeout,
		logg,
	)
	handler := swapHD.NewHandler(swapSvc, tokenSvc, logg)

	// --- Cron jobs ---
	jobsSvc := jobs.NewService(jobsRepo.NewJobRepo(gormDB, logg), logg)
	c := cron.New()
	swap.NewCronService(c, swapSvc, cronAdapter.NewCronPort(jobsSvc))
	c.Start()
	defer c.Stop()

	// --- Router ---
	r := gin.New()

	// Core middleware
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logg.Infof("%s %s status:%d duration:%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	})

	// --- Healthcheck ---
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Swagger ---
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// --- API routes ---
	handler.RegisterRoutes(r)

	// --- Start server ---
	logg.Infof("Starting service on %s (env=%s)", cfg.ListenAddr, cfg.Env)
	logg.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenAddr)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatalf("Server terminated unexpectedly: %v", err)
	}
}
