package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	Env         string
	DatabaseURL string

	// Swap defaults, explicit instead of scattered literals.
	DefaultChain    string
	DefaultSlippage string
	ProviderTimeout time.Duration

	Signer      SignerConfig
	Solana      SolanaConfig
	OKX         OKXConfig
	Kyber       KyberConfig
	OneInch     OneInchConfig
	OpenOcean   OpenOceanConfig
	DexScreener DexScreenerConfig
}

// SignerConfig configures the EVM signer wallet. RPCURLs maps numeric
// chain ids to RPC endpoints, e.g. "1=https://eth.example.org,56=https://...".
type SignerConfig struct {
	PrivateKey string
	RPCURLs    map[string]string
}

type SolanaConfig struct {
	RPCURL string
}

type OKXConfig struct {
	BaseURL    string
	APIKey     string
	SecretKey  string
	Passphrase string
}

type KyberConfig struct {
	BaseURL  string
	ClientID string
}

type OneInchConfig struct {
	BaseURL string
	APIKey  string
}

type OpenOceanConfig struct {
	BaseURL string
	APIKey  string
}

type DexScreenerConfig struct {
	BaseURL string
}

// LoadFromEnv reads configuration from environment variables with fallback defaults.
// It also loads `.env` if present (for local development).
func LoadFromEnv() *Config {
	// Load .env if exists, ignore error if no file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	timeoutStr := getEnv("PROVIDER_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Fatalf("[FATAL] Invalid PROVIDER_TIMEOUT duration: %v", err)
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Env:         getEnv("ENV", "dev"),
		DatabaseURL: databaseURL,

		DefaultChain:    getEnv("DEFAULT_CHAIN_ID", "1"),
		DefaultSlippage: getEnv("DEFAULT_SLIPPAGE", "0.5"),
		ProviderTimeout: timeout,

		Signer: SignerConfig{
			PrivateKey: os.Getenv("SIGNER_PRIVATE_KEY"),
			RPCURLs:    parseRPCURLs(os.Getenv("SIGNER_RPC_URLS")),
		},
		Solana: SolanaConfig{
			RPCURL: getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		},
		OKX: OKXConfig{
			BaseURL:    getEnv("OKX_BASE_URL", "https://www.okx.com"),
			APIKey:     getEnv("OKX_API_KEY", ""),
			SecretKey:  getEnv("OKX_SECRET_KEY", ""),
			Passphrase: getEnv("OKX_PASSPHRASE", ""),
		},
		Kyber: KyberConfig{
			BaseURL:  getEnv("KYBER_BASE_URL", "https://aggregator-api.kyberswap.com"),
			ClientID: getEnv("KYBER_CLIENT_ID", "metaswap"),
		},
		OneInch: OneInchConfig{
			BaseURL: getEnv("ONEINCH_BASE_URL", "https://api.1inch.dev"),
			APIKey:  getEnv("ONEINCH_API_KEY", ""),
		},
		OpenOcean: OpenOceanConfig{
			BaseURL: getEnv("OPENOCEAN_BASE_URL", "https://open-api.openocean.finance"),
			APIKey:  getEnv("OPENOCEAN_API_KEY", ""),
		},
		DexScreener: DexScreenerConfig{
			BaseURL: getEnv("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),
		},
	}
}

// parseRPCURLs parses "1=https://a,56=https://b" into a chain id map.
func parseRPCURLs(raw string) map[string]string {
	urls := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("[WARN] skipping malformed SIGNER_RPC_URLS entry: %s", pair)
			continue
		}
		urls[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return urls
}

// helper to get env with default fallback
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
