package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the agent, loaded from the
// environment with sensible defaults.
type Config struct {
	Environment string
	LogLevel    string

	Recall     RecallConfig
	Trading    TradingConfig
	Risk       RiskConfig
	Exchange   ExchangeConfig
	Monitoring MonitoringConfig
}

// RecallConfig configures the Recall Network trade submission client.
type RecallConfig struct {
	APIKey        string
	BaseURL       string
	UseProduction bool
}

// TradingConfig holds competition and portfolio parameters.
type TradingConfig struct {
	Pairs                 []string
	InitialPortfolioValue float64
	MaxPositionSize       float64
	RiskTolerance         float64
	EnableLiveTrading     bool
	AgentName             string
	CompetitionID         string
	MaxTradesPerHour      int
}

// RiskConfig holds the risk management percentages.
type RiskConfig struct {
	StopLossPct   float64
	TakeProfitPct float64
	MaxDailyLoss  float64
}

// ExchangeConfig configures market data retrieval.
type ExchangeConfig struct {
	APIKey  string
	Secret  string
	Testnet bool
}

// MonitoringConfig configures the metrics and health endpoints.
type MonitoringConfig struct {
	PrometheusPort int
	HealthPort     int
}

// LoadEnvFile loads a dotenv file into the process environment before
// Load reads it. A missing default ".env" is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Recall: RecallConfig{
			APIKey:        getEnv("RECALL_API_KEY", ""),
			BaseURL:       getEnv("RECALL_BASE_URL", "https://api.recall.network"),
			UseProduction: getEnvBool("USE_PRODUCTION", true),
		},

		Trading: TradingConfig{
			Pairs:                 getEnvList("DEFAULT_TRADING_PAIRS", []string{"BTC/USD", "ETH/USD", "ADA/USD"}),
			InitialPortfolioValue: getEnvFloat("INITIAL_PORTFOLIO_VALUE", 10000),
			MaxPositionSize:       getEnvFloat("MAX_POSITION_SIZE", 0.1),
			RiskTolerance:         getEnvFloat("RISK_TOLERANCE", 0.02),
			EnableLiveTrading:     getEnvBool("ENABLE_LIVE_TRADING", false),
			AgentName:             getEnv("AGENT_NAME", "CryptoAlpha_v1.0"),
			CompetitionID:         getEnv("COMPETITION_ID", "default"),
			MaxTradesPerHour:      getEnvInt("MAX_TRADES_PER_HOUR", 10),
		},

		Risk: RiskConfig{
			StopLossPct:   getEnvFloat("STOP_LOSS_PERCENTAGE", 0.05),
			TakeProfitPct: getEnvFloat("TAKE_PROFIT_PERCENTAGE", 0.15),
			MaxDailyLoss:  getEnvFloat("MAX_DAILY_LOSS", 0.03),
		},

		Exchange: ExchangeConfig{
			APIKey:  getEnv("EXCHANGE_API_KEY", ""),
			Secret:  getEnv("EXCHANGE_SECRET", ""),
			Testnet: getEnvBool("EXCHANGE_TESTNET", true),
		},

		Monitoring: MonitoringConfig{
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 8080),
			HealthPort:     getEnvInt("HEALTH_PORT", 8081),
		},
	}
}

// Validate checks that numeric settings are inside their allowed ranges.
func (c *Config) Validate() error {
	if c.Trading.MaxPositionSize <= 0 || c.Trading.MaxPositionSize > 1 {
		return fmt.Errorf("MAX_POSITION_SIZE must be in (0,1], got %v", c.Trading.MaxPositionSize)
	}
	if c.Trading.InitialPortfolioValue <= 0 {
		return fmt.Errorf("INITIAL_PORTFOLIO_VALUE must be positive, got %v", c.Trading.InitialPortfolioValue)
	}
	if c.Risk.StopLossPct < 0 || c.Risk.StopLossPct >= 1 {
		return fmt.Errorf("STOP_LOSS_PERCENTAGE must be in [0,1), got %v", c.Risk.StopLossPct)
	}
	if c.Risk.TakeProfitPct < 0 {
		return fmt.Errorf("TAKE_PROFIT_PERCENTAGE must not be negative, got %v", c.Risk.TakeProfitPct)
	}
	if c.Risk.MaxDailyLoss <= 0 || c.Risk.MaxDailyLoss >= 1 {
		return fmt.Errorf("MAX_DAILY_LOSS must be in (0,1), got %v", c.Risk.MaxDailyLoss)
	}
	if len(c.Trading.Pairs) == 0 {
		return fmt.Errorf("DEFAULT_TRADING_PAIRS must name at least one pair")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return strings.EqualFold(val, "true")
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
