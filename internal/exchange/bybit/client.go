package bybit

import (
	"strings"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client for market data retrieval.
type Client struct {
	httpClient *bybit_api.Client
	testnet    bool
}

// Config holds the configuration for the Bybit client.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewClient creates a new Bybit client. Market data endpoints work
// without credentials.
func NewClient(config Config) *Client {
	baseURL := bybit_api.MAINNET
	if config.Testnet {
		baseURL = bybit_api.TESTNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		testnet:    config.Testnet,
	}
}

// Environment returns a string describing the configured environment.
func (c *Client) Environment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}

// PairToSymbol converts an agent trading pair like "BTC/USD" to the
// Bybit spot symbol ("BTCUSDT").
func PairToSymbol(pair string) string {
	symbol := strings.ReplaceAll(pair, "/", "")
	if strings.HasSuffix(symbol, "USD") {
		symbol += "T"
	}
	return symbol
}
