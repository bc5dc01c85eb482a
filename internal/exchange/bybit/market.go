package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// KlineInterval represents the time interval for kline data.
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval1h  KlineInterval = "60"
	Interval4h  KlineInterval = "240"
	Interval1d  KlineInterval = "D"
)

// KlineParams holds the parameters for a kline request. Pair is the
// agent-side trading pair ("BTC/USD"); the resulting bars carry it as
// their symbol.
type KlineParams struct {
	Pair     string
	Interval KlineInterval
	Limit    int
	Start    *time.Time
	End      *time.Time
}

// GetKlines fetches kline data and returns it as a chronologically
// ordered bar series.
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]types.OHLCV, error) {
	if params.Limit == 0 {
		params.Limit = 200
	}
	if params.Limit > 1000 {
		params.Limit = 1000
	}

	reqParams := map[string]interface{}{
		"category": "spot",
		"symbol":   PairToSymbol(params.Pair),
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}
	if params.Start != nil {
		reqParams["start"] = params.Start.UnixMilli()
	}
	if params.End != nil {
		reqParams["end"] = params.End.UnixMilli()
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	bars, err := parseKlineResponse(result, params.Pair)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kline response: %w", err)
	}
	return bars, nil
}

// GetLatestPrice gets the latest spot price for a trading pair.
func (c *Client) GetLatestPrice(ctx context.Context, pair string) (float64, error) {
	params := map[string]interface{}{
		"category": "spot",
		"symbol":   PairToSymbol(pair),
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest price: %w", err)
	}

	return parseTickerResponse(result)
}

func parseTickerResponse(response interface{}) (float64, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return 0, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return 0, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	var tickerResult struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &tickerResult); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ticker result: %w", err)
	}
	if len(tickerResult.List) == 0 {
		return 0, fmt.Errorf("no ticker data found")
	}
	return parseFloat64(tickerResult.List[0].LastPrice), nil
}

func parseKlineResponse(response interface{}, pair string) ([]types.OHLCV, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	// Bybit kline format: [startTime, open, high, low, close, volume,
	// turnover], newest first. Reverse into chronological order.
	var bars []types.OHLCV
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		item := klineResult.List[i]
		if len(item) < 6 {
			continue
		}
		bars = append(bars, types.OHLCV{
			Timestamp: time.UnixMilli(parseInt64(item[0])),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
			Symbol:    pair,
		})
	}
	return bars, nil
}

func parseFloat64(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
