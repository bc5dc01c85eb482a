package bybit

import (
	"testing"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairToSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", PairToSymbol("BTC/USD"))
	assert.Equal(t, "ETHUSDT", PairToSymbol("ETH/USDT"))
	assert.Equal(t, "ADAUSDT", PairToSymbol("ADA/USD"))
}

func TestParseKlineResponse_ChronologicalOrder(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"symbol": "BTCUSDT",
			"list": [][]string{
				// newest first, as the API returns it
				{"1704070800000", "101", "103", "100", "102", "15", "1530"},
				{"1704067200000", "100", "102", "99", "101", "10", "1010"},
			},
		},
	}

	bars, err := parseKlineResponse(resp, "BTC/USD")
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 102.0, bars[1].Close)
	assert.Equal(t, "BTC/USD", bars[0].Symbol)
}

func TestParseKlineResponse_APIError(t *testing.T) {
	resp := &bybit_api.ServerResponse{RetCode: 10001, RetMsg: "params error"}

	_, err := parseKlineResponse(resp, "BTC/USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10001")
}

func TestParseKlineResponse_SkipsShortRows(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"list": [][]string{
				{"1704067200000", "100"},
				{"1704070800000", "101", "103", "100", "102", "15", "1530"},
			},
		},
	}

	bars, err := parseKlineResponse(resp, "BTC/USD")
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestParseTickerResponse_LastPrice(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"list": []map[string]interface{}{
				{"symbol": "BTCUSDT", "lastPrice": "45123.5"},
			},
		},
	}

	price, err := parseTickerResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, 45123.5, price)
}

func TestParseTickerResponse_Empty(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result:  map[string]interface{}{"list": []map[string]interface{}{}},
	}

	_, err := parseTickerResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ticker data")
}

func TestClient_Environment(t *testing.T) {
	assert.Equal(t, "testnet", NewClient(Config{Testnet: true}).Environment())
	assert.Equal(t, "mainnet", NewClient(Config{}).Environment())
}
