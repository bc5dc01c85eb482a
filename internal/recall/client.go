package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
	"github.com/cryptoalpha/alpha-agent/internal/engine"
)

const defaultTimeout = 30 * time.Second

// Client submits trades and performance reports to the Recall Network
// competition API.
type Client struct {
	apiKey     string
	baseURL    string
	agentName  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Recall Network API client.
func NewClient(apiKey, baseURL, agentName string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		agentName:  agentName,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

type tradeMetadata struct {
	AgentName  string  `json:"agent_name"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

type tradePayload struct {
	Symbol    string        `json:"symbol"`
	Action    string        `json:"action"`
	Quantity  float64       `json:"quantity"`
	Timestamp string        `json:"timestamp"`
	Metadata  tradeMetadata `json:"metadata"`
}

// ExecuteTrade submits a trade decision.
func (c *Client) ExecuteTrade(ctx context.Context, decision *engine.TradeDecision) error {
	payload := tradePayload{
		Symbol:    decision.Symbol,
		Action:    decision.Action.String(),
		Quantity:  decision.Quantity,
		Timestamp: time.Now().Format(time.RFC3339),
		Metadata: tradeMetadata{
			AgentName:  c.agentName,
			Confidence: decision.Confidence,
			Reason:     decision.Reason,
			StopLoss:   decision.StopLoss,
			TakeProfit: decision.TakeProfit,
		},
	}

	if err := c.post(ctx, "/trades", payload); err != nil {
		return fmt.Errorf("trade submission failed: %w", err)
	}

	c.logger.Info("trade submitted",
		zap.String("symbol", decision.Symbol),
		zap.String("action", decision.Action.String()),
		zap.Float64("quantity", decision.Quantity),
	)
	return nil
}

type performancePayload struct {
	Timestamp string           `json:"timestamp"`
	AgentName string           `json:"agent_name"`
	Metrics   backtest.Metrics `json:"metrics"`
}

// SubmitPerformanceReport submits a performance summary.
func (c *Client) SubmitPerformanceReport(ctx context.Context, metrics backtest.Metrics) error {
	payload := performancePayload{
		Timestamp: time.Now().Format(time.RFC3339),
		AgentName: c.agentName,
		Metrics:   metrics,
	}
	if err := c.post(ctx, "/reports/performance", payload); err != nil {
		return fmt.Errorf("performance report submission failed: %w", err)
	}
	c.logger.Info("performance report submitted")
	return nil
}

// PortfolioValue fetches the agent's current portfolio value.
func (c *Client) PortfolioValue(ctx context.Context) (float64, error) {
	var result struct {
		Value float64 `json:"value"`
	}
	if err := c.get(ctx, "/portfolio/value", &result); err != nil {
		return 0, fmt.Errorf("failed to get portfolio value: %w", err)
	}
	return result.Value, nil
}

// CompetitionStatus holds the status of a running competition.
type CompetitionStatus struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GetCompetitionStatus fetches the status of a competition.
func (c *Client) GetCompetitionStatus(ctx context.Context, competitionID string) (*CompetitionStatus, error) {
	var status CompetitionStatus
	path := fmt.Sprintf("/competitions/%s/status", competitionID)
	if err := c.get(ctx, path, &status); err != nil {
		return nil, fmt.Errorf("failed to get competition status: %w", err)
	}
	return &status, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, text)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
