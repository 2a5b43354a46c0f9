package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	// sendRetries bounds re-delivery of one alert after a retryable failure.
	sendRetries    = 2
	sendRetryDelay = 500 * time.Millisecond
)

// TelegramConfig holds the bot credentials and delivery policy.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	// APIBase overrides the Telegram host, for tests.
	APIBase string
	Timeout time.Duration
	Quiet   QuietHours
	Logger  *zap.Logger
}

// TelegramNotifier delivers alerts through the Telegram Bot API.
type TelegramNotifier struct {
	cfg    TelegramConfig
	client *http.Client
	logger *zap.Logger
}

// NewTelegramNotifier creates a Telegram notifier.
func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, errors.New("telegram: bot token and chat id are required")
	}
	if err := cfg.Quiet.Validate(); err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	if cfg.APIBase == "" {
		cfg.APIBase = telegramAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &TelegramNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}, nil
}

// Notify formats and posts one alert. Alerts inside the quiet window are
// dropped silently; a suppressed alert is not an error.
func (n *TelegramNotifier) Notify(ctx context.Context, opp arbitrage.Opportunity) error {
	if n.cfg.Quiet.Active() {
		AlertsSuppressedTotal.Inc()
		n.logger.Debug("alert-suppressed-quiet-hours",
			zap.String("kind", string(opp.Kind)),
			zap.String("event", opp.EventTitle))
		return nil
	}

	payload := map[string]string{
		"chat_id":    n.cfg.ChatID,
		"text":       FormatAlert(&opp),
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.APIBase, n.cfg.BotToken)

	// Network errors and 5xx responses are retried; a 4xx (bad token, bad
	// chat id, malformed markdown) fails immediately.
	var lastErr error
	for attempt := 0; attempt <= sendRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sendRetryDelay):
			}
		}

		sent, err := n.send(ctx, url, body)
		if err == nil {
			AlertsSentTotal.Inc()
			n.logger.Info("alert-sent",
				zap.String("kind", string(opp.Kind)),
				zap.String("event", opp.EventTitle))
			return nil
		}
		lastErr = err
		if !sent {
			break
		}
	}

	AlertsFailedTotal.Inc()
	return lastErr
}

// send performs one delivery attempt. The bool reports whether the failure is
// retryable.
func (n *TelegramNotifier) send(ctx context.Context, url string, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return resp.StatusCode >= 500, fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, snippet)
}
