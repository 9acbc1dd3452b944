// Package notify предоставляет клиент внешнего сервиса уведомлений о пополнении запасов.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с сервисом уведомлений.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// RestockMessage описывает тело уведомления о нехватке продукции.
type RestockMessage struct {
	AlertID     int64           `json:"alertId"`
	Branch      string          `json:"branch"`
	ProduceName string          `json:"produceName"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
	RaisedAt    string          `json:"raisedAt"`
}

// NewClient создаёт HTTP-клиент для обращения к сервису уведомлений по указанному адресу.
// Сетевые ошибки и ответы 5xx повторяются, 429 возвращается вызывающему без повторов.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = 5 * time.Second
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// SendRestockAlert отправляет уведомление и возвращает код ответа и паузу из Retry-After.
func (c *Client) SendRestockAlert(ctx context.Context, alert model.RestockAlert) (int, time.Duration, error) {
	if c == nil || c.baseURL == "" {
		return 0, 0, fmt.Errorf("notify client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	payload, err := json.Marshal(RestockMessage{
		AlertID:     alert.ID,
		Branch:      string(alert.Branch),
		ProduceName: alert.ProduceName,
		Requested:   alert.Requested,
		Available:   alert.Available,
		RaisedAt:    alert.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("encode alert: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, base+"/api/restock", payload)
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return resp.StatusCode, retryAfter, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return resp.StatusCode, 0, nil
}
