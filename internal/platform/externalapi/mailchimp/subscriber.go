package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"ecommerce_backend/internal/feature/auth/usecase"
)

type memberRequest struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type memberResponse struct {
	Status string `json:"status"`
}

// errorResponse はAPIエラー時のボディです。status は数値で返るため読みません。
type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Subscriber はニュースレターのリストにメンバーを追加する usecase.Subscriber 実装です。
type Subscriber struct {
	cfg    Config
	client *http.Client
}

var _ usecase.Subscriber = (*Subscriber)(nil)

// NewSubscriber は指定された設定とHTTPクライアントでSubscriberを生成します。
func NewSubscriber(cfg Config, client *http.Client) *Subscriber {
	return &Subscriber{cfg: cfg, client: client}
}

// Subscribe adds email to the configured list and returns the member status Mailchimp reports.
func (s *Subscriber) Subscribe(ctx context.Context, email string) (string, error) {
	endpoint, err := s.cfg.Endpoint()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(memberRequest{EmailAddress: email, Status: usecase.SubscriptionSubscribed})
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/lists/%s/members", endpoint, url.PathEscape(s.cfg.ListKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("anystring", s.cfg.APIKey)

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailchimp request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	dec := json.NewDecoder(io.LimitReader(res.Body, 1<<20))
	if res.StatusCode >= 400 {
		var e errorResponse
		_ = dec.Decode(&e)
		return "", fmt.Errorf("mailchimp http %d: %s", res.StatusCode, e.Title)
	}
	var body memberResponse
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("mailchimp decode: %w", err)
	}
	return body.Status, nil
}

// NoopSubscriber is used when Mailchimp is not configured. It never subscribes anyone.
type NoopSubscriber struct{}

var _ usecase.Subscriber = NoopSubscriber{}

// Subscribe returns an empty status.
func (NoopSubscriber) Subscribe(context.Context, string) (string, error) { return "", nil }
