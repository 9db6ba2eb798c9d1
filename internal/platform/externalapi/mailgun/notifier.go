package mailgun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mg "github.com/mailgun/mailgun-go/v4"

	"ecommerce_backend/internal/feature/auth/usecase"
)

// Notifier はMailgun Messages APIでメールを送信する usecase.Notifier 実装です。
type Notifier struct {
	sender string
	client *mg.MailgunImpl
}

// NotifierがNotifierインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.Notifier = (*Notifier)(nil)

// NewNotifier は指定された設定とHTTPクライアントでNotifierを生成します。
func NewNotifier(cfg Config, httpClient *http.Client) *Notifier {
	c := mg.NewMailgun(cfg.Domain, cfg.APIKey)
	c.SetAPIBase(cfg.BaseURL)
	c.SetClient(httpClient)
	return &Notifier{sender: cfg.Sender, client: c}
}

// Send renders n and posts it to {base}/{domain}/messages.
func (m *Notifier) Send(ctx context.Context, n usecase.Notification) error {
	msg, err := render(n)
	if err != nil {
		return err
	}

	_, id, err := m.client.Send(ctx, mg.NewMessage(m.sender, msg.Subject, msg.Text, n.To))
	if err != nil {
		var ure *mg.UnexpectedResponseError
		if errors.As(err, &ure) {
			return fmt.Errorf("mailgun http %d: %w", ure.Actual, err)
		}
		return fmt.Errorf("mailgun send: %w", err)
	}
	slog.Debug("email queued", "kind", n.Kind, "message_id", id)
	return nil
}

// LogNotifier は送信せずにログだけ出力する Notifier です。Mailgun未設定時に使います。
type LogNotifier struct{}

var _ usecase.Notifier = LogNotifier{}

// Send logs the notification kind and recipient. The reset token is never logged.
func (LogNotifier) Send(_ context.Context, n usecase.Notification) error {
	slog.Info("email delivery disabled; notification dropped", "kind", n.Kind, "email", n.To)
	return nil
}
