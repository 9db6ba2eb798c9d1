package di

import (
	"log/slog"

	"ecommerce_backend/internal/feature/auth/usecase"
	"ecommerce_backend/internal/platform/externalapi/mailchimp"
	"ecommerce_backend/internal/platform/externalapi/mailgun"
	infrahttp "ecommerce_backend/internal/platform/http"
)

// NewNotifier creates a Mailgun notifier, or a log-only notifier when Mailgun is not configured.
func NewNotifier(cfg mailgun.Config) usecase.Notifier {
	if !cfg.Enabled() {
		slog.Warn("Mailgun is not configured. Emails will only be logged.")
		return mailgun.LogNotifier{}
	}
	return mailgun.NewNotifier(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewSubscriber creates a Mailchimp subscriber, or a no-op one when Mailchimp is not configured.
func NewSubscriber(cfg mailchimp.Config) usecase.Subscriber {
	if !cfg.Enabled() {
		slog.Warn("Mailchimp is not configured. Newsletter subscriptions are disabled.")
		return mailchimp.NoopSubscriber{}
	}
	return mailchimp.NewSubscriber(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
