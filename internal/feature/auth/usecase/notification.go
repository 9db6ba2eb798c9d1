package usecase

import "context"

// TemplateKind selects the email template a Notifier renders.
type TemplateKind string

const (
	TemplateSignup            TemplateKind = "signup"
	TemplateReset             TemplateKind = "reset"
	TemplateResetConfirmation TemplateKind = "reset-confirmation"
)

// SubscriptionSubscribed is the status a Subscriber reports for an active subscription.
const SubscriptionSubscribed = "subscribed"

// Notification is an outbound email request.
// Host and Token are only set for TemplateReset.
type Notification struct {
	To        string
	Kind      TemplateKind
	FirstName string
	Host      string
	Token     string
}

// Notifier delivers transactional emails.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// Subscriber adds an email address to the newsletter list and returns its status.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (string, error)
}
