package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
)

type ResendNotifier struct {
	client *resend.Client
}

type ResendOption func(*resend.Client) error

// WithBaseURL points the client at another API host.
func WithBaseURL(raw string) ResendOption {
	return func(c *resend.Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid resend base url: %w", err)
		}
		c.BaseURL = u
		return nil
	}
}

// NewResendNotifier accepts an empty apiKey; the API rejects each send and
// the caller logs it.
func NewResendNotifier(apiKey string, opts ...ResendOption) (*ResendNotifier, error) {
	client := resend.NewCustomClient(&http.Client{Timeout: 15 * time.Second}, apiKey)

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return &ResendNotifier{client: client}, nil
}

func (n *ResendNotifier) Send(ctx context.Context, email domain.Email) (string, error) {
	resp, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}

	return resp.Id, nil
}

// Compile-time check
var _ domain.Notifier = (*ResendNotifier)(nil)
