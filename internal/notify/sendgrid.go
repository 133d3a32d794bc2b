// Package notify отправляет пользователям письма с чеками.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// DefaultHost задаёт адрес API SendGrid по умолчанию.
const DefaultHost = "https://api.sendgrid.com"

const sendEndpoint = "/v3/mail/send"

// SendGridClient отправляет письма через SendGrid v3 API.
type SendGridClient struct {
	apiKey string
	host   string
	from   *mail.Email
	logger *zap.Logger
}

// NewSendGridClient создаёт клиент SendGrid. Пустой host означает DefaultHost.
func NewSendGridClient(apiKey, host, from string, logger *zap.Logger) *SendGridClient {
	if host == "" {
		host = DefaultHost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridClient{
		apiKey: apiKey,
		host:   host,
		from:   mail.NewEmail("Order Desk", from),
		logger: logger,
	}
}

// Send отправляет письмо с текстовой и HTML-частью.
func (c *SendGridClient) Send(ctx context.Context, to, subject, body string) error {
	if c.apiKey == "" {
		return errors.New("sendgrid api key is empty")
	}
	if c.from.Address == "" {
		return errors.New("from address is empty")
	}
	if to == "" {
		return errors.New("to address is empty")
	}

	message := mail.NewSingleEmail(
		c.from,
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	request := sendgrid.GetRequest(c.apiKey, sendEndpoint, c.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	c.logger.Info("receipt sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("status", response.StatusCode),
	)
	return nil
}
