package notify

import (
	"context"
	"fmt"

	"github.com/Kariqs/storefront-api/store"
	"github.com/Kariqs/storefront-api/utils"
)

// Mailer emails an order confirmation to the customer when an order is
// placed. Status updates are not mailed.
type Mailer struct {
	users        store.UserStore
	smtp         utils.SMTPConfig
	templatePath string
	send         func(ctx context.Context, cfg utils.SMTPConfig, to, subject, templatePath string, data any) error
}

func NewMailer(users store.UserStore, cfg utils.SMTPConfig, templatePath string) *Mailer {
	return &Mailer{users: users, smtp: cfg, templatePath: templatePath, send: utils.SendEmail}
}

func (m *Mailer) Name() string { return "mail" }

func (m *Mailer) Send(ctx context.Context, event Event) error {
	if event.Type != EventOrderPlaced {
		return nil
	}
	user, err := m.users.FindUserByID(ctx, event.Order.UserID)
	if err != nil {
		return fmt.Errorf("look up order owner: %w", err)
	}
	subject := fmt.Sprintf("Order %s confirmed", event.Order.OrderNumber)
	return m.send(ctx, m.smtp, user.Email, subject, m.templatePath, utils.NewOrderEmailData(event.Order))
}
