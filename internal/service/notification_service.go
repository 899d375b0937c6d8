package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mail"
	"go.uber.org/zap"
)

// NotificationService composes and sends the transactional emails the
// storefront triggers. All sends are fire-and-forget: they run in their
// own goroutine with a detached context, and failures are logged, never
// surfaced to the request that triggered them.
type NotificationService struct {
	mailer      mail.Mailer
	frontendURL string
	logger      *zap.Logger
}

func NewNotificationService(mailer mail.Mailer, frontendURL string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

const sendTimeout = 15 * time.Second

// sendAsync delivers the message in the background
func (s *NotificationService) sendAsync(msg mail.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error("Failed to send email",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		s.logger.Info("Email queued",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}()
}

// SendRegistrationConfirmation emails the confirmation link for a new account
func (s *NotificationService) SendRegistrationConfirmation(user *domain.User, token string) {
	link := fmt.Sprintf("%s/confirm-email?token=%s", s.frontendURL, token)

	text := fmt.Sprintf(
		"Hello %s,\n\nWelcome aboard. Please confirm your email address by opening the link below:\n\n%s\n\nIf you did not create this account, ignore this message.",
		user.FullName(), link)

	html := fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>Welcome aboard. Please confirm your email address:</p>
<p><a href="%s">Confirm email</a></p>
<p>If you did not create this account, ignore this message.</p>
</body></html>`, user.FullName(), link)

	s.sendAsync(mail.Message{
		To:       user.Email,
		Subject:  "Confirm your email address",
		TextBody: text,
		HTMLBody: html,
	})
}

// SendOrderConfirmation emails the order summary after checkout
func (s *NotificationService) SendOrderConfirmation(user *domain.User, order *domain.Order) {
	total := order.Total()

	text := fmt.Sprintf(
		"Hello %s,\n\nThank you for your order. Order %s has been placed.\n\nItems: %d\nTotal: %s\n\nWe will notify you when the order status changes.",
		user.FullName(), order.ID, len(order.Items), total.StringFixed(2))

	html := fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>Thank you for your order. Order <strong>%s</strong> has been placed.</p>
<ul>
<li>Items: %d</li>
<li>Total: %s</li>
</ul>
<p>We will notify you when the order status changes.</p>
</body></html>`, user.FullName(), order.ID, len(order.Items), total.StringFixed(2))

	s.sendAsync(mail.Message{
		To:       user.Email,
		Subject:  fmt.Sprintf("Order %s confirmed", order.ID),
		TextBody: text,
		HTMLBody: html,
	})
}
