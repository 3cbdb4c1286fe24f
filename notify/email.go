package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"pricetracker/config"
	"pricetracker/models"
)

// EmailNotifier sends price alerts over SMTP.
type EmailNotifier struct {
	cfg *config.Config
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Notify(ctx context.Context, notification models.Notification) error {
	if n.cfg.SMTPHost == "" || n.cfg.FromEmail == "" {
		log.Println("Email config missing, skipping email notification")
		return nil
	}

	to := strings.TrimSpace(notification.Product.NotificationEmail)
	if to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subjectFor(notification))
	m.SetBody("text/html", htmlBodyFor(notification))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email notification sent to %s for product %d (%s)", to, notification.Product.ID, notification.Kind)
	return nil
}

func subjectFor(n models.Notification) string {
	switch n.Kind {
	case models.NotificationTargetReached:
		return fmt.Sprintf("Target price reached: %s", n.Product.Name)
	case models.NotificationPriceDrop:
		return fmt.Sprintf("Price drop: %s", n.Product.Name)
	default:
		return fmt.Sprintf("Price alert: %s", n.Product.Name)
	}
}

func htmlBodyFor(n models.Notification) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family: Arial, sans-serif;">`)
	b.WriteString(`<div style="max-width: 520px; margin: 0 auto; padding: 16px;">`)

	switch n.Kind {
	case models.NotificationTargetReached:
		b.WriteString("<h2>Target price reached</h2>")
		b.WriteString(fmt.Sprintf("<p><strong>%s</strong> is now at <strong>%.2f</strong>, below your target of %.2f.</p>",
			n.Product.Name, n.Product.GetCurrentPrice(), n.Product.TargetPrice))
	case models.NotificationPriceDrop:
		b.WriteString("<h2>Price drop detected</h2>")
		b.WriteString(fmt.Sprintf("<p><strong>%s</strong> dropped from %.2f to <strong>%.2f</strong>.</p>",
			n.Product.Name, n.OldPrice, n.NewPrice))
	}

	b.WriteString(fmt.Sprintf(`<p><a href="%s">View product</a></p>`, n.Product.URL))
	b.WriteString("</div></body></html>")
	return b.String()
}
