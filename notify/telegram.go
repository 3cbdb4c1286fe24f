package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pricetracker/models"
)

// TelegramNotifier posts price alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, notification models.Notification) error {
	var text string
	switch notification.Kind {
	case models.NotificationTargetReached:
		text = fmt.Sprintf(
			"🎯 Target price reached!\n\nProduct: %s\nCurrent price: %.2f\nTarget price: %.2f\n\nLink: %s",
			notification.Product.Name,
			notification.Product.GetCurrentPrice(),
			notification.Product.TargetPrice,
			notification.Product.URL,
		)
	case models.NotificationPriceDrop:
		text = fmt.Sprintf(
			"📉 Price drop!\n\nProduct: %s\nPrice: %.2f → %.2f\n\nLink: %s",
			notification.Product.Name,
			notification.OldPrice,
			notification.NewPrice,
			notification.Product.URL,
		)
	default:
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	log.Printf("Telegram notification sent for product %d (%s)", notification.Product.ID, notification.Kind)
	return nil
}
