// Package notifier reports sales and price moves to a Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/Rhymond/go-money"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/shopspring/decimal"

	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
	"skinvault/pkg/logx"
)

const defaultQueueSize = 100

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
	events chan entity.SkinEvent
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		events: make(chan entity.SkinEvent, defaultQueueSize),
	}, nil
}

// Enqueue hands an event to Run without blocking the caller. Events are
// dropped while the queue is full.
func (b *TelegramBot) Enqueue(ctx context.Context, event entity.SkinEvent) {
	if _, ok := FormatEvent(event); !ok {
		return
	}

	select {
	case b.events <- event:
	default:
		logger(ctx).Warn("notification queue is full, event dropped",
			slog.String("kind", string(event.Kind)),
			slog.Int64(logx.FieldSkinID, event.Skin.ID),
		)
	}
}

// Run sends queued events until ctx is done.
func (b *TelegramBot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-b.events:
			if err := b.SendEvent(ctx, event); err != nil {
				logger(ctx).Error("failed to send notification", logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendEvent(ctx context.Context, event entity.SkinEvent) error {
	text, ok := FormatEvent(event)
	if !ok {
		return nil
	}

	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// FormatEvent renders sales and price changes. Other events are not reported.
func FormatEvent(event entity.SkinEvent) (string, bool) {
	skin := event.Skin
	name := html.EscapeString(skin.Name)

	switch event.Kind {
	case entity.SkinSold:
		if event.Transaction == nil {
			return "", false
		}

		profit := event.Transaction.Amount.Sub(skin.PurchasePrice)

		return fmt.Sprintf(
			"💰 <b>Sold</b> %s\n\n"+
				"<b>Sale price:</b> %s\n"+
				"<b>Bought for:</b> %s\n"+
				"<b>Profit:</b> %s",
			name,
			usd(event.Transaction.Amount),
			usd(skin.PurchasePrice),
			usd(profit),
		), true
	case entity.SkinRepriced:
		arrow := "➡️"

		switch skin.Trend {
		case value.TrendUp:
			arrow = "📈"
		case value.TrendDown:
			arrow = "📉"
		case value.TrendNone:
		}

		return fmt.Sprintf(
			"%s <b>Price update</b> %s\n\n"+
				"<b>Current price:</b> %s\n"+
				"<b>Profit/Loss:</b> %s",
			arrow,
			name,
			usd(skin.CurrentPrice),
			usd(skin.ProfitLoss()),
		), true
	default:
		return "", false
	}
}

func usd(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display() //nolint:mnd
}
