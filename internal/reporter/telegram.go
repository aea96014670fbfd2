package reporter

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-shift-hunter/internal/scraper"
)

// Notifier tells the operator what the hunter did.
type Notifier interface {
	NotifySubmitted(l scraper.Listing) error
	NotifyError(err error) error
}

// Nop is used when no notification channel is configured.
type Nop struct{}

func (Nop) NotifySubmitted(scraper.Listing) error { return nil }
func (Nop) NotifyError(error) error               { return nil }

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) NotifySubmitted(l scraper.Listing) error {
	return t.SendMessage(FormatSubmitted(l))
}

func (t *TelegramReporter) NotifyError(errReq error) error {
	return t.SendMessage(FormatError(errReq))
}

// FormatSubmitted renders the HTML message sent after a successful application.
func FormatSubmitted(l scraper.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ <b>Application submitted</b>\n")
	fmt.Fprintf(&b, "🏭 %s\n", html.EscapeString(orNA(l.Name)))
	fmt.Fprintf(&b, "🕒 %s\n", html.EscapeString(orNA(l.EmploymentType)))
	fmt.Fprintf(&b, "📅 %s\n", html.EscapeString(orNA(l.ShiftAvailability)))
	if l.PayRate != "" {
		fmt.Fprintf(&b, "💰 %s\n", html.EscapeString(l.PayRate))
	}
	if l.Duration != "" {
		fmt.Fprintf(&b, "⏳ %s\n", html.EscapeString(l.Duration))
	}
	fmt.Fprintf(&b, "📍 %s", html.EscapeString(orNA(l.Location)))
	return b.String()
}

func FormatError(err error) string {
	return fmt.Sprintf("⚠️ <b>Shift hunter stopped</b>:\n%s", html.EscapeString(err.Error()))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
