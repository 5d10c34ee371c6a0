package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

// sender is the part of the bot API the notifier needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts leads to a Telegram chat
type Notifier struct {
	bot     sender
	chatID  int64
	enabled bool
	muted   func() bool
}

// NewNotifierFromController creates a notifier using an existing BotController.
// Lead alerts follow the controller's /mute state.
func NewNotifierFromController(controller *BotController) *Notifier {
	if controller == nil || !controller.IsEnabled() {
		return &Notifier{enabled: false}
	}
	return &Notifier{
		bot:     controller.GetBot(),
		chatID:  controller.GetChatID(),
		enabled: true,
		muted:   controller.IsMuted,
	}
}

// NotifyContact posts a general contact request
func (n *Notifier) NotifyContact(ctx context.Context, req *domain.ContactRequest) error {
	if !n.leadAlerts() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("✉️ <b>New contact request</b>\n\n")
	sb.WriteString(fmt.Sprintf("👤 %s\n", escapeHTML(req.Name)))
	writeReachability(&sb, req.Email, req.Phone)
	sb.WriteString(fmt.Sprintf("\n%s", escapeHTML(req.Message)))

	return n.send(sb.String())
}

// NotifyInquiry posts a property inquiry
func (n *Notifier) NotifyInquiry(ctx context.Context, inq *domain.PropertyInquiry) error {
	if !n.leadAlerts() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🏠 <b>New property inquiry</b>\n\n")
	sb.WriteString(fmt.Sprintf("<b>%s</b>", escapeHTML(inq.Property)))
	if inq.PropertyID != 0 {
		sb.WriteString(fmt.Sprintf(" (#%d)", inq.PropertyID))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("👤 %s\n", escapeHTML(inq.FullName)))
	writeReachability(&sb, inq.Email, inq.Phone)
	sb.WriteString(fmt.Sprintf("\n%s", escapeHTML(inq.Message)))

	return n.send(sb.String())
}

// NotifyBooking posts a tour booking request
func (n *Notifier) NotifyBooking(ctx context.Context, b *domain.TourBooking, tour domain.Tour) error {
	if !n.leadAlerts() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🗓 <b>New tour booking</b>\n\n")
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", escapeHTML(tour.Name)))
	sb.WriteString(fmt.Sprintf("📅 %s\n", escapeHTML(b.TourDate)))
	sb.WriteString(fmt.Sprintf("👥 %s\n\n", guests(b.NumberOfGuests)))
	sb.WriteString(fmt.Sprintf("👤 %s\n", escapeHTML(b.FullName)))
	writeReachability(&sb, b.Email, b.Phone)
	if b.SpecialRequests != "" {
		sb.WriteString(fmt.Sprintf("\n<b>Special requests:</b> %s", escapeHTML(b.SpecialRequests)))
	}

	return n.send(sb.String())
}

// NotifyError sends an error notification to the admin
func (n *Notifier) NotifyError(ctx context.Context, errMsg string) error {
	if !n.enabled {
		return nil
	}
	return n.send(fmt.Sprintf("⚠️ <b>Service error</b>\n\n%s", escapeHTML(errMsg)))
}

// NotifyStartup sends a notification that the service has started
func (n *Notifier) NotifyStartup(ctx context.Context, properties, tours int, addr string) error {
	if !n.enabled {
		return nil
	}
	return n.send(fmt.Sprintf(
		"🚀 <b>LuxuryEstate started</b>\n\n"+
			"<b>Properties:</b> %s\n"+
			"<b>Tours:</b> %d\n"+
			"<b>Listening on:</b> %s",
		humanize.Comma(int64(properties)), tours, escapeHTML(addr),
	))
}

// SendRawMessage sends a raw HTML message
func (n *Notifier) SendRawMessage(ctx context.Context, text string) error {
	if !n.enabled {
		return nil
	}
	return n.send(text)
}

// IsEnabled returns whether the notifier is enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

func (n *Notifier) leadAlerts() bool {
	if !n.enabled {
		return false
	}
	return n.muted == nil || !n.muted()
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	_, err := n.bot.Send(msg)
	return err
}

func writeReachability(sb *strings.Builder, email, phone string) {
	sb.WriteString(fmt.Sprintf("📧 %s\n", escapeHTML(email)))
	if phone != "" {
		sb.WriteString(fmt.Sprintf("📞 %s\n", escapeHTML(phone)))
	}
}

func guests(n int) string {
	if n == 1 {
		return "1 guest"
	}
	return fmt.Sprintf("%d guests", n)
}

// escapeHTML escapes HTML special characters for Telegram
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
