package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotController handles Telegram commands and controls bot state
type BotController struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool

	mu    sync.RWMutex
	muted bool

	// Callbacks
	onStatusRequest func() string
	onStatsRequest  func() string
}

// NewBotController creates a new bot controller with command handling
func NewBotController(botToken string, chatID int64, enabled bool) (*BotController, error) {
	if !enabled || botToken == "" {
		return &BotController{enabled: false}, nil
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &BotController{
		bot:     bot,
		chatID:  chatID,
		enabled: true,
	}, nil
}

// SetCallbacks sets the callback functions for status and stats
func (c *BotController) SetCallbacks(onStatus, onStats func() string) {
	c.onStatusRequest = onStatus
	c.onStatsRequest = onStats
}

// StartCommandListener starts listening for Telegram commands
func (c *BotController) StartCommandListener(ctx context.Context) {
	if !c.enabled {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.bot.GetUpdatesChan(u)

	go func() {
		defer c.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || !update.Message.IsCommand() {
					continue
				}

				// Only respond to authorized chat
				if update.Message.Chat.ID != c.chatID {
					continue
				}

				reply := tgbotapi.NewMessage(c.chatID, c.respond(update.Message.Command()))
				reply.ParseMode = tgbotapi.ModeHTML
				c.bot.Send(reply)
			}
		}
	}()
}

func (c *BotController) respond(command string) string {
	switch command {
	case "start", "help":
		return helpMessage
	case "status":
		return c.statusMessage()
	case "mute":
		c.SetMuted(true)
		return "🔕 <b>Lead alerts muted</b>\n\nNew leads are still accepted and logged."
	case "unmute":
		c.SetMuted(false)
		return "🔔 <b>Lead alerts active</b>\n\nNew leads will be posted here."
	case "stats":
		if c.onStatsRequest != nil {
			return c.onStatsRequest()
		}
		return "Statistics not available."
	default:
		return "Unknown command. Use /help for an overview."
	}
}

const helpMessage = `🏛 <b>LuxuryEstate bot</b>

/status - Current service status
/stats - Lead statistics
/mute - Stop posting lead alerts
/unmute - Resume lead alerts
/help - This help`

func (c *BotController) statusMessage() string {
	mode := "🔔 Lead alerts active"
	if c.IsMuted() {
		mode = "🔕 Lead alerts muted"
	}

	status := fmt.Sprintf("🏛 <b>LuxuryEstate status</b>\n\n<b>Mode:</b> %s", mode)
	if c.onStatusRequest != nil {
		status += "\n\n" + c.onStatusRequest()
	}
	return status
}

// IsMuted reports whether lead alerts are suppressed
func (c *BotController) IsMuted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.muted
}

// SetMuted suppresses or resumes lead alerts
func (c *BotController) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
}

// GetBot returns the underlying bot API for notifications
func (c *BotController) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

// GetChatID returns the configured chat ID
func (c *BotController) GetChatID() int64 {
	return c.chatID
}

// IsEnabled returns whether the controller is enabled
func (c *BotController) IsEnabled() bool {
	return c.enabled
}
