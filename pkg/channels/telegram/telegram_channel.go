package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"helpbot/pkg/api"
)

// TelegramConfig encapsulates the credentials and access policy for the
// Telegram Bot API.
type TelegramConfig struct {
	Token string `json:"token"` // The secret BOT API string provided by @BotFather

	// UserAllowlist restricts which user IDs the bot answers in direct
	// messages. Empty means everyone.
	UserAllowlist []string `json:"user_allowlist,omitempty"`
}

// TelegramChannel is the production implementation of gateway.Channel for
// the Telegram platform. It long-polls for updates, filters messages by
// the access policy, and splits long replies into multiple bubbles.
type TelegramChannel struct {
	config       TelegramConfig
	bot          *tgbotapi.BotAPI
	messageLimit int
	stopCtx      context.Context    // Context used to abort the long-polling HTTP request
	stopCancel   context.CancelFunc
}

func NewTelegramChannel(cfg TelegramConfig, msgLimit int) (api.Channel, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Dedicated HTTP client tied to stopCtx so active long-polling
	// requests abort instantly on Stop(), preventing the 409 Conflict
	// when a reloaded instance starts polling.
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	botHttpClient := &http.Client{
		Timeout: 90 * time.Second,
		Transport: &http.Transport{
			DialContext: func(dialCtx context.Context, network, addr string) (net.Conn, error) {
				mergedCtx, mergedCancel := context.WithCancel(dialCtx)
				go func() {
					select {
					case <-ctx.Done():
						mergedCancel()
					case <-mergedCtx.Done():
					}
				}()
				return dialer.DialContext(mergedCtx, network, addr)
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, botHttpClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &TelegramChannel{
		config:       cfg,
		bot:          bot,
		messageLimit: msgLimit,
		stopCtx:      ctx,
		stopCancel:   cancel,
	}, nil
}

// ID returns the unique platform identifier "telegram".
func (t *TelegramChannel) ID() string {
	return "telegram"
}

// Start initiates the long-polling update loop in a background goroutine.
func (t *TelegramChannel) Start(ctx api.ChannelContext) error {
	offset := 0

	go func() {
		for {
			select {
			case <-t.stopCtx.Done():
				return
			default:
			}

			reqConfig := tgbotapi.NewUpdate(offset)
			reqConfig.Timeout = 60

			updates, err := t.bot.GetUpdates(reqConfig)
			if err != nil {
				select {
				case <-t.stopCtx.Done():
					return
				default:
					slog.Debug("Failed to get telegram updates", "error", err)
					time.Sleep(3 * time.Second)
					continue
				}
			}

			for _, update := range updates {
				if update.UpdateID < offset {
					continue
				}
				offset = update.UpdateID + 1

				if update.Message == nil || update.Message.From == nil {
					continue
				}

				userID := strconv.FormatInt(update.Message.From.ID, 10)
				content, ok := FilterIncoming(
					t.bot.Self.UserName,
					update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup(),
					userID,
					t.config.UserAllowlist,
					update.Message.Text,
				)
				if !ok {
					continue
				}

				msg := &api.UnifiedMessage{
					Session: api.SessionContext{
						ChannelID: "telegram",
						UserID:    userID,
						ChatID:    strconv.FormatInt(update.Message.Chat.ID, 10),
						Username:  update.Message.From.UserName,
					},
					Content: content,
					Raw:     update.Message,
				}
				ctx.OnMessage(t.ID(), msg)
			}
		}
	}()

	return nil
}

// FilterIncoming decides whether a message should reach the bot and
// returns the cleaned text. Direct messages pass when the sender is on
// the allowlist (or the allowlist is empty). Group messages pass only
// when the bot is @mentioned; the mention is stripped from the text.
func FilterIncoming(botUsername string, isGroup bool, userID string, allowlist []string, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	if isGroup {
		cleaned, mentioned := stripMention(text, "@"+botUsername)
		if !mentioned || cleaned == "" {
			return "", false
		}
		return cleaned, true
	}

	if len(allowlist) == 0 {
		return text, true
	}
	for _, id := range allowlist {
		if id == userID {
			return text, true
		}
	}
	return "", false
}

// stripMention removes whole-token occurrences of the bot mention and
// reports whether any were found. Matching per token keeps a longer
// username like @helpbot2 from satisfying a mention of @helpbot.
func stripMention(text, mention string) (string, bool) {
	mentioned := false
	kept := make([]string, 0, 8)
	for _, field := range strings.Fields(text) {
		// Usernames are [A-Za-z0-9_], so trailing punctuation is
		// not part of the mention.
		if field == mention || strings.TrimRight(field, ".,:;!?") == mention {
			mentioned = true
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " "), mentioned
}

// SendSignal implements the gateway.SignalingChannel interface. The
// "thinking" signal maps to Telegram's typing chat action.
func (t *TelegramChannel) SendSignal(session api.SessionContext, signal string) error {
	if signal == "thinking" {
		chatID, err := strconv.ParseInt(session.ChatID, 10, 64)
		if err != nil {
			return err
		}
		action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
		_, err = t.bot.Send(action)
		return err
	}
	return nil
}

func (t *TelegramChannel) Stop() error {
	t.stopCancel()

	if httpClient, ok := t.bot.Client.(*http.Client); ok && httpClient != nil {
		if transport, ok := httpClient.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}

	return nil
}

func (t *TelegramChannel) Send(session api.SessionContext, message string) error {
	// Telegram Chat ID must be int64
	chatID, err := strconv.ParseInt(session.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id for telegram: %s", session.ChatID)
	}

	for _, chunk := range SplitMessage(message, t.messageLimit) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send failed: %w", err)
		}
	}
	return nil
}

// SplitMessage splits a long message into rune-safe chunks of at most
// limit characters.
func SplitMessage(message string, limit int) []string {
	msgRunes := []rune(message)
	totalLen := len(msgRunes)

	if limit <= 0 || totalLen <= limit {
		return []string{message}
	}

	chunks := make([]string, 0, totalLen/limit+1)
	for i := 0; i < totalLen; i += limit {
		end := i + limit
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(msgRunes[i:end]))
	}
	return chunks
}
