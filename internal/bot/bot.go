// Package bot runs the Telegram session: it decodes raw updates into
// transport messages, hands them to the router and delivers replies.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"botpanel/internal/router"
	"botpanel/internal/transport"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewBot authorizes against the Telegram API. An empty token disables the
// chat side entirely and returns (nil, nil); a nil *Bot is safe to Start.
func NewBot(token string, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		logger.Info("Chat bot is disabled (no token configured)")
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Chat bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{api: api, logger: logger}, nil
}

// Start long-polls for updates until the context is cancelled. Every decoded
// message goes through the router; a non-empty reply is sent back to the
// originating chat.
func (b *Bot) Start(ctx context.Context, rt *router.Router) error {
	if b == nil {
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Chat bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Chat bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := decodeMessage(update.Message)
			reply := rt.Handle(ctx, msg)
			if reply == "" {
				continue
			}
			if err := b.SendText(ctx, msg.ChatID, reply); err != nil {
				b.logger.Error("Failed to send reply",
					zap.String("chat_id", msg.ChatID),
					zap.Error(err))
			}
		}
	}
}

// decodeMessage flattens a raw update into the transport shape. Telegram
// sends photos as a sized series; the largest rendition carries the ref.
func decodeMessage(m *tgbotapi.Message) *transport.Message {
	msg := &transport.Message{
		ID:        strconv.Itoa(m.MessageID),
		ChatID:    strconv.FormatInt(m.Chat.ID, 10),
		Text:      m.Text,
		Timestamp: time.Unix(int64(m.Date), 0),
		IsGroup:   m.Chat.IsGroup() || m.Chat.IsSuperGroup(),
	}
	if m.From != nil {
		msg.Sender = m.From.UserName
		if msg.Sender == "" {
			msg.Sender = strconv.FormatInt(m.From.ID, 10)
		}
	}

	switch {
	case len(m.Photo) > 0:
		best := m.Photo[len(m.Photo)-1]
		msg.Attachment = transport.Image{
			Text: m.Caption,
			MIME: "image/jpeg",
			Ref:  best.FileID,
		}
	case m.Video != nil:
		msg.Attachment = transport.Video{
			Text: m.Caption,
			MIME: m.Video.MimeType,
			Ref:  m.Video.FileID,
		}
	case m.Document != nil:
		msg.Attachment = transport.Document{
			Text: m.Caption,
			Name: m.Document.FileName,
			MIME: m.Document.MimeType,
			Ref:  m.Document.FileID,
		}
	case m.Audio != nil:
		msg.Attachment = transport.Audio{
			MIME: m.Audio.MimeType,
			Ref:  m.Audio.FileID,
		}
	case m.Voice != nil:
		msg.Attachment = transport.Audio{
			MIME: m.Voice.MimeType,
			Ref:  m.Voice.FileID,
		}
	}

	return msg
}

func (b *Bot) SendText(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) DownloadAttachment(ctx context.Context, msg *transport.Message) ([]byte, error) {
	ref := attachmentRef(msg.Attachment)
	if ref == "" {
		return nil, fmt.Errorf("message %s has no downloadable attachment", msg.ID)
	}

	url, err := b.api.GetFileDirectURL(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func attachmentRef(a transport.Attachment) string {
	switch v := a.(type) {
	case transport.Image:
		return v.Ref
	case transport.Video:
		return v.Ref
	case transport.Document:
		return v.Ref
	case transport.Audio:
		return v.Ref
	default:
		return ""
	}
}
