package events

import (
	"context"
	"fmt"
	"log"
	"strings"

	tbapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/prandsen/telebot/app/bot"
	"github.com/prandsen/telebot/app/video"
)

//go:generate moq --out mocks/tb_api.go --pkg mocks --with-resets --skip-ensure . TbAPI
//go:generate moq --out mocks/reply_logger.go --pkg mocks --with-resets --skip-ensure . ReplyLogger
//go:generate moq --out mocks/bot.go --pkg mocks --with-resets --skip-ensure . Bot
//go:generate moq --out mocks/downloader.go --pkg mocks --with-resets --skip-ensure . Downloader

// TbAPI is an interface for telegram bot API, only subset of methods used
type TbAPI interface {
	GetUpdatesChan(config tbapi.UpdateConfig) tbapi.UpdatesChannel
	Send(c tbapi.Chattable) (tbapi.Message, error)
	Request(c tbapi.Chattable) (*tbapi.APIResponse, error)
	StopReceivingUpdates()
}

// ReplyLogger is an interface for logger of sent replies
type ReplyLogger interface {
	Save(msg *bot.Message, response *bot.Response)
}

// ReplyLoggerFunc is a function that implements ReplyLogger interface
type ReplyLoggerFunc func(msg *bot.Message, response *bot.Response)

// Save is a function that implements ReplyLogger interface
func (f ReplyLoggerFunc) Save(msg *bot.Message, response *bot.Response) {
	f(msg, response)
}

// Bot is an interface for bot events.
type Bot interface {
	OnMessage(ctx context.Context, msg bot.Message) (response bot.Response)
}

// Downloader fetches a video to a local file, the caller removes the file
type Downloader interface {
	Download(ctx context.Context, link video.Link) (string, error)
}

// transform converts telegram message to bot.Message, caption is used as text or appended to it
func transform(msg *tbapi.Message) *bot.Message {
	message := bot.Message{
		ID:   msg.MessageID,
		Sent: msg.Time(),
		Text: msg.Text,
	}

	if msg.Chat != nil {
		message.ChatID = msg.Chat.ID
	}

	if msg.From != nil {
		message.From = bot.User{
			ID:       msg.From.ID,
			Username: msg.From.UserName,
		}
	}

	if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
		message.From.DisplayName = msg.From.FirstName
	}
	if msg.From != nil && strings.TrimSpace(msg.From.LastName) != "" {
		message.From.DisplayName += " " + msg.From.LastName
	}

	if msg.Caption != "" {
		if message.Text == "" {
			log.Printf("[DEBUG] caption only message: %q", msg.Caption)
			message.Text = msg.Caption
		} else {
			message.Text += "\n" + msg.Caption
		}
	}
	return &message
}

// userName returns @username if set, otherwise first and last names
func userName(u *tbapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// send sends a chattable to telegram waiting for the outbound limiter first
func (l *TelegramListener) send(ctx context.Context, c tbapi.Chattable) error {
	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("send limiter: %w", err)
		}
	}
	if _, err := l.TbAPI.Send(c); err != nil {
		return fmt.Errorf("can't send to telegram: %w", err)
	}
	return nil
}

// sendBotResponse sends bot's answer as plain text, replying to the message if ReplyTo set
func (l *TelegramListener) sendBotResponse(ctx context.Context, resp bot.Response, chatID int64) error {
	if !resp.Send {
		return nil
	}

	log.Printf("[DEBUG] bot response - %+v, reply-to:%d", strings.ReplaceAll(resp.Text, "\n", "\\n"), resp.ReplyTo)
	tbMsg := tbapi.NewMessage(chatID, resp.Text)
	tbMsg.DisableWebPagePreview = true
	tbMsg.ReplyToMessageID = resp.ReplyTo

	if err := l.send(ctx, tbMsg); err != nil {
		return fmt.Errorf("can't send message %q: %w", resp.Text, err)
	}
	return nil
}

// sendVideo uploads the local video file as a reply
func (l *TelegramListener) sendVideo(ctx context.Context, chatID int64, replyTo int, path string) error {
	tbVideo := tbapi.NewVideo(chatID, tbapi.FilePath(path))
	tbVideo.ReplyToMessageID = replyTo
	tbVideo.SupportsStreaming = true
	if err := l.send(ctx, tbVideo); err != nil {
		return fmt.Errorf("can't send video %s: %w", path, err)
	}
	return nil
}
