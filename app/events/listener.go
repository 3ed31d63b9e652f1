// Package events provides event handlers for telegram bot. It receives updates, passes text messages
// to the bot for canned replies, downloads and sends back videos from links in messages and answers
// inline queries with jokes.
package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	tbapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"

	"github.com/prandsen/telebot/app/bot"
	"github.com/prandsen/telebot/app/video"
	"github.com/prandsen/telebot/lib/trigger"
)

// MsgVideoSendFailed is sent if the downloaded video can't be delivered
const MsgVideoSendFailed = "Чет я приуныл и не смог отправить видео"

// TelegramListener listens to tg updates, forwards messages to the bot and sends back responses.
// Every update is handled in its own goroutine.
type TelegramListener struct {
	TbAPI       TbAPI
	Bot         Bot
	Downloader  Downloader
	ReplyLogger ReplyLogger    // optional
	Limiter     *rate.Limiter  // optional outbound rate limit
	Picker      trigger.Picker // jokes randomizer, random seed if nil
}

// Do process all events, blocked call. Returns ctx.Err() after all in-flight updates are handled.
func (l *TelegramListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start telegram listener")
	if l.Picker == nil {
		l.Picker = trigger.NewRandomPicker(0)
	}

	u := tbapi.NewUpdate(0)
	u.Timeout = 60
	updates := l.TbAPI.GetUpdatesChan(u)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			l.TbAPI.StopReceivingUpdates()
			wg.Wait()
			log.Printf("[INFO] telegram listener stopped")
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return errors.New("telegram update chan closed")
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.handle(ctx, update)
			}()
		}
	}
}

// handle processes a single update, never panics
func (l *TelegramListener) handle(ctx context.Context, update tbapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] panic in update %d handler: %v\n%s", update.UpdateID, r, debug.Stack())
		}
	}()

	var err error
	switch {
	case update.InlineQuery != nil:
		err = l.procInlineQuery(ctx, update.InlineQuery)
	case update.Message != nil:
		err = l.procMessage(ctx, update.Message)
	default:
		log.Printf("[DEBUG] ignored update %d", update.UpdateID)
	}
	if err != nil {
		log.Printf("[WARN] failed to process update %d: %v", update.UpdateID, err)
	}
}

func (l *TelegramListener) procMessage(ctx context.Context, tbMsg *tbapi.Message) error {
	if tbMsg.Chat == nil {
		log.Print("[DEBUG] ignoring message not from chat")
		return nil
	}
	msg := transform(tbMsg)
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	log.Printf("[DEBUG] incoming msg from chat %d: %s", msg.ChatID, strings.ReplaceAll(msg.Text, "\n", " "))

	resp := l.Bot.OnMessage(ctx, *msg)
	if resp.Send {
		if err := l.sendBotResponse(ctx, resp, msg.ChatID); err != nil {
			return fmt.Errorf("failed to respond on message %d: %w", msg.ID, err)
		}
		l.saveReply(msg, &resp)
		return nil
	}

	links := video.Extract(msg.Text)
	if links.Empty() {
		return nil
	}

	errs := new(multierror.Error)
	for _, link := range links.List() {
		if err := l.procVideo(ctx, msg, link); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// procVideo downloads the video and sends it as a reply. Download failures are reported to the chat,
// the downloaded file is removed after the send attempt.
func (l *TelegramListener) procVideo(ctx context.Context, msg *bot.Message, link video.Link) error {
	path, err := l.Downloader.Download(ctx, link)
	if err != nil {
		var de *video.Error
		if !errors.As(err, &de) {
			return fmt.Errorf("can't download %s: %w", link, err)
		}
		log.Printf("[WARN] download of %s failed: %v", link, err)
		resp := bot.Response{Send: true, Text: de.Message, ReplyTo: msg.ID, Kind: "video-error"}
		if err := l.sendBotResponse(ctx, resp, msg.ChatID); err != nil {
			return fmt.Errorf("can't report failed download of %s: %w", link, err)
		}
		l.saveReply(msg, &resp)
		return nil
	}

	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("[WARN] failed to remove %s: %v", path, err)
			return
		}
		log.Printf("[DEBUG] removed %s", path)
	}()

	if err := l.sendVideo(ctx, msg.ChatID, msg.ID, path); err != nil {
		errs := multierror.Append(new(multierror.Error), fmt.Errorf("video %s: %w", link, err))
		apology := bot.Response{Send: true, Text: MsgVideoSendFailed, ReplyTo: msg.ID, Kind: "video-error"}
		if e := l.sendBotResponse(ctx, apology, msg.ChatID); e != nil {
			errs = multierror.Append(errs, e)
		}
		return errs.ErrorOrNil()
	}
	log.Printf("[INFO] sent video %s to chat %d", link, msg.ChatID)
	l.saveReply(msg, &bot.Response{Send: true, Text: link.URL, ReplyTo: msg.ID, Kind: "video"})
	return nil
}

func (l *TelegramListener) procInlineQuery(ctx context.Context, q *tbapi.InlineQuery) error {
	name := userName(q.From)
	if name == "" {
		name = "Аноним"
	}
	cfg := tbapi.InlineConfig{
		InlineQueryID: q.ID,
		Results:       jokes(name, l.Picker),
		IsPersonal:    true,
		CacheTime:     1, // zero is omitted from the request and telegram caches for 300s
	}
	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("send limiter: %w", err)
		}
	}
	if _, err := l.TbAPI.Request(cfg); err != nil {
		return fmt.Errorf("can't answer inline query %s: %w", q.ID, err)
	}
	log.Printf("[DEBUG] answered inline query %s from %s", q.ID, name)
	return nil
}

func (l *TelegramListener) saveReply(msg *bot.Message, resp *bot.Response) {
	if l.ReplyLogger == nil {
		return
	}
	l.ReplyLogger.Save(msg, resp)
}
