package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	tbapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jessevdk/go-flags"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prandsen/telebot/app/bot"
	"github.com/prandsen/telebot/app/events"
	"github.com/prandsen/telebot/app/server"
	"github.com/prandsen/telebot/app/video"
	"github.com/prandsen/telebot/lib/trigger"
)

type options struct {
	Telegram struct {
		Token    string        `long:"token" env:"TOKEN" description:"telegram bot token" required:"true"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"http client timeout for telegram"`
		SendRate float64       `long:"send-rate" env:"SEND_RATE" default:"25" description:"max outbound messages per second, 0 for unlimited"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Triggers struct {
		Source  string        `long:"source" env:"SOURCE" default:"https://raw.githubusercontent.com/prandsen/telebot/refs/heads/main/TriggerList.txt" description:"triggers list url or local file"`
		Format  string        `long:"format" env:"FORMAT" default:"default" description:"triggers list format, default or legacy"`
		Refresh time.Duration `long:"refresh" env:"REFRESH" default:"0s" description:"triggers refresh interval, 0 to fetch once"`
		Seed    uint64        `long:"seed" env:"SEED" default:"1984" description:"replies selection seed, 0 for random"`
		Retries int           `long:"retries" env:"RETRIES" default:"3" description:"triggers fetch attempts"`
	} `group:"triggers" namespace:"triggers" env-namespace:"TRIGGERS"`

	SpamDelay time.Duration `long:"spam-delay" env:"SPAM_DELAY" default:"60s" description:"cooldown of a reply sent too often"`
	SpamLimit int           `long:"spam-limit" env:"SPAM_LIMIT" default:"2" description:"allowed consecutive replies before the warning"`
	SpamMsg   string        `long:"spam-msg" env:"SPAM_MSG" default:"Хорош спамить, я отдыхаю" description:"warning sent instead of a reply sent too often"`

	Guards []string `long:"guard" env:"GUARDS" env-delim:"|" description:"static guard in triggers syntax, checked before triggers"`

	Downloader struct {
		Binary  string        `long:"binary" env:"BINARY" default:"yt-dlp" description:"video downloader executable"`
		Cookies string        `long:"cookies" env:"COOKIES" description:"cookies file for the downloader"`
		MaxSize int           `long:"max-size" env:"MAX_SIZE" default:"20" description:"max video size in MB"`
		TmpDir  string        `long:"tmp" env:"TMP" description:"directory for downloaded videos, os temp dir if empty"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"5m" description:"single download timeout"`
		Workers int           `long:"workers" env:"WORKERS" default:"2" description:"max concurrent downloads"`
	} `group:"downloader" namespace:"downloader" env-namespace:"DOWNLOADER"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable replies rotated logs"`
		FileName   string `long:"file" env:"FILE" default:"telebot.log" description:"location of replies log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Server struct {
		Listen string `long:"listen" env:"LISTEN" description:"status server listen address, disabled if empty"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Dbg   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	TGDbg bool `long:"tg-dbg" env:"TG_DEBUG" description:"telegram debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("telebot %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var fe *flags.Error
		if !errors.As(err, &fe) || fe.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Telegram.Token)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if strings.TrimSpace(opts.Telegram.Token) == "" {
		return errors.New("telegram token is required")
	}

	triggersBot, err := makeTriggers(ctx, opts)
	if err != nil {
		return fmt.Errorf("can't make triggers bot, %w", err)
	}

	// make telegram bot
	tbAPI, err := tbapi.NewBotAPIWithClient(opts.Telegram.Token, tbapi.APIEndpoint, &http.Client{Timeout: opts.Telegram.Timeout})
	if err != nil {
		return fmt.Errorf("can't make telegram bot, %w", err)
	}
	tbAPI.Debug = opts.TGDbg
	log.Printf("[INFO] authorized as %s", tbAPI.Self.UserName)

	// make replies logger
	loggerWr, err := makeReplyLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make replies log writer, %w", err)
	}
	defer loggerWr.Close()

	if opts.Server.Listen != "" {
		srv := server.NewServer(server.Config{Version: revision, ListenAddr: opts.Server.Listen, Triggers: triggersBot,
			SpamDelay: opts.SpamDelay, SpamLimit: opts.SpamLimit})
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] status server failed, %v", err)
			}
		}()
	}

	// make telegram listener
	tgListener := events.TelegramListener{
		TbAPI: tbAPI,
		Bot:   triggersBot,
		Downloader: video.NewDownloader(video.Config{
			Binary:    opts.Downloader.Binary,
			Cookies:   opts.Downloader.Cookies,
			MaxSizeMb: opts.Downloader.MaxSize,
			TmpDir:    opts.Downloader.TmpDir,
			Timeout:   opts.Downloader.Timeout,
			Workers:   opts.Downloader.Workers,
		}),
		ReplyLogger: makeReplyLogger(loggerWr),
		Limiter:     makeLimiter(opts.Telegram.SendRate),
	}
	log.Printf("[DEBUG] telegram listener config: {downloader: %s, max-size: %dM, workers: %d, send-rate: %v}",
		opts.Downloader.Binary, opts.Downloader.MaxSize, opts.Downloader.Workers, opts.Telegram.SendRate)

	// run telegram listener and event processor loop
	if err := tgListener.Do(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("telegram listener failed, %w", err)
	}
	return nil
}

// makeTriggers makes trigger engine and the bot using it, rules are loaded on the first message
func makeTriggers(ctx context.Context, opts options) (*bot.Triggers, error) {
	if opts.SpamDelay < 0 {
		return nil, fmt.Errorf("spam delay can't be negative, %v", opts.SpamDelay)
	}

	format, ok := trigger.FormatByName(opts.Triggers.Format)
	if !ok {
		return nil, fmt.Errorf("unknown triggers format %q", opts.Triggers.Format)
	}

	guards, err := parseGuards(opts.Guards, format)
	if err != nil {
		return nil, err
	}

	engine := trigger.NewEngine(trigger.Config{
		Format:         format,
		SpamDelay:      opts.SpamDelay,
		MaxConsecutive: opts.SpamLimit,
		Seed:           opts.Triggers.Seed,
		WarnMsg:        opts.SpamMsg,
	})
	src := bot.NewSource(opts.Triggers.Source, &http.Client{Timeout: 30 * time.Second}, opts.Triggers.Retries)
	log.Printf("[INFO] triggers source: %s, format: %s, guards: %d", src, opts.Triggers.Format, len(guards))

	return bot.NewTriggers(ctx, engine, src, bot.TriggersConfig{
		Guards:          guards,
		WatchDelay:      time.Second,
		RefreshInterval: opts.Triggers.Refresh,
		Seed:            opts.Triggers.Seed,
	}), nil
}

// parseGuards parses every guard as a single rule, a malformed guard is a configuration error
func parseGuards(lines []string, format trigger.Format) ([]trigger.Rule, error) {
	res := make([]trigger.Rule, 0, len(lines))
	for _, line := range lines {
		rules, lr := trigger.ParseRules(line, format)
		if lr.Skipped > 0 || len(rules) != 1 {
			return nil, fmt.Errorf("invalid guard %q", line)
		}
		res = append(res, rules[0])
	}
	return res, nil
}

func makeLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, perSecond)))
}

func makeReplyLogger(wr io.Writer) events.ReplyLogger {
	return events.ReplyLoggerFunc(func(msg *bot.Message, response *bot.Response) {
		text := strings.TrimSpace(strings.ReplaceAll(msg.Text, "\n", " "))
		log.Printf("[DEBUG] %s reply to %s: %q", response.Kind, bot.DisplayName(*msg), response.Text)
		m := struct {
			TimeStamp   string `json:"ts"`
			ChatID      int64  `json:"chat_id"`
			DisplayName string `json:"display_name"`
			UserName    string `json:"user_name"`
			UserID      int64  `json:"user_id"`
			Text        string `json:"text"`
			Reply       string `json:"reply"`
			Kind        string `json:"kind"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			ChatID:      msg.ChatID,
			DisplayName: msg.From.DisplayName,
			UserName:    msg.From.Username,
			UserID:      msg.From.ID,
			Text:        text,
			Reply:       response.Text,
			Kind:        response.Kind,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeReplyLogWriter creates replies log writer, lumberjack logger with rotation
func makeReplyLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses sizes like 100, 10k, 100M, 1G
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
