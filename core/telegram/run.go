// Package telegram hosts the bot runtime: poller construction, route wiring,
// middleware, and the adapter between telebot and the navigation layer.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anipixel/anipixel/core/config"
	"github.com/anipixel/anipixel/core/logger"
	"github.com/anipixel/anipixel/core/nav"

	tele "gopkg.in/telebot.v4"
)

// Options wires the bot runtime.
type Options struct {
	Config  *config.Config
	Catalog nav.Catalog
	Log     *logger.Log
}

// listCommands maps the category shortcut commands to their list kinds.
var listCommands = []struct {
	Command     string
	Kind        nav.ListKind
	Description string
}{
	{"/trending", nav.KindTrending, "See what's hot right now"},
	{"/popular", nav.KindPopular, "Browse all-time favorites"},
	{"/romance", nav.KindRomance, "For the lovers"},
	{"/comedy", nav.KindComedy, "Something to laugh about"},
	{"/detective", nav.KindDetective, "Mystery picks"},
}

// Run composes and runs the bot until the provided context is done.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	if opts.Catalog == nil {
		return fmt.Errorf("telegram: nil catalog provided")
	}
	if opts.Log == nil {
		return fmt.Errorf("telegram: nil logger provided")
	}

	cfg := opts.Config
	tgLog := opts.Log.Component("tg")

	poller := buildPoller(cfg)

	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(),
		OnError: func(err error, c tele.Context) {
			tgLog.Error("unhandled bot error",
				slog.String("event", "tg.error"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	logMode(tgLog, cfg, poller, buildTook)

	ctrl := nav.NewController(opts.Catalog, NewMessenger(bot), cfg.WebApp.URL, opts.Log.Component("nav"))

	wrap := func(name string, h tele.HandlerFunc) tele.HandlerFunc {
		return RecoverMiddleware(tgLog, LoggerMiddleware(tgLog, name, h))
	}

	bot.Handle("/start", wrap("start", func(c tele.Context) error {
		return ctrl.Start(RequestContext(c), c.Chat().ID)
	}))

	for _, lc := range listCommands {
		kind := lc.Kind
		bot.Handle(lc.Command, wrap(strings.TrimPrefix(lc.Command, "/"), func(c tele.Context) error {
			return ctrl.OpenList(RequestContext(c), c.Chat().ID, kind)
		}))
	}

	bot.Handle(tele.OnText, wrap("search", func(c tele.Context) error {
		return ctrl.Search(RequestContext(c), c.Chat().ID, c.Text())
	}))

	bot.Handle(tele.OnCallback, wrap("callback", func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil || cb.Message == nil {
			return nil
		}
		return ctrl.HandleCallback(RequestContext(c), nav.Callback{
			ID:             cb.ID,
			ChatID:         cb.Message.Chat.ID,
			MessageID:      cb.Message.ID,
			Data:           strings.TrimPrefix(cb.Data, "\f"),
			MessageIsPhoto: cb.Message.Photo != nil,
		})
	}))

	setCommands(bot, tgLog)

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-runDone:
		return nil
	}
}

func buildPoller(cfg *config.Config) tele.Poller {
	if cfg.Telegram.RunMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}

func logMode(log *slog.Logger, cfg *config.Config, poller tele.Poller, buildTook time.Duration) {
	switch p := poller.(type) {
	case *tele.Webhook:
		log.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	default:
		timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
		if timeoutSec <= 0 {
			timeoutSec = 10
		}
		log.Info("polling mode",
			slog.String("event", "mode"),
			slog.String("mode", "polling"),
			slog.Int("timeout_seconds", timeoutSec),
			slog.Duration("duration", logger.RoundMS(buildTook)),
		)
	}
}

func setCommands(bot *tele.Bot, log *slog.Logger) {
	cmds := []tele.Command{{Text: "/start", Description: "Show the category menu"}}
	for _, lc := range listCommands {
		cmds = append(cmds, tele.Command{Text: lc.Command, Description: lc.Description})
	}
	if err := bot.SetCommands(cmds); err != nil {
		log.Error("set commands failed",
			slog.String("event", "tg.set_commands"),
			slog.String("err", err.Error()),
		)
	}
}
