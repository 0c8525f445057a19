package tgbotbase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

var ErrNotConnected = errors.New("bot is not connected to telegram")

// Outbox accepts replies for asynchronous delivery.
type Outbox interface {
	Send(msg tgbotapi.Chattable)
}

type HandlerTrigger struct {
	re   *regexp.Regexp
	cmds map[string]bool
}

func NewHandlerTrigger(re *regexp.Regexp, cmds []string) HandlerTrigger {
	cmdmap := make(map[string]bool, len(cmds))
	for _, c := range cmds {
		cmdmap[strings.ToLower(c)] = true
	}
	return HandlerTrigger{re: re, cmds: cmdmap}
}

func (t HandlerTrigger) CanHandle(msg tgbotapi.Message) bool {
	if msg.IsCommand() {
		_, found := t.cmds[strings.ToLower(msg.Command())]
		return found
	}
	return t.re != nil && t.re.MatchString(strings.ToLower(msg.Text))
}

// Handler processes messages matching its trigger. HandleOne may be called concurrently.
type Handler interface {
	Name() string
	Trigger() HandlerTrigger
	HandleOne(ctx context.Context, msg tgbotapi.Message)
}

type dealer struct {
	h       Handler
	trigger HandlerTrigger
	in      chan tgbotapi.Message
}

func (d *dealer) accept(msg tgbotapi.Message) bool {
	if !d.trigger.CanHandle(msg) {
		return false
	}
	d.in <- msg
	return true
}

func (d *dealer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.in:
			go d.h.HandleOne(ctx, msg)
		}
	}
}

type Bot struct {
	cfg     Config
	api     *tgbotapi.BotAPI
	dealers []*dealer

	out      chan tgbotapi.Chattable
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewBot(cfg Config) (*Bot, error) {
	b := &Bot{
		cfg:     cfg,
		out:     make(chan tgbotapi.Chattable, 64),
		stopped: make(chan struct{}),
	}
	if cfg.TGBot.SkipConnect {
		log.Warn("Telegram connection is skipped, replies will be dropped")
		b.stop()
		return b, nil
	}

	client, err := NewHTTPClient(cfg.Proxy_SOCKS5, 0)
	if err != nil {
		return nil, err
	}
	b.api, err = tgbotapi.NewBotAPIWithClient(cfg.TGBot.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, err
	}
	b.api.Debug = cfg.TGBot.Verbose
	log.WithField("account", b.api.Self.UserName).Info("Authorized")
	return b, nil
}

func (b *Bot) AddHandler(h Handler) {
	log.WithField("handler", h.Name()).Info("Preparing handler")
	b.dealers = append(b.dealers, &dealer{
		h:       h,
		trigger: h.Trigger(),
		in:      make(chan tgbotapi.Message, 16),
	})
}

// Run polls updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	defer b.stop()
	if b.api == nil {
		return ErrNotConnected
	}

	for _, d := range b.dealers {
		go d.run(ctx)
	}
	go b.serveReplies(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	log.Info("Starting bot")
	for {
		select {
		case <-ctx.Done():
			log.Info("Main cycle has been aborted")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(update)
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update) int {
	if b.cfg.TGBot.Verbose {
		log.WithField("update", update.UpdateID).Debugf("Update: %+v", update)
	}
	if update.Message == nil {
		return 0
	}
	accepted := 0
	for _, d := range b.dealers {
		if d.accept(*update.Message) {
			accepted++
		}
	}
	if accepted == 0 {
		log.WithField("text", update.Message.Text).Debug("No handler for message")
	}
	return accepted
}

func (b *Bot) stop() {
	b.stopOnce.Do(func() { close(b.stopped) })
}

// Send queues msg for delivery; it never blocks on a stopped or unconnected bot.
func (b *Bot) Send(msg tgbotapi.Chattable) {
	select {
	case <-b.stopped:
		log.Warn("Bot is stopped, reply is dropped")
		return
	default:
	}
	select {
	case b.out <- msg:
	case <-b.stopped:
		log.Warn("Bot is stopped, reply is dropped")
	}
}

func (b *Bot) serveReplies(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.out:
			if _, err := b.api.Send(msg); err != nil {
				log.WithError(err).Error("Could not send reply")
			}
		}
	}
}
