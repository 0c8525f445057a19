package covidbot

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
	"github.com/ilyalavrinov/covidboard/pkg/tgbotbase"
)

func Start(cfgFilename string) error {
	log.SetLevel(log.DebugLevel)
	log.Info("Starting covid bot")

	cfg, err := NewConfig(cfgFilename)
	if err != nil {
		log.WithError(err).Error("Covid bot cannot be started")
		return err
	}
	// values are validated by NewConfig
	lastDays, _ := cfg.LastDays()
	timeout, _ := cfg.Timeout()
	watch, _ := cfg.WatchSettings()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient, err := tgbotbase.NewHTTPClient(cfg.Proxy_SOCKS5, timeout)
	if err != nil {
		return err
	}
	source := diseasesh.NewClient(cfg.API.BaseURL,
		diseasesh.WithHTTPClient(httpClient),
		diseasesh.WithLastDays(lastDays))

	bot, err := tgbotbase.NewBot(cfg.BotConfig())
	if err != nil {
		log.WithError(err).Error("Could not connect to telegram")
		return err
	}
	cron := tgbotbase.NewCron(ctx)

	bot.AddHandler(NewHandler(bot, source, cron, watch))
	err = bot.Run(ctx)

	log.Info("Stopping covid bot")
	return err
}
