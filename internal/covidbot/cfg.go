package covidbot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gcfg.v1"

	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
	"github.com/ilyalavrinov/covidboard/pkg/tgbotbase"
)

const (
	envToken = "COVIDBOT_TOKEN"
	envProxy = "COVIDBOT_PROXY"

	defaultTimeout       = 15 * time.Second
	defaultWatchInterval = 6 * time.Hour
	defaultWatchMin      = time.Minute
)

type Config struct {
	TGBot        tgbotbase.TGBotConfig
	Proxy_SOCKS5 tgbotbase.SOCKS5Config

	API struct {
		BaseURL  string
		LastDays string
		Timeout  string
	}

	Watch struct {
		Interval    string
		MinInterval string
	}
}

// NewConfig reads the ini file (if any) and applies .env and environment overrides.
func NewConfig(filename string) (Config, error) {
	var cfg Config

	if filename != "" {
		log.WithField("file", filename).Info("Reading configuration")
		if err := gcfg.ReadFileInto(&cfg, filename); err != nil {
			return cfg, fmt.Errorf("could not parse configuration file %s: %w", filename, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not load .env")
	}
	if token := os.Getenv(envToken); token != "" {
		cfg.TGBot.Token = token
	}
	if server := os.Getenv(envProxy); server != "" {
		cfg.Proxy_SOCKS5.Server = server
	}

	if cfg.TGBot.Token == "" && !cfg.TGBot.SkipConnect {
		return cfg, fmt.Errorf("no telegram token found, set it in [tgbot] or %s", envToken)
	}
	if _, err := cfg.LastDays(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Timeout(); err != nil {
		return cfg, err
	}
	if _, err := cfg.WatchSettings(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) BotConfig() tgbotbase.Config {
	return tgbotbase.Config{TGBot: c.TGBot, Proxy_SOCKS5: c.Proxy_SOCKS5}
}

// LastDays is the history depth: "" is the client default, "all" is 0.
func (c Config) LastDays() (int, error) {
	s := strings.TrimSpace(c.API.LastDays)
	switch strings.ToLower(s) {
	case "":
		return diseasesh.DefaultLastDays, nil
	case "all":
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid api lastdays %q", c.API.LastDays)
	}
	return n, nil
}

func (c Config) Timeout() (time.Duration, error) {
	return parseDuration("api timeout", c.API.Timeout, defaultTimeout)
}

type WatchSettings struct {
	Interval    time.Duration
	MinInterval time.Duration
}

func (c Config) WatchSettings() (WatchSettings, error) {
	interval, err := parseDuration("watch interval", c.Watch.Interval, defaultWatchInterval)
	if err != nil {
		return WatchSettings{}, err
	}
	minimum, err := parseDuration("watch mininterval", c.Watch.MinInterval, defaultWatchMin)
	if err != nil {
		return WatchSettings{}, err
	}
	if interval < minimum {
		return WatchSettings{}, fmt.Errorf("watch interval %s is below the minimum %s", interval, minimum)
	}
	return WatchSettings{Interval: interval, MinInterval: minimum}, nil
}

func parseDuration(name, s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}
