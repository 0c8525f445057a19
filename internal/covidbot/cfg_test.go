package covidbot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "covidbot.cfg")
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestNewConfig(t *testing.T) {
	t.Setenv(envToken, "")
	t.Setenv(envProxy, "")
	name := writeConfig(t, `
[tgbot]
token = file-token
verbose = true

[proxy-socks5]
server = 127.0.0.1:1080
user = me

[api]
baseurl = http://localhost:8080/v3/covid-19
lastdays = all
timeout = 5s

[watch]
interval = 2h
mininterval = 30m
`)
	cfg, err := NewConfig(name)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TGBot.Token != "file-token" || !cfg.TGBot.Verbose {
		t.Fatal(cfg.TGBot)
	}
	if cfg.Proxy_SOCKS5.Server != "127.0.0.1:1080" || cfg.Proxy_SOCKS5.User != "me" {
		t.Fatal(cfg.Proxy_SOCKS5)
	}
	if cfg.API.BaseURL != "http://localhost:8080/v3/covid-19" {
		t.Fatal(cfg.API.BaseURL)
	}
	if days, _ := cfg.LastDays(); days != 0 {
		t.Fatal(days)
	}
	if timeout, _ := cfg.Timeout(); timeout != 5*time.Second {
		t.Fatal(timeout)
	}
	watch, _ := cfg.WatchSettings()
	if watch.Interval != 2*time.Hour || watch.MinInterval != 30*time.Minute {
		t.Fatal(watch)
	}
	bot := cfg.BotConfig()
	if bot.TGBot.Token != "file-token" || bot.Proxy_SOCKS5.Server != "127.0.0.1:1080" {
		t.Fatal(bot)
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv(envToken, "env-token")
	t.Setenv(envProxy, "10.0.0.1:9050")
	name := writeConfig(t, "[tgbot]\ntoken = file-token\n")

	cfg, err := NewConfig(name)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TGBot.Token != "env-token" || cfg.Proxy_SOCKS5.Server != "10.0.0.1:9050" {
		t.Fatal(cfg.TGBot, cfg.Proxy_SOCKS5)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv(envToken, "env-token")
	t.Setenv(envProxy, "")
	cfg, err := NewConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if days, _ := cfg.LastDays(); days != diseasesh.DefaultLastDays {
		t.Fatal(days)
	}
	if timeout, _ := cfg.Timeout(); timeout != defaultTimeout {
		t.Fatal(timeout)
	}
	watch, _ := cfg.WatchSettings()
	if watch.Interval != defaultWatchInterval || watch.MinInterval != defaultWatchMin {
		t.Fatal(watch)
	}
}

func TestNewConfigErrors(t *testing.T) {
	t.Setenv(envToken, "")
	t.Setenv(envProxy, "")
	cases := map[string]string{
		"no token":          "[api]\nlastdays = 10\n",
		"bad lastdays":      "[tgbot]\ntoken = x\n[api]\nlastdays = -3\n",
		"bad timeout":       "[tgbot]\ntoken = x\n[api]\ntimeout = soon\n",
		"interval too low":  "[tgbot]\ntoken = x\n[watch]\ninterval = 10s\nmininterval = 1m\n",
		"negative interval": "[tgbot]\ntoken = x\n[watch]\ninterval = -1h\n",
		"unknown section":   "[tgbot]\ntoken = x\n[redis]\nserver = localhost\n",
	}
	for name, content := range cases {
		if _, err := NewConfig(writeConfig(t, content)); err == nil {
			t.Fatal(name)
		}
	}
	if _, err := NewConfig(filepath.Join(t.TempDir(), "missing.cfg")); err == nil {
		t.Fatal("missing file")
	}
}

func TestNewConfigSkipConnectNeedsNoToken(t *testing.T) {
	t.Setenv(envToken, "")
	t.Setenv(envProxy, "")
	if _, err := NewConfig(writeConfig(t, "[tgbot]\nskipconnect = true\n")); err != nil {
		t.Fatal(err)
	}
}
