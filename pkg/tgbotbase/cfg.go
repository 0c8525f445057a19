package tgbotbase

type TGBotConfig struct {
	Token       string
	SkipConnect bool
	Verbose     bool
}

type SOCKS5Config struct {
	Server string
	User   string
	Pass   string
}

// Config is the common part of every bot ini file.
type Config struct {
	TGBot        TGBotConfig
	Proxy_SOCKS5 SOCKS5Config
}
