package tgbotbase

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// NewHTTPClient returns a client dialing through the SOCKS5 proxy when one is configured.
func NewHTTPClient(p SOCKS5Config, timeout time.Duration) (*http.Client, error) {
	if p.Server == "" {
		log.Debug("No proxy is set, going without any proxy")
		return &http.Client{Timeout: timeout}, nil
	}

	log.WithFields(log.Fields{
		"server": p.Server,
		"user":   p.User,
	}).Info("Proxy is set, dialing through SOCKS5")

	var auth *proxy.Auth
	if p.User != "" {
		auth = &proxy.Auth{User: p.User, Password: p.Pass}
	}
	dialer, err := proxy.SOCKS5("tcp", p.Server, auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer %q: %w", p.Server, err)
	}

	transport := &http.Transport{}
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
