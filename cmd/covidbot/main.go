package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/ilyalavrinov/covidboard/internal/covidbot"
)

var cfgFilename = flag.String("config", "covidbot.cfg", "ini file with [tgbot], [proxy-socks5], [api] and [watch] sections")

func main() {
	flag.Parse()

	log.Print("Starting covid bot")
	if err := covidbot.Start(*cfgFilename); err != nil {
		log.Printf("Covid bot could not be started due to error: %s", err)
	}
	log.Print("Covid bot has stopped working")
}
