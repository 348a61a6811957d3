package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"music-search/internal/app"
	"music-search/internal/config"
)

func main() {
	cfg := config.Load()
	app := app.New(cfg)
	if err := app.Run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
