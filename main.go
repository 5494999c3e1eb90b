package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	cfg := MustLoadConfig()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db := openDB(cfg, log)

	app := NewApp(cfg, log, NewGormUserStore(db), NewGormTaskStore(db))
	r := app.Router()

	log.Info().Str("address", cfg.Address).Msg("server starting")
	if err := r.Run(cfg.Address); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
