package main

import (
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskman/models"
)

func openDB(cfg *Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		log.Warn().Err(err).Msg("migration warning")
	}
	return db
}
