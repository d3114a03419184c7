package config

import (
	"fmt"

	"mealbridge/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens postgres from the DB_* keys. It returns a nil *gorm.DB
// when DB_HOST is empty.
func ConnectDB() (*gorm.DB, error) {
	if utils.GetConfig("DB_HOST") == "" {
		return nil, nil
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Errorw("database connection failed", "host", utils.GetConfig("DB_HOST"), "error", err)
		return nil, err
	}
	return db, nil
}
