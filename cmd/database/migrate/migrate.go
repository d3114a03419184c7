package migration

import (
	"mealbridge/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// donations.id defaults to uuid_generate_v4()
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Errorw("error creating uuid-ossp extension", "error", err)
		return err
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorw("error migrating user table", "error", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Donation{}); err != nil {
		log.Errorw("error migrating donation table", "error", err)
		return err
	}

	log.Info("database migration complete")
	return nil
}
