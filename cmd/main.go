package main

import (
	"context"
	"flag"

	"mealbridge/cmd/config"
	migration "mealbridge/cmd/database/migrate"
	"mealbridge/cmd/database/seed"
	"mealbridge/internal/utils"
	"mealbridge/pkg/donation"
	"mealbridge/pkg/user"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	seedData := flag.Bool("seed", false, "insert sample users and donations and exit")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}

	if *migrate || *seedData {
		if db == nil {
			log.Fatal("DB_HOST is required for -migrate and -seed")
		}
		if *migrate {
			if err := migration.Migrate(db); err != nil {
				log.Fatalf("migration failed: %v", err)
			}
		}
		if *seedData {
			if _, err := seed.Seed(context.Background(), user.NewUserRepository(db), donation.NewDonationRepository(db)); err != nil {
				log.Fatalf("seed failed: %v", err)
			}
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
