package routes

import (
	"mealbridge/domain"
	"mealbridge/internal/api/handlers"
	"mealbridge/internal/middleware"
	"mealbridge/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	DonationHandler handlers.DonationHandler
	GeocodeHandler  handlers.GeocodeHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
	MetricsHandler  fiber.Handler
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Donations()
	c.Geocode()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.MetricsHandler != nil {
		c.App.Get("/metrics", c.MetricsHandler)
	}
}

func (c *Config) Donations() {
	donor := c.Middleware.RoleMiddleware(domain.RoleDonor)
	receiver := c.Middleware.RoleMiddleware(domain.RoleReceiver)

	donations := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.JWTService))
	{
		donations.Post("", donor, c.DonationHandler.CreateDonation)
		donations.Get("/donor", donor, c.DonationHandler.GetDonorDonations)
		donations.Get("/accepted", receiver, c.DonationHandler.GetAcceptedDonations)
		donations.Post("/available", receiver, c.DonationHandler.FindNearbyDonations)
		donations.Get("/:id", c.DonationHandler.GetDonationByID)
		donations.Post("/:id/accept", receiver, c.DonationHandler.AcceptDonation)
		donations.Post("/:id/complete", c.DonationHandler.CompleteDonation)
	}
}

func (c *Config) Geocode() {
	geocode := c.App.Group("/api/v1/geocode", c.Middleware.AuthMiddleware(c.JWTService))
	geocode.Get("", c.GeocodeHandler.Geocode)
	geocode.Get("/reverse", c.GeocodeHandler.ReverseGeocode)
}
