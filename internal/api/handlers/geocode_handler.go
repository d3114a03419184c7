package handlers

import (
	"errors"
	"strconv"

	"mealbridge/domain"
	"mealbridge/internal/api/presenters"
	"mealbridge/internal/utils"
	"mealbridge/pkg/geocoding"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	GeocodeHandler interface {
		Geocode(c *fiber.Ctx) error
		ReverseGeocode(c *fiber.Ctx) error
	}

	geocodeHandler struct {
		geocoder  geocoding.Geocoder
		validator *validator.Validate
	}
)

// NewGeocodeHandler accepts a nil geocoder; every request then answers 503.
func NewGeocodeHandler(geocoder geocoding.Geocoder, validator *validator.Validate) GeocodeHandler {
	return &geocodeHandler{
		geocoder:  geocoder,
		validator: validator,
	}
}

func (h *geocodeHandler) Geocode(c *fiber.Ctx) error {
	if h.geocoder == nil {
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedGeocode, domain.ErrGeocoderUnavailable)
	}

	req := new(domain.GeocodeRequest)
	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGeocode, domain.ErrAddressRequired)
	}

	location, err := h.geocoder.Geocode(c.Context(), req.Address)
	if err != nil {
		return geocodeErrorResponse(c, err)
	}

	return presenters.SuccessResponse(c, location, fiber.StatusOK, domain.MessageSuccessGeocode)
}

func (h *geocodeHandler) ReverseGeocode(c *fiber.Ctx) error {
	if h.geocoder == nil {
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedGeocode, domain.ErrGeocoderUnavailable)
	}

	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}
	if err := h.validator.Var(lat, "latitude"); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGeocode, utils.ToValidationError(err))
	}
	if err := h.validator.Var(lng, "longitude"); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGeocode, utils.ToValidationError(err))
	}

	location, err := h.geocoder.ReverseGeocode(c.Context(), lat, lng)
	if err != nil {
		return geocodeErrorResponse(c, err)
	}

	return presenters.SuccessResponse(c, location, fiber.StatusOK, domain.MessageSuccessGeocode)
}

func geocodeErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAddressRequired):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGeocode, err)
	case errors.Is(err, domain.ErrLocationNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGeocode, err)
	default:
		log.Errorw("geocoding request failed", "op", "geocode", "error", err)
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGeocode, domain.ErrGeocoderFailed)
	}
}
