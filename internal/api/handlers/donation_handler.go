package handlers

import (
	"errors"

	"mealbridge/domain"
	"mealbridge/internal/api/presenters"
	"mealbridge/internal/utils"
	"mealbridge/pkg/donation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		CreateDonation(c *fiber.Ctx) error
		GetDonorDonations(c *fiber.Ctx) error
		GetAcceptedDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		FindNearbyDonations(c *fiber.Ctx) error
		AcceptDonation(c *fiber.Ctx) error
		CompleteDonation(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, utils.ToValidationError(err))
	}

	result, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetDonorDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	donations, err := h.donationService.GetDonorDonations(c.Context(), userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetAcceptedDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	donations, err := h.donationService.GetAcceptedDonations(c.Context(), userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	result, err := h.donationService.GetDonationByID(c.Context(), donationID, userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) FindNearbyDonations(c *fiber.Ctx) error {
	req := new(domain.FindNearbyRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	donations, err := h.donationService.FindNearbyDonations(c.Context(), *req)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedGetNearbyDonations, err)
	}

	if len(donations) == 0 {
		return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageNoNearbyDonations)
	}
	return presenters.SuccessResponse(c, donations, fiber.StatusOK, domain.MessageSuccessGetNearbyDonations)
}

func (h *donationHandler) AcceptDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	result, err := h.donationService.AcceptDonation(c.Context(), donationID, userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedAcceptDonation, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessAcceptDonation)
}

func (h *donationHandler) CompleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	result, err := h.donationService.CompleteDonation(c.Context(), donationID, userID)
	if err != nil {
		return donationErrorResponse(c, domain.MessageFailedCompleteDonation, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessCompleteDonation)
}

// donationErrorResponse maps typed donation failures to status codes.
// Anything unclassified is reported without its detail.
func donationErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrParseUUID):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, domain.ErrDonationNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrUnauthorizedDonationAccess):
		return presenters.ErrorResponse(c, fiber.StatusForbidden, message, err)
	case errors.Is(err, domain.ErrDonationInvalidState):
		return presenters.ErrorResponse(c, fiber.StatusConflict, message, err)
	case errors.Is(err, domain.ErrDonationExpired):
		return presenters.ErrorResponse(c, fiber.StatusGone, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, errors.New(domain.MessageFailedProcessRequest))
	}
}
