package handlers

import (
	"errors"
	"log"

	"sanitasi/internal/middleware"
	"sanitasi/internal/repositories"
	"sanitasi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	service *services.RegistrationService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.RegistrationService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the profile routes. router must already be
// guarded by middleware.AuthRequired.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleGetMe)
	userRoutes.Put("/me", h.HandleUpdateMe)
}

// HandleGetMe returns the authenticated user.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	user, err := h.service.GetUser(userID)
	if err != nil {
		return userLookupError(c, userID, err)
	}
	return c.JSON(user)
}

// HandleUpdateMe re-validates a full profile submission with the
// registration rules and saves it.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, form, err := h.service.UpdateProfile(userID, data)
	if err != nil {
		if errors.Is(err, services.ErrInvalidForm) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  form.Errors(),
			})
		}
		return userLookupError(c, userID, err)
	}
	return c.JSON(user)
}

func userLookupError(c *fiber.Ctx, userID string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}
	log.Printf("Error handling user %s: %v", userID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process user",
		"error":   err.Error(),
	})
}
