package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"sanitasi/internal/forms"
	"sanitasi/internal/models"
	"sanitasi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler serves the HTML registration page.
type RegistrationHandler struct {
	service *services.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(service *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
	}
}

// RegisterRoutes registers GET and POST on the registration route.
func (h *RegistrationHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/sanitasi")
	group.Get("/register", h.HandleRegister)
	group.Post("/register", h.HandleRegister)
}

// HandleRegister renders the empty form for GET (or a POST without
// fields), and otherwise validates and stores the submission.
func (h *RegistrationHandler) HandleRegister(c *fiber.Ctx) error {
	data := formData(c)
	if c.Method() != fiber.MethodPost || len(data) == 0 {
		return h.render(c, h.service.NewForm(nil))
	}

	form := h.service.NewForm(data)
	user, err := h.service.Register(form)
	if err != nil {
		if errors.Is(err, services.ErrInvalidForm) {
			log.Printf("Registration rejected: %v", form.Errors())
			return h.render(c, form)
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Gagal menyimpan user, silakan coba lagi.")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString("Berhasil Menambahkan User:\n\n" + userSummary(user))
}

func (h *RegistrationHandler) render(c *fiber.Ctx, form *forms.RegistrationForm) error {
	return c.Status(fiber.StatusOK).Render("register", fiber.Map{
		"Action": c.Path(),
		"Fields": form.BoundFields(),
	})
}

// formData collects urlencoded and multipart fields. When a key repeats,
// the last value wins.
func formData(c *fiber.Ctx) map[string]string {
	data := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		data[string(key)] = string(value)
	})
	if mf, err := c.MultipartForm(); err == nil {
		for key, values := range mf.Value {
			if len(values) > 0 {
				data[key] = values[len(values)-1]
			}
		}
	}
	return data
}

// userSummary lists the stored public fields as "key: value" lines.
func userSummary(user *models.User) string {
	fields := user.PublicFields()
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, f.Value))
	}
	return strings.Join(lines, "\n")
}
