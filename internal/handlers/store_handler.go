package handlers

import (
	"log/slog"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for seller registration.
type StoreHandler struct {
	service *services.StoreService
	logger  *slog.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.StoreService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the store registration routes.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, authOptional, authRequired fiber.Handler) {
	storeRoutes := router.Group("/store")
	storeRoutes.Get("/create", authOptional, h.HandleGetStatus)
	storeRoutes.Post("/create", authRequired, h.HandleSubmit)
}

// HandleGetStatus reports whether the caller has registered a store.
func (h *StoreHandler) HandleGetStatus(c *fiber.Ctx) error {
	status, err := h.service.GetStatus(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "failed to get store status", err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// HandleSubmit accepts a multipart store application with an "image" logo.
func (h *StoreHandler) HandleSubmit(c *fiber.Ctx) error {
	var app services.StoreApplication
	if err := c.BodyParser(&app); err != nil {
		// Missing fields are reported by the service.
		h.logger.DebugContext(c.UserContext(), "could not parse store form", slog.Any("error", err))
	}

	if fh, err := c.FormFile("image"); err == nil {
		logo, err := readFormFile(fh)
		if err != nil {
			return respondError(c, h.logger, "failed to read store logo", err)
		}
		app.Logo = logo
	}

	result, err := h.service.Submit(c.UserContext(), middleware.UserID(c), app)
	if err != nil {
		return respondError(c, h.logger, "store submission failed", err)
	}
	if result.Message != "" {
		return c.JSON(fiber.Map{"message": result.Message})
	}
	return c.JSON(fiber.Map{"status": result.Status})
}
