package handlers

import (
	"log/slog"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authOptional fiber.Handler) {
	productRoutes := router.Group("/store")
	// TODO: check that the caller owns storeId once the seller dashboard
	// sends its token with product uploads.
	productRoutes.Post("/product", h.HandleCreateProduct)
	productRoutes.Get("/product", authOptional, h.HandleGetSellerProducts)
}

// HandleCreateProduct creates a product from a multipart form with one or
// more "images" files.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.DebugContext(c.UserContext(), "could not parse product form", slog.Any("error", err))
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			img, err := readFormFile(fh)
			if err != nil {
				return respondError(c, h.logger, "failed to read product image", err)
			}
			in.Images = append(in.Images, img)
		}
	}

	if _, err := h.service.Create(c.UserContext(), in); err != nil {
		return respondError(c, h.logger, "product creation failed", err)
	}
	return c.JSON(fiber.Map{"message": "Product added successfully"})
}

// HandleGetSellerProducts lists the products of the caller's approved store.
func (h *ProductHandler) HandleGetSellerProducts(c *fiber.Ctx) error {
	products, err := h.service.ListForSeller(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "failed to list seller products", err)
	}
	return c.JSON(fiber.Map{"products": products})
}
