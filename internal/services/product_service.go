package services

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"storefront/internal/media"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const productFolder = "products"

// ProductInput is a product-creation request as received from the form.
// MRP and Price stay strings until Create parses them.
type ProductInput struct {
	Name        string       `form:"name" validate:"required"`
	Description string       `form:"description" validate:"required"`
	MRP         string       `form:"mrp" validate:"required"`
	Price       string       `form:"price" validate:"required"`
	Category    string       `form:"category" validate:"required"`
	StoreID     string       `form:"storeId" validate:"required"`
	Images      []media.File `form:"-"`
}

// SellerResolver maps a user to the store they may manage.
type SellerResolver interface {
	AuthorizeSeller(ctx context.Context, userID string) (string, error)
}

// ProductService handles product listing and creation.
type ProductService struct {
	repo     repositories.ProductRepository
	host     media.Host
	sellers  SellerResolver
	events   EventPublisher
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, host media.Host, sellers SellerResolver, events EventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		host:     host,
		sellers:  sellers,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create uploads every image concurrently and stores the product with the
// resulting URLs in input order. Either all images upload or none are kept.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate.Struct(in); err != nil || len(in.Images) == 0 {
		return nil, ErrMissingProductDetails
	}
	mrp, ok := parsePositive(in.MRP)
	if !ok {
		return nil, ErrMissingProductDetails
	}
	price, ok := parsePositive(in.Price)
	if !ok {
		return nil, ErrMissingProductDetails
	}
	for _, img := range in.Images {
		if img.Empty() {
			return nil, ErrMissingProductDetails
		}
	}

	filePaths := make([]string, len(in.Images))
	urls := make([]string, len(in.Images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range in.Images {
		g.Go(func() error {
			up, err := s.host.Upload(gctx, img, productFolder)
			if err != nil {
				return err
			}
			filePaths[i] = up.FilePath
			urls[i] = s.host.URL(up.FilePath, media.ProductTransformation)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		discardUploads(ctx, s.logger, s.host, filePaths...)
		return nil, err
	}

	product := &models.Product{
		StoreID:     in.StoreID,
		Name:        in.Name,
		Description: in.Description,
		MRP:         mrp,
		Price:       price,
		Category:    in.Category,
		Images:      urls,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		discardUploads(ctx, s.logger, s.host, filePaths...)
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("store_id", product.StoreID),
		slog.Int("images", len(urls)),
	)
	publishEvent(ctx, s.logger, s.events, EventProductCreated, map[string]any{
		"productId": product.ID,
		"storeId":   product.StoreID,
		"name":      product.Name,
		"price":     product.Price,
	})

	return product, nil
}

// ListForSeller returns the products of the store userID is authorized for.
func (s *ProductService) ListForSeller(ctx context.Context, userID string) ([]models.Product, error) {
	storeID, err := s.sellers.AuthorizeSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return nil, ErrSellerNotAuthorized
	}
	return s.repo.ListByStore(ctx, storeID)
}

// parsePositive parses a finite number greater than zero.
func parsePositive(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
