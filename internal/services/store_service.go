package services

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/media"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const logoFolder = "logos"

// StoreApplication is a seller's registration request. Text fields are bound
// from the multipart form; the logo is attached by the handler.
type StoreApplication struct {
	Name        string     `form:"name" validate:"required"`
	Username    string     `form:"username" validate:"required"`
	Description string     `form:"description" validate:"required"`
	Email       string     `form:"email" validate:"required"`
	Contact     string     `form:"contact" validate:"required"`
	Address     string     `form:"address" validate:"required"`
	Logo        media.File `form:"-"`
}

// SubmitResult holds either a confirmation message for a new application or
// the status of a store the user already owns.
type SubmitResult struct {
	Message string
	Status  string
}

// StoreService handles seller registration.
type StoreService struct {
	stores   repositories.StoreRepository
	host     media.Host
	events   EventPublisher
	validate *validator.Validate
	logger   *slog.Logger
}

// NewStoreService creates a new StoreService. events may be nil.
func NewStoreService(stores repositories.StoreRepository, host media.Host, events EventPublisher, logger *slog.Logger) *StoreService {
	return &StoreService{
		stores:   stores,
		host:     host,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetStatus reports the registration status of the user's store.
func (s *StoreService) GetStatus(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return models.StoreStatusNotRegistered, nil
	}

	store, err := s.stores.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.StoreStatusNotRegistered, nil
		}
		return "", err
	}
	return store.Status, nil
}

// Submit registers a new store for userID. A user that already owns a store
// gets its current status back and nothing is written.
func (s *StoreService) Submit(ctx context.Context, userID string, app StoreApplication) (*SubmitResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validate.Struct(app); err != nil || app.Logo.Empty() {
		return nil, ErrMissingStoreInfo
	}

	if existing, err := s.stores.GetByUserID(ctx, userID); err == nil {
		return &SubmitResult{Status: existing.Status}, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	username := strings.ToLower(app.Username)
	if _, err := s.stores.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	upload, err := s.host.Upload(ctx, app.Logo, logoFolder)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		UserID:      userID,
		Name:        app.Name,
		Username:    username,
		Description: app.Description,
		Email:       app.Email,
		Contact:     app.Contact,
		Address:     app.Address,
		Logo:        s.host.URL(upload.FilePath, media.LogoTransformation),
	}
	if err := s.stores.CreateForUser(ctx, store); err != nil {
		s.discardUploads(ctx, upload.FilePath)
		if errors.Is(err, repositories.ErrDuplicate) {
			return s.resolveDuplicate(ctx, userID)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "store application received",
		slog.String("store_id", store.ID),
		slog.String("user_id", userID),
		slog.String("username", username),
	)
	publishEvent(ctx, s.logger, s.events, EventStoreApplied, map[string]string{
		"storeId":  store.ID,
		"userId":   userID,
		"username": store.Username,
		"status":   store.Status,
	})

	return &SubmitResult{Message: "applied, waiting for approval"}, nil
}

// resolveDuplicate runs after a unique-index violation lost a race with a
// concurrent submission. If the winner was this user we report its status,
// otherwise the username was the conflict.
func (s *StoreService) resolveDuplicate(ctx context.Context, userID string) (*SubmitResult, error) {
	existing, err := s.stores.GetByUserID(ctx, userID)
	if err == nil {
		return &SubmitResult{Status: existing.Status}, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUsernameTaken
	}
	return nil, err
}

func (s *StoreService) discardUploads(ctx context.Context, filePaths ...string) {
	discardUploads(ctx, s.logger, s.host, filePaths...)
}

// discardUploads deletes media whose owning record was never written.
func discardUploads(ctx context.Context, logger *slog.Logger, host media.Host, filePaths ...string) {
	for _, p := range filePaths {
		if p == "" {
			continue
		}
		if err := host.Delete(context.WithoutCancel(ctx), p); err != nil {
			logger.WarnContext(ctx, "failed to delete orphaned upload",
				slog.String("file_path", p),
				slog.Any("error", err),
			)
		}
	}
}
