package handlers

import (
	"io"
	"log/slog"
	"mime/multipart"

	"storefront/internal/media"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// respondError writes {"error": ...} with the status derived from err.
// Dependency failures are logged and still reported as 400.
func respondError(c *fiber.Ctx, logger *slog.Logger, msg string, err error) error {
	if services.KindOf(err) == services.KindCollaborator {
		logger.ErrorContext(c.UserContext(), msg,
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	} else {
		logger.DebugContext(c.UserContext(), msg, slog.Any("error", err))
	}
	return c.Status(services.HTTPStatus(err)).JSON(fiber.Map{
		"error": services.PublicMessage(err),
	})
}

// readFormFile loads an uploaded multipart file into memory.
func readFormFile(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, errors.Wrapf(err, "failed to open upload %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return media.File{}, errors.Wrapf(err, "failed to read upload %s", fh.Filename)
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
