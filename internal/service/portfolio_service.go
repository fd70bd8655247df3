package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
	"github.com/karierni-denik/denik-api/pkg/drive"
)

const maxPortfolioFileSize = 20 << 20 // 20 MiB

var allowedPortfolioTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/png":          {},
	"image/jpeg":         {},
	"image/webp":         {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain; charset=utf-8": {},
}

// FileUploader abstracts the external drive the portfolio files live on.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (drive.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// PortfolioService manages student portfolio files. File bytes live on the
// external drive; only metadata is stored locally. Each student sees only
// their own portfolio.
type PortfolioService interface {
	List(ctx context.Context, actor Actor) ([]dto.PortfolioFileResponse, error)
	Upload(ctx context.Context, name string, content []byte, actor Actor) (dto.PortfolioFileResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type portfolioService struct {
	files    repository.PortfolioRepository
	uploader FileUploader
	logger   zerolog.Logger
}

// NewPortfolioService constructs a PortfolioService instance.
func NewPortfolioService(files repository.PortfolioRepository, uploader FileUploader, logger zerolog.Logger) PortfolioService {
	return &portfolioService{
		files:    files,
		uploader: uploader,
		logger:   logger.With().Str("component", "portfolio_service").Logger(),
	}
}

func (s *portfolioService) List(ctx context.Context, actor Actor) ([]dto.PortfolioFileResponse, error) {
	files, err := s.files.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewPortfolioFileResponseSlice(files), nil
}

// Upload sniffs the content type from the bytes rather than trusting the
// client-supplied name or header.
func (s *portfolioService) Upload(ctx context.Context, name string, content []byte, actor Actor) (dto.PortfolioFileResponse, error) {
	if len(content) == 0 {
		return dto.PortfolioFileResponse{}, fmt.Errorf("%w: empty file", ErrInvalidOperation)
	}
	if len(content) > maxPortfolioFileSize {
		return dto.PortfolioFileResponse{}, fmt.Errorf("%w: file exceeds the %d byte limit", ErrInvalidOperation, maxPortfolioFileSize)
	}

	detected := mimetype.Detect(content)
	if _, ok := allowedPortfolioTypes[detected.String()]; !ok {
		return dto.PortfolioFileResponse{}, fmt.Errorf("%w: file type %s is not allowed", ErrInvalidOperation, detected.String())
	}

	result, err := s.uploader.Upload(ctx, name, bytes.NewReader(content))
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("drive upload failed")
		return dto.PortfolioFileResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	file := models.PortfolioFile{
		OwnerID:  actor.ID,
		Name:     name,
		PublicID: result.PublicID,
		URL:      result.URL,
		MimeType: detected.String(),
		Size:     int64(len(content)),
	}
	if err := s.files.Create(ctx, &file); err != nil {
		return dto.PortfolioFileResponse{}, err
	}

	s.logger.Info().Uint("file_id", file.ID).Uint("owner_id", actor.ID).Msg("portfolio file stored")
	return dto.NewPortfolioFileResponse(file), nil
}

// Delete removes the metadata row first; the drive-side delete is best
// effort, since an orphaned drive asset is preferable to a dangling row.
func (s *portfolioService) Delete(ctx context.Context, id uint, actor Actor) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if file.OwnerID != actor.ID && !actor.IsAdmin() {
		return ErrAccessDenied
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.uploader.Destroy(ctx, file.PublicID); err != nil {
		s.logger.Warn().Err(err).Str("public_id", file.PublicID).Msg("drive delete failed, asset orphaned")
	}

	s.logger.Info().Uint("file_id", id).Msg("portfolio file removed")
	return nil
}
