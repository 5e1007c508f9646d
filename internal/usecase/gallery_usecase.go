package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/logger"
)

const galleryFolder = "gallery"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type GalleryUseCase struct {
	galleryRepo repository.GalleryRepository
	storage     service.FileUploadService
}

// NewGalleryUseCase accepts a nil storage; uploads then fail as unavailable
// while listing keeps working.
func NewGalleryUseCase(galleryRepo repository.GalleryRepository, storage service.FileUploadService) *GalleryUseCase {
	return &GalleryUseCase{
		galleryRepo: galleryRepo,
		storage:     storage,
	}
}

type UploadArtworkInput struct {
	Title       string
	ContentType string
	File        io.Reader
}

func (uc *GalleryUseCase) Upload(ctx context.Context, identity entity.Identity, input UploadArtworkInput) (*entity.Artwork, error) {
	if !identity.IsAdmin() {
		return nil, errors.Forbidden("Only the artist can upload artwork", nil)
	}
	if uc.storage == nil {
		return nil, errors.Unavailable("File storage is not configured", nil)
	}
	if !allowedImageTypes[strings.ToLower(input.ContentType)] {
		return nil, errors.BadRequest("Only image files are allowed", nil)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}

	url, err := uc.storage.UploadFile(ctx, input.File, input.ContentType, galleryFolder)
	if err != nil {
		return nil, errors.Internal("Failed to upload artwork", err)
	}

	artwork := &entity.Artwork{
		ID:         uuid.New().String(),
		Title:      title,
		URL:        url,
		UploadedBy: identity.Username,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.galleryRepo.Create(ctx, artwork); err != nil {
		if delErr := uc.storage.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("Failed to clean up uploaded file %s: %v", url, delErr)
		}
		return nil, err
	}

	return artwork, nil
}

func (uc *GalleryUseCase) List(ctx context.Context) ([]*entity.Artwork, error) {
	artworks, err := uc.galleryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if artworks == nil {
		artworks = []*entity.Artwork{}
	}
	return artworks, nil
}

func (uc *GalleryUseCase) Delete(ctx context.Context, identity entity.Identity, id string) error {
	if !identity.IsAdmin() {
		return errors.Forbidden("Only the artist can delete artwork", nil)
	}

	artwork, err := uc.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if uc.storage != nil {
		if err := uc.storage.DeleteFile(ctx, artwork.URL); err != nil {
			logger.Warn("Failed to delete file for artwork %s: %v", id, err)
		}
	}

	return uc.galleryRepo.Delete(ctx, id)
}
