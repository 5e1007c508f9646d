package repository

import (
	"context"

	"fezeaixcommission/internal/domain/entity"
)

type GalleryRepository interface {
	Create(ctx context.Context, artwork *entity.Artwork) error
	GetByID(ctx context.Context, id string) (*entity.Artwork, error)
	List(ctx context.Context) ([]*entity.Artwork, error)
	Delete(ctx context.Context, id string) error
}
