package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/pkg/errors"
)

type memoryGalleryRepository struct {
	mu       sync.RWMutex
	artworks map[string]entity.Artwork
}

func NewMemoryGalleryRepository() repository.GalleryRepository {
	return &memoryGalleryRepository{
		artworks: make(map[string]entity.Artwork),
	}
}

func (r *memoryGalleryRepository) Create(ctx context.Context, artwork *entity.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if artwork.ID == "" {
		artwork.ID = uuid.New().String()
	}
	r.artworks[artwork.ID] = *artwork
	return nil
}

func (r *memoryGalleryRepository) GetByID(ctx context.Context, id string) (*entity.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artwork, ok := r.artworks[id]
	if !ok {
		return nil, errors.NotFound("Artwork", nil)
	}
	return &artwork, nil
}

func (r *memoryGalleryRepository) List(ctx context.Context) ([]*entity.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Artwork, 0, len(r.artworks))
	for _, a := range r.artworks {
		artwork := a
		out = append(out, &artwork)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryGalleryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.artworks, id)
	return nil
}
