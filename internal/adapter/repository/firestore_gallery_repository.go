package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/pkg/errors"
)

type firestoreGalleryRepository struct {
	client *firestore.Client
}

func NewFirestoreGalleryRepository(client *firestore.Client) repository.GalleryRepository {
	return &firestoreGalleryRepository{
		client: client,
	}
}

func (r *firestoreGalleryRepository) Create(ctx context.Context, artwork *entity.Artwork) error {
	if artwork.ID == "" {
		artwork.ID = uuid.New().String()
	}

	_, err := r.client.Collection("gallery").Doc(artwork.ID).Set(ctx, artwork)
	if err != nil {
		return errors.Internal("Failed to save artwork", err)
	}
	return nil
}

func (r *firestoreGalleryRepository) GetByID(ctx context.Context, id string) (*entity.Artwork, error) {
	doc, err := r.client.Collection("gallery").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Artwork", err)
		}
		return nil, errors.Internal("Failed to get artwork", err)
	}

	var artwork entity.Artwork
	if err := doc.DataTo(&artwork); err != nil {
		return nil, errors.Internal("Failed to parse artwork", err)
	}
	artwork.ID = doc.Ref.ID
	return &artwork, nil
}

func (r *firestoreGalleryRepository) List(ctx context.Context) ([]*entity.Artwork, error) {
	iter := r.client.Collection("gallery").OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var artworks []*entity.Artwork
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list gallery", err)
		}

		var artwork entity.Artwork
		if err := doc.DataTo(&artwork); err != nil {
			continue // Skip malformed documents
		}
		artwork.ID = doc.Ref.ID
		artworks = append(artworks, &artwork)
	}
	return artworks, nil
}

func (r *firestoreGalleryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("gallery").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete artwork", err)
	}
	return nil
}
