package handler

import (
	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/usecase"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/response"
	"fezeaixcommission/pkg/utils"
)

const maxArtworkSize = 10 << 20

type GalleryHandler struct {
	galleryUseCase *usecase.GalleryUseCase
}

func NewGalleryHandler(galleryUseCase *usecase.GalleryUseCase) *GalleryHandler {
	return &GalleryHandler{
		galleryUseCase: galleryUseCase,
	}
}

func (h *GalleryHandler) List(c echo.Context) error {
	artworks, err := h.galleryUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.List(c, utils.Paginate(artworks, utils.GetPaginationParams(c)), len(artworks))
}

func (h *GalleryHandler) Upload(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}
	if fileHeader.Size > maxArtworkSize {
		return response.Error(c, errors.BadRequest("File must be 10MB or smaller", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read file", err))
	}
	defer file.Close()

	artwork, err := h.galleryUseCase.Upload(c.Request().Context(), identity, usecase.UploadArtworkInput{
		Title:       c.FormValue("title"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, artwork)
}

func (h *GalleryHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.galleryUseCase.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Artwork deleted successfully",
	})
}
