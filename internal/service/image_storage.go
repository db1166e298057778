package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository"
	"github.com/javicara/beonbike-sub000/internal/storage"
)

const uploadURLTTL = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type imageStorageService struct {
	bikeRepo     repository.BikeRepository
	store        storage.StorageInterface
	allowedTypes []string
}

func NewImageStorageService(bikeRepo repository.BikeRepository, store storage.StorageInterface, allowedTypes []string) ImageStorageService {
	return &imageStorageService{
		bikeRepo:     bikeRepo,
		store:        store,
		allowedTypes: allowedTypes,
	}
}

func bikeImagePrefix(bikeID int32) string {
	return fmt.Sprintf("bikes/%d/", bikeID)
}

func (s *imageStorageService) GetUploadURL(ctx context.Context, bikeID int32, filename, contentType string) (string, string, int64, error) {
	logger.EnterMethod("imageStorageService.GetUploadURL", "bikeID", bikeID, "contentType", contentType)
	ext, known := imageExtensions[contentType]
	if !known || !slices.Contains(s.allowedTypes, contentType) {
		return "", "", 0, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidInput, contentType)
	}
	if _, err := s.bikeRepo.GetByID(ctx, bikeID); err != nil {
		return "", "", 0, err
	}

	key := bikeImagePrefix(bikeID) + uuid.New().String() + ext
	uploadURL, err := s.store.GenerateUploadURL(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate upload url: %w", err)
	}
	expiresAt := time.Now().Add(uploadURLTTL).Unix()
	logger.ExitMethod("imageStorageService.GetUploadURL", "key", key, "filename", filename)
	return uploadURL, key, expiresAt, nil
}

// ConfirmUpload attaches an uploaded file to the bike's gallery and returns its public URL.
func (s *imageStorageService) ConfirmUpload(ctx context.Context, bikeID int32, key string) (string, error) {
	if !strings.HasPrefix(key, bikeImagePrefix(bikeID)) || !storage.ValidKey(key) {
		return "", fmt.Errorf("%w: key does not belong to bike %d", domain.ErrInvalidInput, bikeID)
	}
	exists, size, err := s.store.FileExists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists || size == 0 {
		return "", fmt.Errorf("uploaded file %s: %w", key, domain.ErrNotFound)
	}

	url := s.store.DownloadURL(key)
	if err := s.bikeRepo.AddImage(ctx, bikeID, url); err != nil {
		return "", err
	}
	logger.Info("Bike image attached", "bikeID", bikeID, "key", key, "bytes", size)
	return url, nil
}
