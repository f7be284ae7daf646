package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/mike-rowan/fieldserve-api/utils"
)

// ErrPhotoUploadsDisabled is returned by every photo operation when no
// storage backend has been configured (AWS_S3_BUCKET unset).
var ErrPhotoUploadsDisabled = errors.New("photo uploads are disabled")

// PhotoService handles job-site photo upload, retrieval and deletion
type PhotoService interface {
	// UploadPhoto validates and uploads a photo for a job, returns the
	// storage key
	UploadPhoto(jobID string, fileHeader *multipart.FileHeader) (string, error)

	// GetPhotoURL generates a URL for accessing an uploaded photo
	GetPhotoURL(photoKey string) (string, error)

	// DeletePhoto removes a photo from storage
	DeletePhoto(photoKey string) error
}

// S3PhotoService implements PhotoService using AWS S3 for storage
type S3PhotoService struct {
	s3Service S3Interface
}

var photoServiceInstance PhotoService = &DisabledPhotoService{}

// InitPhotoService initializes the photo service with S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = &S3PhotoService{
		s3Service: s3Service,
	}
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service instance
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// UploadPhoto validates and uploads a job photo to S3
func (s *S3PhotoService) UploadPhoto(jobID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePhotoFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadJobFile(jobID, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s3Key, nil
}

// GetPhotoURL generates a presigned URL for accessing a photo
func (s *S3PhotoService) GetPhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(photoKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}

	return url, nil
}

// DisabledPhotoService rejects every photo operation. Used until a storage
// backend is initialized, so the photo endpoints fail with a typed error
// instead of a nil service.
type DisabledPhotoService struct{}

// UploadPhoto always fails with ErrPhotoUploadsDisabled
func (s *DisabledPhotoService) UploadPhoto(jobID string, fileHeader *multipart.FileHeader) (string, error) {
	return "", ErrPhotoUploadsDisabled
}

// GetPhotoURL always fails with ErrPhotoUploadsDisabled
func (s *DisabledPhotoService) GetPhotoURL(photoKey string) (string, error) {
	return "", ErrPhotoUploadsDisabled
}

// DeletePhoto always fails with ErrPhotoUploadsDisabled
func (s *DisabledPhotoService) DeletePhoto(photoKey string) error {
	return ErrPhotoUploadsDisabled
}

// DeletePhoto deletes a photo from S3
func (s *S3PhotoService) DeletePhoto(photoKey string) error {
	if photoKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(photoKey); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
