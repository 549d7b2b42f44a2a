package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
)

const MealImagesFolder = "mealmate/meals"

// ImageUploader stores an uploaded file and returns its public URL.
type ImageUploader interface {
	UploadFileFromHeader(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// NewImageUploader returns a Cloudinary uploader, or nil when credentials are
// missing.
func NewImageUploader(cfg *config.Config) (ImageUploader, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, nil
	}
	svc, err := NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) UploadFile(ctx context.Context, file multipart.File, folder string) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", uploadResult.Error.Message)
	}
	return uploadResult.SecureURL, nil
}

func (s *CloudinaryService) UploadFileFromHeader(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return s.UploadFile(ctx, file, folder)
}
