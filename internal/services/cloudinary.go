package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryAvatarFolder = "avatars"

// CloudinaryAvatarStore uploads avatars to Cloudinary.
type CloudinaryAvatarStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryAvatarStore(cloudName, apiKey, apiSecret string) (*CloudinaryAvatarStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryAvatarStore{
		cld:    cld,
		folder: cloudinaryAvatarFolder,
	}, nil
}

func (s *CloudinaryAvatarStore) Save(ctx context.Context, localPath, name string) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     strings.TrimSuffix(name, filepath.Ext(name)),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("failed to upload to Cloudinary: %s", uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}
