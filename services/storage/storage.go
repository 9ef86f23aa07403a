// Package storage is the blob-store collaborator. Media rows are only
// written after Upload returns, so a cancelled transfer never leaves a
// record pointing at a half-written blob.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// BlobStore stores media files under an opaque key and returns a public URL.
type BlobStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (key string, url string, err error)
}

const maxUploadBytes = 50 * 1024 * 1024

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}
var videoExtensions = []string{".mp4", ".mov", ".webm", ".avi", ".mkv"}

// CloudinaryStore uploads media to Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore() (*CloudinaryStore, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("the Cloudinary environment variables are not defined")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("initializing Cloudinary: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := cld.Admin.Ping(ctx); err != nil {
		return nil, fmt.Errorf("verifying the Cloudinary connection: %w", err)
	}

	utils.LogSuccess("Cloudinary initialized and connection verified")
	return &CloudinaryStore{cld: cld}, nil
}

// IsSupportedMediaType reports whether the filename carries a supported
// image or video extension.
func IsSupportedMediaType(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range append(append([]string{}, imageExtensions...), videoExtensions...) {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsVideo reports whether the filename carries a video extension.
func IsVideo(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Upload streams the multipart file to Cloudinary and returns the storage
// key and public URL. Failures map to ErrStorage so the upload handler
// aborts without persisting a media row.
func (s *CloudinaryStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, string, error) {
	if !IsSupportedMediaType(file.Filename) {
		return "", "", apperrors.Validationf("unsupported media format %q", file.Filename)
	}
	if file.Size > maxUploadBytes {
		return "", "", apperrors.Validationf("file too large, maximum 50MB allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("opening upload: %w", apperrors.ErrStorage)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	publicID := uuid.NewString()
	uploadParams := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		Overwrite:    boolPointer(false),
		ResourceType: "auto",
	}

	result, err := s.cld.Upload.Upload(ctx, src, uploadParams)
	if err != nil {
		utils.LogError(err, "Cloudinary upload failed")
		return "", "", fmt.Errorf("uploading to blob store: %w", apperrors.ErrStorage)
	}
	if result.SecureURL == "" {
		utils.LogError(nil, "Empty secure URL in Cloudinary response")
		return "", "", fmt.Errorf("blob store returned no URL: %w", apperrors.ErrStorage)
	}

	return folder + "/" + publicID, result.SecureURL, nil
}

// ReadAll loads the upload into memory for the screening hook. Only used
// for images, which are small relative to the upload cap.
func ReadAll(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", apperrors.ErrStorage)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", apperrors.ErrStorage)
	}
	return content, nil
}

func boolPointer(b bool) *bool {
	return &b
}
