package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
)

// maxImageBytes bounds a decoded recipe image.
const maxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded image payload.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ImageStore persists image bytes and returns a retrievable URL.
type ImageStore interface {
	Save(ctx context.Context, image *Image) (string, error)
}

// DecodeImage parses a data URL of the form data:image/png;base64,<payload>.
func DecodeImage(payload string) (*Image, error) {
	header, data, ok := strings.Cut(payload, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, invalid("image", "expected a base64 data URL")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, invalid("image", fmt.Sprintf("unsupported image type %q", contentType))
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, invalid("image", "malformed base64 payload")
	}
	if len(raw) == 0 {
		return nil, invalid("image", "empty image")
	}
	if len(raw) > maxImageBytes {
		return nil, invalid("image", "image is too large")
	}
	return &Image{Data: raw, ContentType: contentType, Extension: ext}, nil
}

func imageKey(image *Image) string {
	return fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), image.Extension)
}

// S3ImageStore uploads recipe images to a bucket.
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates an image store backed by S3
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Save uploads the image and returns its public URL
func (s *S3ImageStore) Save(ctx context.Context, image *Image) (string, error) {
	key := imageKey(image)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image.Data),
		ContentType: aws.String(image.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.s3Config.PublicURL(key)
	log.Printf("[ImageStore] Uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

// LocalImageStore writes images below a media directory served by the API.
type LocalImageStore struct {
	root    string
	baseURL string
}

// NewLocalImageStore creates an image store writing under root; URLs are
// baseURL joined with the object key.
func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes the image to disk and returns its URL
func (s *LocalImageStore) Save(ctx context.Context, image *Image) (string, error) {
	key := imageKey(image)
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, image.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + "/" + key, nil
}
