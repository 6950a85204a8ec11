package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kurin/blazer/b2"
)

// UploadResult carries the stored object's identifiers back to the caller.
type UploadResult struct {
	ObjectKey string
	URL       string
	Size      int64
}

// ObjectStorage is the surface the document workflow needs from the cloud
// storage collaborator.
type ObjectStorage interface {
	Upload(ctx context.Context, r io.Reader, folder, filename string) (*UploadResult, error)
	Delete(ctx context.Context, objectKey string) error
}

// B2StorageService stores document files in a Backblaze B2 bucket.
type B2StorageService struct {
	client     *b2.Client
	bucket     *b2.Bucket
	bucketName string
}

// NewB2StorageService authorizes against B2 and binds to the bucket.
func NewB2StorageService(ctx context.Context, keyID, appKey, bucketName string) (*B2StorageService, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %v", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %v", bucketName, err)
	}

	return &B2StorageService{
		client:     client,
		bucket:     bucket,
		bucketName: bucketName,
	}, nil
}

// Upload streams the file into the bucket and returns its key and a signed
// download URL.
func (s *B2StorageService) Upload(ctx context.Context, r io.Reader, folder, filename string) (*UploadResult, error) {
	objectKey := fmt.Sprintf("%s/%d_%s", strings.Trim(folder, "/"), time.Now().UnixNano(), filename)

	obj := s.bucket.Object(objectKey)
	writer := obj.NewWriter(ctx)

	size, err := io.Copy(writer, r)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to upload object: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %v", err)
	}

	url, err := obj.AuthURL(ctx, 24*time.Hour, "GET")
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %v", err)
	}

	return &UploadResult{
		ObjectKey: objectKey,
		URL:       url.String(),
		Size:      size,
	}, nil
}

// Delete removes an object from the bucket by key.
func (s *B2StorageService) Delete(ctx context.Context, objectKey string) error {
	if err := s.bucket.Object(objectKey).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectKey, err)
	}
	return nil
}
