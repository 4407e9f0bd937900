package supabase

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient uploads listing images to the seller-images bucket and
// issues their public URLs.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadListingImage stores an image under the given path and returns its
// public URL. The path carries a time-based prefix chosen by the caller, so
// uploads do not collide and upsert stays off.
func (s *StorageClient) UploadListingImage(path string, data []byte) (string, error) {
	contentType := "image/jpeg"
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.GetPublicURL(path), nil
}

func (s *StorageClient) GetPublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *StorageClient) DeleteFile(path string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{path})
	return err
}
