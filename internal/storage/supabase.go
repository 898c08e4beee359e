package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// SupabaseStorage talks to the Supabase Storage HTTP API directly; the
// surface needed here is small enough that a client SDK buys nothing.
type SupabaseStorage struct {
	projectID string
	apiKey    string
	bucket    string
	client    *http.Client
}

func NewSupabaseStorage(projectID, apiKey, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		projectID: projectID,
		apiKey:    apiKey,
		bucket:    bucket,
		client:    &http.Client{},
	}
}

func (s *SupabaseStorage) objectURL(key string, public bool) string {
	segment := "object"
	if public {
		segment = "object/public"
	}
	return fmt.Sprintf("https://%s.supabase.co/storage/v1/%s/%s/%s", s.projectID, segment, s.bucket, key)
}

func (s *SupabaseStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(key, false), body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	return checkStorageStatus(resp, http.StatusCreated)
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key, false), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	return checkStorageStatus(resp, http.StatusNoContent)
}

func (s *SupabaseStorage) PublicURL(key string) string {
	return s.objectURL(key, true)
}

func checkStorageStatus(resp *http.Response, alsoOK int) error {
	if resp.StatusCode == http.StatusOK || resp.StatusCode == alsoOK {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("storage request failed with status %d: %s", resp.StatusCode, string(body))
}
