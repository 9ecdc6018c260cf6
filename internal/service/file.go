package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/templui/fitgoals/internal/storage"
)

// FileService stores avatar images. A nil storage disables uploads.
type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{storage: storage}
}

func (s *FileService) Enabled() bool {
	return s != nil && s.storage != nil
}

// UploadAvatar saves the image under a fresh key and returns its storage path.
// Note: file validation (type, size, content) is done by the caller.
func (s *FileService) UploadAvatar(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	ext := strings.ToLower(filepath.Ext(filename))
	storagePath := path.Join("avatars", userID, uuid.New().String()+ext)

	err := s.storage.Save(ctx, storagePath, file, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return storagePath, nil
}

func (s *FileService) Delete(ctx context.Context, storagePath string) error {
	if !s.Enabled() {
		return ErrStorageDisabled
	}
	return s.storage.Delete(ctx, storagePath)
}

// URL returns a fetchable URL for the path, or "" when there is nothing to link.
func (s *FileService) URL(ctx context.Context, storagePath string) string {
	if storagePath == "" || !s.Enabled() {
		return ""
	}
	return s.storage.URL(ctx, storagePath)
}
