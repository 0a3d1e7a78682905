// Package storage persists downloaded attachments on local disk, one
// subdirectory per media type.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"botpanel/internal/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var mediaDirs = map[string]string{
	transport.MediaImage:    "images",
	transport.MediaVideo:    "videos",
	transport.MediaDocument: "documents",
	transport.MediaAudio:    "audio",
}

var mimeExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"video/avi":       "avi",
	"video/mov":       "mov",
	"audio/mp3":       "mp3",
	"audio/mpeg":      "mp3",
	"audio/wav":       "wav",
	"audio/ogg":       "ogg",
	"application/pdf": "pdf",
	"application/zip": "zip",
	"application/rar": "rar",
	"text/plain":      "txt",
}

// StoredFile describes one persisted attachment.
type StoredFile struct {
	Path      string
	Size      int64
	MediaType string
	Filename  string
}

// FileStore saves attachment bytes under a base directory.
type FileStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewFileStore creates the per-media-type directory tree under baseDir.
func NewFileStore(baseDir string, logger *zap.Logger) (*FileStore, error) {
	for _, sub := range mediaDirs {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir, logger: logger}, nil
}

// Store writes the payload to disk. The filename embeds category, timestamp,
// owner and a short random suffix so concurrent saves never collide.
func (s *FileStore) Store(data []byte, mediaType, mime, category, owner string) (*StoredFile, error) {
	sub, ok := mediaDirs[mediaType]
	if !ok {
		return nil, fmt.Errorf("unsupported media type: %s", mediaType)
	}

	ext := mimeExtensions[mime]
	if ext == "" {
		ext = "bin"
	}

	filename := fmt.Sprintf("%s_%d_%s_%s.%s",
		category, time.Now().UnixMilli(), owner, uuid.NewString()[:8], ext)
	path := filepath.Join(s.baseDir, sub, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	s.logger.Debug("stored media file",
		zap.String("path", path),
		zap.Int("size", len(data)),
		zap.String("media_type", mediaType))

	return &StoredFile{
		Path:      path,
		Size:      int64(len(data)),
		MediaType: mediaType,
		Filename:  filename,
	}, nil
}
