package services

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/racelog/internal/filex"
	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/netx"
)

// imageDownloadTimeout bounds the external track-image fetch so a dead
// image host cannot stall the request pipeline.
const imageDownloadTimeout = 30 * time.Second

// ImageService stores track layout images on local disk. Images are keyed
// by filename (track id + extension) and served back under /images/.
type ImageService struct {
	dir    string
	logger logging.Logger
}

func NewImageService(dir string, logger logging.Logger) (*ImageService, error) {
	if _, err := filex.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &ImageService{dir: dir, logger: logger.With("module", "images")}, nil
}

// Dir returns the directory images are stored in, for static serving.
func (s *ImageService) Dir() string { return s.dir }

func (s *ImageService) path(filename string) string {
	// Strip any path components a crafted filename might carry.
	return filepath.Join(s.dir, filepath.Base(filename))
}

func (s *ImageService) Save(filename string, data []byte) error {
	return os.WriteFile(s.path(filename), data, 0o660)
}

func (s *ImageService) Load(filename string) ([]byte, error) {
	return os.ReadFile(s.path(filename))
}

func (s *ImageService) Delete(filename string) error {
	err := os.Remove(s.path(filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Download fetches an external image and stores it locally under the track
// id, returning the local URL. On any failure the caller keeps the
// original external URL; nothing is modified.
func (s *ImageService) Download(ctx context.Context, trackID, url string) (string, error) {
	data, contentType, err := netx.FetchBytes(ctx, url, imageDownloadTimeout)
	if err != nil {
		s.logger.Warn(ctx, "image download failed", "trackId", trackID, "error", err.Error())
		return "", err
	}

	filename := trackID + imageExt(contentType, url)
	if err := s.Save(filename, data); err != nil {
		return "", err
	}
	return "/images/" + filename, nil
}

// LocalFilename extracts the stored filename from a local image URL, or ""
// when the URL does not point at local storage.
func LocalFilename(imageURL string) string {
	if !strings.HasPrefix(imageURL, "/images/") {
		return ""
	}
	return path.Base(imageURL)
}

func imageExt(contentType, url string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if ext := path.Ext(path.Base(url)); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".img"
}
