package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const thumbWidth = 200

var unsafeChars = regexp.MustCompile(`[^\w.\-]`)

// SanitizeFilename strips path components and anything outside
// alphanumerics, dash, underscore and dot.
func SanitizeFilename(name string) string {
	clean := unsafeChars.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" || clean == "." {
		return "file"
	}
	return clean
}

// Bucket is a disk-backed photo store. Objects get a timestamp-prefixed name
// in one flat directory and are served publicly under PublicBaseURL. Nothing
// is ever deleted here, orphaned photos included.
type Bucket struct {
	dir           string
	publicBaseURL string
}

func NewBucket(dir, publicBaseURL string) (*Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create bucket dir %s: %w", dir, err)
	}
	return &Bucket{
		dir:           dir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory backing the bucket, for serving it over HTTP.
func (b *Bucket) Dir() string {
	return b.dir
}

// Save writes the upload under a unique timestamp-prefixed object name and
// returns its public URL. Image uploads additionally get a thumb_ copy; a
// thumbnail failure never fails the upload.
func (b *Bucket) Save(r io.Reader, originalName string) (string, error) {
	objectName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(originalName))
	objectPath := filepath.Join(b.dir, objectName)

	out, err := os.Create(objectPath)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create object %s: %w", objectName, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("storage: failed to write object %s: %w", objectName, err)
	}

	b.writeThumbnail(objectPath, objectName)

	return b.publicBaseURL + "/" + objectName, nil
}

func (b *Bucket) writeThumbnail(objectPath, objectName string) {
	img, err := imaging.Open(objectPath)
	if err != nil {
		// Not an image, or undecodable. The original is kept either way.
		return
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(b.dir, "thumb_"+objectName)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("storage: failed to save thumbnail")
	}
}
