package storage_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucashenrq/pedeja/internal/storage"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"menu photo.jpg", "menu_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"açaí#1.png", "a_a__1.png"},
		{"", "file"},
		{"normal.jpg", "normal.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, storage.SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestBucketSave(t *testing.T) {
	dir := t.TempDir()
	bucket, err := storage.NewBucket(dir, "/photos/")
	require.NoError(t, err)

	url, err := bucket.Save(strings.NewReader("not really a photo"), "menu photo.jpg")
	require.NoError(t, err)

	// Timestamp-prefixed object name under the public base path.
	assert.Regexp(t, regexp.MustCompile(`^/photos/\d+-menu_photo\.jpg$`), url)

	objectName := strings.TrimPrefix(url, "/photos/")
	data, err := os.ReadFile(filepath.Join(dir, objectName))
	require.NoError(t, err)
	assert.Equal(t, "not really a photo", string(data))
}

func TestBucketSaveImageWritesThumbnail(t *testing.T) {
	dir := t.TempDir()
	bucket, err := storage.NewBucket(dir, "/photos")
	require.NoError(t, err)

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	url, err := bucket.Save(&buf, "storefront.jpg")
	require.NoError(t, err)

	objectName := strings.TrimPrefix(url, "/photos/")
	_, err = os.Stat(filepath.Join(dir, "thumb_"+objectName))
	assert.NoError(t, err, "thumbnail should exist next to the original")
}

func TestBucketSaveNonImageSkipsThumbnail(t *testing.T) {
	dir := t.TempDir()
	bucket, err := storage.NewBucket(dir, "/photos")
	require.NoError(t, err)

	url, err := bucket.Save(strings.NewReader("plain text"), "notes.txt")
	require.NoError(t, err)

	objectName := strings.TrimPrefix(url, "/photos/")
	_, err = os.Stat(filepath.Join(dir, "thumb_"+objectName))
	assert.True(t, os.IsNotExist(err), "no thumbnail for non-image uploads")
}
