package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// Storage persists uploaded files under caller-provided keys.
type Storage interface {
	// Save stores the uploaded file under key and returns its public URL.
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (string, error)
	// Delete removes the file stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for a stored key.
	URL(key string) string
}

var imageMIMETypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
}

// ValidateImage checks that the upload is an image within the size limit.
// MIME detection reads file content rather than trusting the extension.
func ValidateImage(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrFileTooLarge, fh.Size, maxBytes)
	}

	mimeType, err := detectMIMEType(fh)
	if err == nil && mimeType != "" && imageMIMETypes[mimeType] {
		return nil
	}

	// Fall back to the extension when content sniffing is inconclusive
	// (e.g. SVG detects as text/xml).
	switch strings.ToLower(path.Ext(fh.Filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp":
		return nil
	}
	return ErrNotAnImage
}

func detectMIMEType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	// 512 bytes is the maximum http.DetectContentType reads.
	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mediaType := http.DetectContentType(buffer[:n])
	if idx := strings.Index(mediaType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	return mediaType, nil
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	return !strings.Contains(key, "..")
}
