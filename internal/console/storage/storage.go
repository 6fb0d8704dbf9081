package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxUploadSize is the hard ceiling for any single upload.
const MaxUploadSize = 5 << 20

var (
	ErrTooLarge           = errors.New("storage: file exceeds 5MB limit")
	ErrUnsupportedProfile = errors.New("storage: profile image must be jpeg, png, gif or webp")
)

// profileImageTypes is the closed set accepted for user profile images.
// Other attachments are not type-restricted.
var profileImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// CheckSize rejects oversized uploads before any bytes are stored.
func CheckSize(size int64) error {
	if size > MaxUploadSize {
		return fmt.Errorf("%w: got %d bytes", ErrTooLarge, size)
	}
	return nil
}

// CheckProfileImage validates a profile image upload.
func CheckProfileImage(contentType string, size int64) error {
	if !profileImageTypes[contentType] {
		return fmt.Errorf("%w: got %s", ErrUnsupportedProfile, contentType)
	}
	return CheckSize(size)
}

// Store persists uploaded files and hands back a URL the console can serve.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
