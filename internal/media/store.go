package media

import (
	"context"
	"errors"
	"io"
)

var ErrUnsupportedType = errors.New("unsupported image content type")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

// ImageStore persists menu images and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// extFor maps an allowed image content type to a file extension.
func extFor(contentType string) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
