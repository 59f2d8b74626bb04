// Package credential supplies bearer tokens for the generation endpoint.
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable is returned when a token cannot be obtained.
var ErrUnavailable = errors.New("credential unavailable")

// Source returns the bearer token to send with a request.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// File reads the whole file at Path on every call. The contents are used
// verbatim, trailing newline included.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Token(_ context.Context) (string, error) {
	if f.Path == "" {
		return "", fmt.Errorf("%w: empty credential path", ErrUnavailable)
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrUnavailable, f.Path, err)
	}
	return string(b), nil
}

// Static always returns the same token.
type Static string

func (s Static) Token(_ context.Context) (string, error) {
	return string(s), nil
}

var (
	_ Source = (*File)(nil)
	_ Source = Static("")
)
