package imagehost

import (
	"context"
	"errors"
)

// ErrDisabled is returned when the image host is not configured. The
// service starts without media credentials; upload paths surface this
// instead of pretending to succeed.
var ErrDisabled = errors.New("image host not configured")

// Uploader is the narrow contract with the external media service. The
// application only ever stores and removes the URLs it returns and never
// interprets their content.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Disabled is the explicit unavailable variant used when credentials are
// missing.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Delete(ctx context.Context, url string) error {
	return ErrDisabled
}
