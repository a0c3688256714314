// Package integration declares the external collaborators the platform
// talks to but does not own: blob storage for media and an email transport.
// Only the interfaces matter here; the bundled implementations log and
// return placeholders so the API works without the real services.
package integration

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// BlobStore accepts raw bytes and hands back a public URL, plus
// delete-by-URL for cleanup.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

type localBlobStore struct {
	log     zerolog.Logger
	baseURL string
}

func NewLocalBlobStore(log zerolog.Logger, baseURL string) BlobStore {
	return &localBlobStore{log: log, baseURL: baseURL}
}

func (s *localBlobStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, name)
	s.log.Debug().Str("name", name).Int("size", len(data)).Msg("blob upload")
	return url, nil
}

func (s *localBlobStore) Delete(ctx context.Context, url string) error {
	s.log.Debug().Str("url", url).Msg("blob delete")
	return nil
}
