package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"muse-ai/backend/internal/model"
)

// ObjectFetcher resolves a media reference to the raw bytes of the stored
// object. Uploads are issued presigned URLs by an external collaborator, so
// the backend only ever reads.
type ObjectFetcher interface {
	Fetch(ctx context.Context, ref model.MediaRef) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns an ObjectFetcher that downloads objects over their
// public URL.
func NewHTTPFetcher() ObjectFetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, ref model.MediaRef) ([]byte, error) {
	if ref.URL == "" {
		return nil, fmt.Errorf("media reference has no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("object download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("object download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read object body: %w", err)
	}
	return data, nil
}
