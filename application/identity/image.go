package identity

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxImageBytes bounds profile picture downloads. Pictures are embedded in
// the user record, so oversized ones are rejected rather than stored.
const maxImageBytes = 1 << 20

// ImageFetcher downloads an image and encodes it as a data URI for embedded
// storage.
type ImageFetcher struct {
	httpClient *http.Client
}

// NewImageFetcher creates an image fetcher with a bounded request timeout.
func NewImageFetcher() *ImageFetcher {
	return &ImageFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchDataURI downloads imageURL and returns it base64-encoded as a data
// URI.
func (f *ImageFetcher) FetchDataURI(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building image request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image body is empty")
	}

	return "data:image/png;base64, " + base64.StdEncoding.EncodeToString(data), nil
}
