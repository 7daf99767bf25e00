// Package metadata looks up title and duration for a video id.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/castmirror/server/internal/domain"
)

type Loader struct {
	baseURL    string
	httpClient *http.Client
}

func NewLoader(baseURL string) *Loader {
	return &Loader{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// GetInfo returns nil with no error when the video is unknown. A
// missing duration in the response leaves it at 0.
func (l *Loader) GetInfo(ctx context.Context, videoId string) (*domain.VideoInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/videos/"+url.PathEscape(videoId), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var info domain.VideoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode video info: %w", err)
	}

	return &info, nil
}
