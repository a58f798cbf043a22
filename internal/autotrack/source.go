package autotrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single fetch from the hook.
const DefaultTimeout = 3 * time.Second

// Status is the document published by the game memory hook.
type Status struct {
	IsHooked       bool            `json:"is_hooked"`
	CurrentLevel   string          `json:"current_level"`
	LevelAddress   string          `json:"level_address"`
	CurrentEpisode string          `json:"current_episode"`
	EpisodeAddress string          `json:"episode_address"`
	EpisodeNumber  int             `json:"episode_number"`
	Unlocks        map[string]bool `json:"unlocks"`
	// Interval is the poll interval the hook asks for, in seconds.
	Interval  int    `json:"interval"`
	AutoTrack bool   `json:"auto_track"`
	Seed      string `json:"seed"`
}

// PollInterval returns Interval as a duration, or 0 when unset.
func (s *Status) PollInterval() time.Duration {
	if s.Interval <= 0 {
		return 0
	}
	return time.Duration(s.Interval) * time.Second
}

// Source fetches the current hook status.
type Source interface {
	Fetch(ctx context.Context) (*Status, error)
}

// HTTPSource reads the status document from the hook's memory endpoint.
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating memory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting memory state: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("memory request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding memory state: %w", err)
	}
	return &st, nil
}
