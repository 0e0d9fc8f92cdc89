package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	PexelsName       = "pexels"
	PexelsAPIBaseURL = "https://api.pexels.com"
)

// PexelsConfig holds configuration for the Pexels stock footage client.
type PexelsConfig struct {
	APIKey          string
	Timeout         time.Duration // Search request timeout
	DownloadTimeout time.Duration // Per-clip download timeout
	MaxRetries      int           // Download retry attempts
	BaseURL         string        // Optional (tests)
}

// PexelsClient implements StockProvider using the Pexels video API.
type PexelsClient struct {
	apiKey     string
	baseURL    string
	maxRetries int
	client     *http.Client
	downloader *http.Client
}

// NewPexelsClient creates a new Pexels client.
func NewPexelsClient(cfg PexelsConfig) *PexelsClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DownloadTimeout == 0 {
		cfg.DownloadTimeout = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = PexelsAPIBaseURL
	}

	return &PexelsClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: cfg.Timeout},
		downloader: &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// Name returns the provider identifier.
func (c *PexelsClient) Name() string {
	return PexelsName
}

// HealthCheck verifies the Pexels API is reachable and the API key is valid.
func (c *PexelsClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/search?query=test&per_page=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// SearchVideos finds stock clips matching the topic. Results prefer the HD
// rendition of each clip; clips with no usable file are skipped.
func (c *PexelsClient) SearchVideos(ctx context.Context, topic string, count int) (*StockSearchResult, error) {
	if count <= 0 {
		count = 10
	}

	endpoint := fmt.Sprintf("%s/videos/search?query=%s&per_page=%d&size=medium",
		c.baseURL, url.QueryEscape(topic), count)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Pexels error (status %d): %s", resp.StatusCode, string(body))
	}

	var searchResp pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &StockSearchResult{}
	for _, video := range searchResp.Videos {
		file := pickVideoFile(video.VideoFiles)
		if file == nil {
			continue
		}
		result.Clips = append(result.Clips, StockClip{
			ID:              video.ID,
			URL:             file.Link,
			DurationSeconds: video.Duration,
			Attribution:     video.User.Name,
		})
	}
	result.TotalFound = len(result.Clips)

	return result, nil
}

// DownloadClip fetches a clip to destPath, retrying transient failures.
func (c *PexelsClient) DownloadClip(ctx context.Context, clipURL, destPath string) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", clipURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.downloader.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("clip download failed with status %d", resp.StatusCode)
			}

			f, err := os.Create(destPath)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			defer f.Close()

			if _, err := io.Copy(f, resp.Body); err != nil {
				return fmt.Errorf("failed writing clip: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(time.Second),
	)
}

// pickVideoFile prefers the hd rendition, falling back to the first file.
func pickVideoFile(files []pexelsVideoFile) *pexelsVideoFile {
	for i := range files {
		if files[i].Quality == "hd" {
			return &files[i]
		}
	}
	if len(files) > 0 {
		return &files[0]
	}
	return nil
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsVideo struct {
	ID         int64             `json:"id"`
	Duration   int               `json:"duration"`
	User       pexelsUser        `json:"user"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsUser struct {
	Name string `json:"name"`
}

type pexelsVideoFile struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
}
