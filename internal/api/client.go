package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Client is an HTTP client for the reel API. Every operation carries its own
// deadline from the Deadlines table, applied on top of the caller's context.
type Client struct {
	baseURL    string
	deadlines  Deadlines
	httpClient *http.Client
}

// NewClient creates a new API client with default deadlines.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		deadlines: DefaultDeadlines(),
		// No client-wide timeout: per-operation deadlines govern.
		httpClient: &http.Client{},
	}
}

// SetDeadlines overrides the per-operation deadline table.
func (c *Client) SetDeadlines(d Deadlines) {
	c.deadlines = d
}

// GenerateScript asks the server to write a narration script. The deadline
// scales with the requested duration.
func (c *Client) GenerateScript(ctx context.Context, topic string, durationMinutes int) (*GenerateScriptResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.ScriptDeadline(durationMinutes))
	defer cancel()

	var resp GenerateScriptResponse
	err := c.post(ctx, OpScript, "/api/generate-script",
		GenerateScriptRequest{Topic: topic, DurationMinutes: durationMinutes}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateVoice converts a stored script to voiceover audio.
func (c *Client) GenerateVoice(ctx context.Context, scriptID string) (*GenerateVoiceResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpVoice))
	defer cancel()

	var resp GenerateVoiceResponse
	err := c.post(ctx, OpVoice, "/api/generate-voice", GenerateVoiceRequest{ScriptID: scriptID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateThumbnail creates a thumbnail image for the topic.
func (c *Client) GenerateThumbnail(ctx context.Context, topic string) (*GenerateThumbnailResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpThumbnail))
	defer cancel()

	var resp GenerateThumbnailResponse
	err := c.post(ctx, OpThumbnail, "/api/generate-thumbnail", GenerateThumbnailRequest{Topic: topic}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchStockFootage finds stock clips for the topic.
func (c *Client) SearchStockFootage(ctx context.Context, topic string, count int) (*StockVideosResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpStockSearch))
	defer cancel()

	var resp StockVideosResponse
	err := c.post(ctx, OpStockSearch, "/api/get-stock-videos", StockVideosRequest{Topic: topic, Count: count}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateMetadata produces YouTube metadata from the topic and script text.
func (c *Client) GenerateMetadata(ctx context.Context, topic, scriptContent string) (*MetadataResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpMetadata))
	defer cancel()

	var resp MetadataResponse
	err := c.post(ctx, OpMetadata, "/api/generate-youtube-metadata",
		MetadataRequest{Topic: topic, ScriptContent: scriptContent}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// TriggerAssembly starts the background render job and returns its job id.
func (c *Client) TriggerAssembly(ctx context.Context, scriptID, topic string) (*AssembleVideoResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpAssemble))
	defer cancel()

	var resp AssembleVideoResponse
	err := c.post(ctx, OpAssemble, "/api/assemble-video", AssembleVideoRequest{ScriptID: scriptID, Topic: topic}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// JobStatus fetches the current status of an assembly job.
func (c *Client) JobStatus(ctx context.Context, videoID string) (*JobStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpStatus))
	defer cancel()

	var status JobStatus
	if err := c.get(ctx, OpStatus, "/api/video-status/"+videoID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ProbeArtifact issues a lightweight existence check for an assembled video
// without transferring the payload. A success status or a "method not
// allowed but resource exists" response both count as existence.
func (c *Client) ProbeArtifact(ctx context.Context, videoID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpProbe))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead,
		c.baseURL+"/api/download/video/"+videoID, nil)
	if err != nil {
		return false, &OpError{Op: OpProbe, Kind: KindTransport, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, wrapTransportErr(OpProbe, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusMethodNotAllowed:
		// Server doesn't support HEAD but the route resolved: treat as
		// existence confirmation.
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, &OpError{Op: OpProbe, Kind: KindProvider, Status: resp.StatusCode}
	}
}

// DownloadArtifact streams an artifact to destPath.
func (c *Client) DownloadArtifact(ctx context.Context, kind ArtifactKind, id, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpDownload))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/download/%s/%s", c.baseURL, kind, id), nil)
	if err != nil {
		return &OpError{Op: OpDownload, Kind: KindTransport, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportErr(OpDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.providerError(OpDownload, resp)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed writing artifact: %w", err)
	}
	return nil
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadlines.For(OpStatus))
	defer cancel()

	var resp HealthResponse
	if err := c.get(ctx, OpStatus, "/api/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestIntegrations runs the server's provider integration tests.
func (c *Client) TestIntegrations(ctx context.Context) (map[string]IntegrationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*c.deadlines.For(OpMetadata))
	defer cancel()

	results := make(map[string]IntegrationResult)
	if err := c.post(ctx, OpStatus, "/api/test-integrations", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, op Operation, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &OpError{Op: op, Kind: KindTransport, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportErr(op, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(op, resp, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, op Operation, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return &OpError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportErr(op, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(op, resp, result)
}

// handleResponse decodes a success payload or normalizes an error response.
func (c *Client) handleResponse(op Operation, resp *http.Response, result any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.providerError(op, resp)
	}

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// providerError builds an OpError from a non-success response, preferring
// the server's detail message over the raw body.
func (c *Client) providerError(op Operation, resp *http.Response) *OpError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := string(body)
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
		detail = errResp.Detail
	}

	return &OpError{Op: op, Kind: KindProvider, Status: resp.StatusCode, Detail: detail}
}
