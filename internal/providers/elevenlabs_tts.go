package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ElevenLabsName         = "elevenlabs"
	ElevenLabsAPIBaseURL   = "https://api.elevenlabs.io/v1"
	ElevenLabsDefaultModel = "eleven_turbo_v2_5"
)

// ElevenLabsTTSConfig holds configuration for the ElevenLabs TTS client.
type ElevenLabsTTSConfig struct {
	APIKey     string
	Model      string  // e.g., "eleven_turbo_v2_5", "eleven_multilingual_v2"
	Voice      string  // Default voice ID
	Format     string  // Output format: mp3_22050_32, mp3_44100_128, etc.
	Stability  float64 // Voice stability (0.0-1.0)
	Similarity float64 // Similarity boost (0.0-1.0)
	Style      float64 // Style exaggeration (0.0-1.0)
	Timeout    time.Duration
	BaseURL    string // Optional (tests)
}

// ElevenLabsTTSClient implements TTSProvider using the ElevenLabs API.
type ElevenLabsTTSClient struct {
	apiKey     string
	model      string
	voice      string
	format     string
	stability  float64
	similarity float64
	style      float64
	baseURL    string
	client     *http.Client
}

// NewElevenLabsTTSClient creates a new ElevenLabs TTS client.
func NewElevenLabsTTSClient(cfg ElevenLabsTTSConfig) *ElevenLabsTTSClient {
	if cfg.Model == "" {
		cfg.Model = ElevenLabsDefaultModel
	}
	if cfg.Format == "" {
		cfg.Format = "mp3_22050_32"
	}
	if cfg.Stability == 0 {
		cfg.Stability = 0.71
	}
	if cfg.Similarity == 0 {
		cfg.Similarity = 0.5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second // TTS can be slow for long scripts
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ElevenLabsAPIBaseURL
	}

	return &ElevenLabsTTSClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		voice:      cfg.Voice,
		format:     cfg.Format,
		stability:  cfg.Stability,
		similarity: cfg.Similarity,
		style:      cfg.Style,
		baseURL:    cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *ElevenLabsTTSClient) Name() string {
	return ElevenLabsName
}

// HealthCheck verifies the ElevenLabs API is reachable and the API key is valid.
func (c *ElevenLabsTTSClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/user", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// CleanScriptForSynthesis strips annotation markers that occasionally leak
// into generated scripts so they are not read aloud.
func CleanScriptForSynthesis(text string) string {
	replacer := strings.NewReplacer(
		"[TIMESTAMP:", "",
		"[PAUSE]", "... ",
		"[EMPHASIS]", "",
		"]", "",
	)
	return replacer.Replace(text)
}

// Generate converts text to audio using the ElevenLabs API.
func (c *ElevenLabsTTSClient) Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	start := time.Now()

	text := CleanScriptForSynthesis(strings.TrimSpace(req.Text))
	if text == "" {
		err := fmt.Errorf("text is required")
		return &TTSResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	voice := req.Voice
	if voice == "" {
		voice = c.voice
	}
	if voice == "" {
		err := fmt.Errorf("voice_id is required")
		return &TTSResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			CharCount:     len(text),
			ExecutionTime: time.Since(start),
		}, err
	}

	format := req.Format
	if format == "" {
		format = c.format
	}

	ttsReq := elevenLabsTTSRequest{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       c.stability,
			SimilarityBoost: c.similarity,
			Style:           c.style,
			UseSpeakerBoost: true,
		},
	}

	audioBytes, err := c.doRequest(ctx, voice, format, ttsReq)
	if err != nil {
		return &TTSResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			CharCount:     len(text),
			ExecutionTime: time.Since(start),
		}, err
	}

	return &TTSResult{
		Success:       true,
		Audio:         audioBytes,
		CharCount:     len(text),
		ExecutionTime: time.Since(start),
	}, nil
}

// doRequest makes an HTTP request to the ElevenLabs TTS API.
func (c *ElevenLabsTTSClient) doRequest(ctx context.Context, voiceID, format string, body elevenLabsTTSRequest) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", c.baseURL, voiceID, format)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp elevenLabsErrorResponse
		errMsg := string(respBody)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail.Message != "" {
			errMsg = errResp.Detail.Message
		}
		return nil, fmt.Errorf("ElevenLabs error (status %d): %s", resp.StatusCode, errMsg)
	}

	return respBody, nil
}

type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}
