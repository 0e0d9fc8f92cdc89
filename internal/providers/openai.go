package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName = "openai"

	openAIDefaultScriptModel   = "gpt-4o-mini"
	openAIDefaultLongformModel = "gpt-4o"
	openAIDefaultMetadataModel = "gpt-4o-mini"
	openAIDefaultImageModel    = "dall-e-3"

	// Narration pacing used to size scripts: ~150 spoken words per minute.
	wordsPerMinute = 150

	// longformThresholdMinutes is the requested duration above which the
	// longform model is used instead of the cheaper default.
	longformThresholdMinutes = 5
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey        string
	ScriptModel   string // Model for scripts <= 5 minutes (default: gpt-4o-mini)
	LongformModel string // Model for longer scripts (default: gpt-4o)
	MetadataModel string // Model for metadata generation (default: gpt-4o-mini)
	ImageModel    string // Model for thumbnails (default: dall-e-3)
	MaxRetries    int    // Retry attempts for SDK transport
	Timeout       time.Duration
	BaseURL       string       // Optional (tests)
	HTTPClient    *http.Client // Optional (tests)
}

// OpenAIClient implements ScriptProvider and ImageProvider using the official
// OpenAI SDK.
type OpenAIClient struct {
	scriptModel   string
	longformModel string
	metadataModel string
	imageModel    string
	client        openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.ScriptModel == "" {
		cfg.ScriptModel = openAIDefaultScriptModel
	}
	if cfg.LongformModel == "" {
		cfg.LongformModel = openAIDefaultLongformModel
	}
	if cfg.MetadataModel == "" {
		cfg.MetadataModel = openAIDefaultMetadataModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openAIDefaultImageModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		scriptModel:   cfg.ScriptModel,
		longformModel: cfg.LongformModel,
		metadataModel: cfg.MetadataModel,
		imageModel:    cfg.ImageModel,
		client:        openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// HealthCheck verifies the OpenAI API is reachable and the API key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	if page == nil {
		return fmt.Errorf("openai models list returned nil response")
	}
	return nil
}

// ScriptWordTarget returns the word count target for a requested duration.
func ScriptWordTarget(durationMinutes int) int {
	target := durationMinutes * wordsPerMinute
	if target < wordsPerMinute {
		target = wordsPerMinute
	}
	return target
}

// scriptModelFor picks the chat model based on requested length.
func (c *OpenAIClient) scriptModelFor(durationMinutes int) string {
	if durationMinutes > longformThresholdMinutes {
		return c.longformModel
	}
	return c.scriptModel
}

// GenerateScript writes a voiceover script for the topic.
func (c *OpenAIClient) GenerateScript(ctx context.Context, req *ScriptRequest) (*ScriptResult, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration_minutes must be positive")
	}

	wordTarget := ScriptWordTarget(req.DurationMinutes)
	model := c.scriptModelFor(req.DurationMinutes)

	// Cap token budget relative to requested length.
	maxTokens := wordTarget + 500
	if maxTokens > 4000 {
		maxTokens = 4000
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(scriptPrompt(req.Topic, req.DurationMinutes, wordTarget)),
		},
		Model:       openai.ChatModel(model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("openai returned an empty script")
	}

	return &ScriptResult{
		Text:          text,
		WordCount:     len(strings.Fields(text)),
		ModelUsed:     model,
		ExecutionTime: time.Since(start),
	}, nil
}

// GenerateMetadata produces structured YouTube metadata for a script.
// The model is asked for JSON which is validated against metadataSchema.
func (c *OpenAIClient) GenerateMetadata(ctx context.Context, req *MetadataRequest) (*MetadataResult, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(metadataPrompt(req.Topic, req.ScriptText)),
		},
		Model:       openai.ChatModel(c.metadataModel),
		MaxTokens:   openai.Int(800),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	result, err := parseMetadata(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	result.ModelUsed = c.metadataModel
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// GenerateImage creates a thumbnail image and returns its URL.
func (c *OpenAIClient) GenerateImage(ctx context.Context, topic string) (*ImageResult, error) {
	start := time.Now()

	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  thumbnailPrompt(topic),
		Model:   openai.ImageModel(c.imageModel),
		Size:    openai.ImageGenerateParamsSize1792x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
		N:       openai.Int(1),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("openai returned no image")
	}

	return &ImageResult{
		URL:           resp.Data[0].URL,
		ModelUsed:     c.imageModel,
		ExecutionTime: time.Since(start),
	}, nil
}

// mapOpenAIError converts SDK errors into readable errors.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI error (status %d)", apiErr.StatusCode)
	}
	return err
}
