package providers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

const MockName = "mock"

// MockScriptProvider is a ScriptProvider for testing.
type MockScriptProvider struct {
	ScriptText string
	Metadata   *MetadataResult
	ShouldFail bool

	ScriptCalls   atomic.Int64
	MetadataCalls atomic.Int64
}

func (m *MockScriptProvider) Name() string { return MockName }

func (m *MockScriptProvider) HealthCheck(ctx context.Context) error {
	if m.ShouldFail {
		return fmt.Errorf("mock provider configured to fail")
	}
	return nil
}

func (m *MockScriptProvider) GenerateScript(ctx context.Context, req *ScriptRequest) (*ScriptResult, error) {
	m.ScriptCalls.Add(1)
	if m.ShouldFail {
		return nil, fmt.Errorf("mock provider configured to fail")
	}
	text := m.ScriptText
	if text == "" {
		text = strings.Repeat("word ", ScriptWordTarget(req.DurationMinutes))
		text = strings.TrimSpace(text)
	}
	return &ScriptResult{
		Text:      text,
		WordCount: len(strings.Fields(text)),
		ModelUsed: MockName,
	}, nil
}

func (m *MockScriptProvider) GenerateMetadata(ctx context.Context, req *MetadataRequest) (*MetadataResult, error) {
	m.MetadataCalls.Add(1)
	if m.ShouldFail {
		return nil, fmt.Errorf("mock provider configured to fail")
	}
	if m.Metadata != nil {
		return m.Metadata, nil
	}
	return &MetadataResult{
		Titles:      []string{"Title One", "Title Two", "Title Three"},
		Description: "A mock description about " + req.Topic,
		Tags:        []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10"},
		ModelUsed:   MockName,
	}, nil
}

// MockImageProvider is an ImageProvider for testing.
type MockImageProvider struct {
	URL        string
	ShouldFail bool
	Calls      atomic.Int64
}

func (m *MockImageProvider) Name() string { return MockName }

func (m *MockImageProvider) GenerateImage(ctx context.Context, topic string) (*ImageResult, error) {
	m.Calls.Add(1)
	if m.ShouldFail {
		return nil, fmt.Errorf("mock provider configured to fail")
	}
	url := m.URL
	if url == "" {
		url = "http://example.com/mock.png"
	}
	return &ImageResult{URL: url, ModelUsed: MockName}, nil
}

// MockTTSProvider is a TTSProvider for testing.
type MockTTSProvider struct {
	Audio      []byte
	ShouldFail bool
	Calls      atomic.Int64
}

func (m *MockTTSProvider) Name() string { return MockName }

func (m *MockTTSProvider) HealthCheck(ctx context.Context) error { return nil }

func (m *MockTTSProvider) Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	m.Calls.Add(1)
	if m.ShouldFail {
		err := fmt.Errorf("mock provider configured to fail")
		return &TTSResult{Success: false, ErrorMessage: err.Error()}, err
	}
	audio := m.Audio
	if audio == nil {
		audio = []byte("mock-audio-bytes")
	}
	return &TTSResult{
		Success:   true,
		Audio:     audio,
		CharCount: len(req.Text),
	}, nil
}

// MockStockProvider is a StockProvider for testing.
type MockStockProvider struct {
	Clips       []StockClip
	ClipBytes   []byte
	ShouldFail  bool
	SearchCalls atomic.Int64
}

func (m *MockStockProvider) Name() string { return MockName }

func (m *MockStockProvider) HealthCheck(ctx context.Context) error { return nil }

func (m *MockStockProvider) SearchVideos(ctx context.Context, topic string, count int) (*StockSearchResult, error) {
	m.SearchCalls.Add(1)
	if m.ShouldFail {
		return nil, fmt.Errorf("mock provider configured to fail")
	}
	clips := m.Clips
	if len(clips) > count {
		clips = clips[:count]
	}
	return &StockSearchResult{TotalFound: len(clips), Clips: clips}, nil
}

func (m *MockStockProvider) DownloadClip(ctx context.Context, url, destPath string) error {
	if m.ShouldFail {
		return fmt.Errorf("mock provider configured to fail")
	}
	data := m.ClipBytes
	if data == nil {
		data = []byte("mock-clip-bytes")
	}
	return os.WriteFile(destPath, data, 0o644)
}
