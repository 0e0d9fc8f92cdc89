package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != "8001" {
		t.Errorf("default port = %s", cfg.Server.Port)
	}
	if cfg.Providers.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if cfg.Providers.OpenAI.ScriptModel != "gpt-4o-mini" || cfg.Providers.OpenAI.LongformModel != "gpt-4o" {
		t.Errorf("script models = %s / %s", cfg.Providers.OpenAI.ScriptModel, cfg.Providers.OpenAI.LongformModel)
	}
	if cfg.Pipeline.PollIntervalSeconds != 2 || cfg.Pipeline.MaxPolls != 150 {
		t.Errorf("poll settings = %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.FailureTrustPolls != 10 || cfg.Pipeline.ErrorProbeAfter != 30 {
		t.Errorf("poll arbitration settings = %+v", cfg.Pipeline)
	}
	if cfg.Assembly.FFmpegPath != "ffmpeg" || cfg.Assembly.RenderTimeoutSeconds != 600 {
		t.Errorf("assembly settings = %+v", cfg.Assembly)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestToProviderRegistryConfig(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "sk-test")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := DefaultConfig()
	cfg.Providers.OpenAI.APIKey = "${TEST_OPENAI_KEY}"
	cfg.Providers.Pexels.APIKey = "literal-pexels-key"

	rc := cfg.ToProviderRegistryConfig()
	if rc.OpenAI.APIKey != "sk-test" {
		t.Errorf("openai key = %q", rc.OpenAI.APIKey)
	}
	if rc.Pexels.APIKey != "literal-pexels-key" {
		t.Errorf("pexels key = %q", rc.Pexels.APIKey)
	}
	if rc.ElevenLabs.Voice != cfg.Providers.ElevenLabs.Voice {
		t.Error("elevenlabs settings not carried over")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# Reel configuration") {
		t.Error("expected comment header")
	}
	if !strings.Contains(content, "${OPENAI_API_KEY}") {
		t.Error("expected env var placeholders in written config")
	}
	if !strings.Contains(content, "poll_interval_seconds: 2") {
		t.Error("expected pipeline defaults in written config")
	}
}
