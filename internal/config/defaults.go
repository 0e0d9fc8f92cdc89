package config

// Config is the top-level reel configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline"`
	Assembly  AssemblyConfig  `mapstructure:"assembly" yaml:"assembly"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	OpenAI     OpenAIConfig     `mapstructure:"openai" yaml:"openai"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs" yaml:"elevenlabs"`
	Pexels     PexelsConfig     `mapstructure:"pexels" yaml:"pexels"`
}

// OpenAIConfig holds OpenAI settings for script, metadata, and image generation.
type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key" yaml:"api_key"`
	ScriptModel   string `mapstructure:"script_model" yaml:"script_model"`
	LongformModel string `mapstructure:"longform_model" yaml:"longform_model"`
	MetadataModel string `mapstructure:"metadata_model" yaml:"metadata_model"`
	ImageModel    string `mapstructure:"image_model" yaml:"image_model"`
}

// ElevenLabsConfig holds ElevenLabs TTS settings.
type ElevenLabsConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
	Voice  string `mapstructure:"voice" yaml:"voice"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PexelsConfig holds Pexels stock footage settings.
type PexelsConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// PipelineConfig holds client-side pipeline and poller settings.
type PipelineConfig struct {
	// ServerURL is the reel server the generate command drives.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// PollIntervalSeconds is the delay between job status polls.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" yaml:"poll_interval_seconds"`

	// MaxPolls bounds the polling loop. Exhausting the budget is treated
	// as unconfirmed success rather than failure.
	MaxPolls int `mapstructure:"max_polls" yaml:"max_polls"`

	// FailureTrustPolls is the poll count below which a failed status is
	// trusted without probing for the artifact.
	FailureTrustPolls int `mapstructure:"failure_trust_polls" yaml:"failure_trust_polls"`

	// ErrorProbeAfter is the poll count after which transport errors also
	// trigger an artifact probe.
	ErrorProbeAfter int `mapstructure:"error_probe_after" yaml:"error_probe_after"`
}

// AssemblyConfig holds server-side render settings.
type AssemblyConfig struct {
	FFmpegPath           string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath          string `mapstructure:"ffprobe_path" yaml:"ffprobe_path"`
	RenderTimeoutSeconds int    `mapstructure:"render_timeout_seconds" yaml:"render_timeout_seconds"`
	StockClipCount       int    `mapstructure:"stock_clip_count" yaml:"stock_clip_count"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8001",
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIKey:        "${OPENAI_API_KEY}",
				ScriptModel:   "gpt-4o-mini",
				LongformModel: "gpt-4o",
				MetadataModel: "gpt-4o-mini",
				ImageModel:    "dall-e-3",
			},
			ElevenLabs: ElevenLabsConfig{
				APIKey: "${ELEVENLABS_API_KEY}",
				Model:  "eleven_turbo_v2_5",
				Voice:  "pNInz6obpgDQGcFmaJgB",
				Format: "mp3_22050_32",
			},
			Pexels: PexelsConfig{
				APIKey: "${PEXELS_API_KEY}",
			},
		},
		Pipeline: PipelineConfig{
			ServerURL:           "http://127.0.0.1:8001",
			PollIntervalSeconds: 2,
			MaxPolls:            150,
			FailureTrustPolls:   10,
			ErrorProbeAfter:     30,
		},
		Assembly: AssemblyConfig{
			FFmpegPath:           "ffmpeg",
			FFprobePath:          "ffprobe",
			RenderTimeoutSeconds: 600,
			StockClipCount:       3,
		},
	}
}
