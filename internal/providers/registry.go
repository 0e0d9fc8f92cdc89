package providers

import (
	"log/slog"
	"sync"
)

// RegistryConfig holds the provider settings used to build clients.
type RegistryConfig struct {
	OpenAI     OpenAIConfig
	ElevenLabs ElevenLabsTTSConfig
	Pexels     PexelsConfig
}

// Registry holds the active provider clients. Reload swaps clients when
// configuration changes.
type Registry struct {
	mu     sync.RWMutex
	script ScriptProvider
	image  ImageProvider
	tts    TTSProvider
	stock  StockProvider
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetLogger sets the logger used during reloads.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Reload rebuilds all provider clients from the given configuration.
func (r *Registry) Reload(cfg RegistryConfig) {
	openaiClient := NewOpenAIClient(cfg.OpenAI)

	r.mu.Lock()
	r.script = openaiClient
	r.image = openaiClient
	r.tts = NewElevenLabsTTSClient(cfg.ElevenLabs)
	r.stock = NewPexelsClient(cfg.Pexels)
	logger := r.logger
	r.mu.Unlock()

	if logger != nil {
		logger.Info("provider registry reloaded",
			"script", openaiClient.Name(),
			"tts", ElevenLabsName,
			"stock", PexelsName,
		)
	}
}

// SetScript overrides the script provider (tests).
func (r *Registry) SetScript(p ScriptProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = p
}

// SetImage overrides the image provider (tests).
func (r *Registry) SetImage(p ImageProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.image = p
}

// SetTTS overrides the TTS provider (tests).
func (r *Registry) SetTTS(p TTSProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts = p
}

// SetStock overrides the stock footage provider (tests).
func (r *Registry) SetStock(p StockProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock = p
}

// Script returns the active script provider.
func (r *Registry) Script() ScriptProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.script
}

// Image returns the active image provider.
func (r *Registry) Image() ImageProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.image
}

// TTS returns the active TTS provider.
func (r *Registry) TTS() TTSProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tts
}

// Stock returns the active stock footage provider.
func (r *Registry) Stock() StockProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stock
}
