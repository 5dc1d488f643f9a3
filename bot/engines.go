package bot

import (
	"github.com/kbukum/voicy/provider"
	"github.com/kbukum/voicy/transcription"
	"github.com/kbukum/voicy/transcription/google"
	"github.com/kbukum/voicy/transcription/wit"
)

// NewEngines builds every recognition engine from cfg and wraps each one
// with the configured resilience policies.
func NewEngines(cfg EnginesConfig) (*provider.Manager[transcription.Engine], error) {
	registry := transcription.NewRegistry()
	registry.RegisterFactory(wit.ProviderName, wit.Factory())
	registry.RegisterFactory(google.ProviderName, google.Factory())

	engines := provider.NewManager(registry, func(e transcription.Engine) transcription.Engine {
		return provider.WithResilience(e, cfg.Resilience)
	})
	err := engines.InitializeAll(map[string]map[string]any{
		wit.ProviderName:    cfg.Wit,
		google.ProviderName: cfg.Google,
	})
	if err != nil {
		return nil, err
	}
	return engines, nil
}
