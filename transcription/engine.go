package transcription

import (
	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/provider"
)

// Request is one recognition call.
type Request struct {
	// URL is where the engine fetches the audio.
	URL string
	// Format is the audio container. Engines refuse FormatUnknown.
	Format chat.Format
	// Language is the engine-specific locale, e.g. "en" for wit or "en-US" for Google.
	Language string
	// Credential is the chat's own key for engines that require one.
	Credential string
}

// Engine is a recognition backend.
type Engine = provider.RequestResponse[Request, chat.Transcription]

// NewRegistry creates a registry of engine factories.
func NewRegistry() *provider.Registry[Engine] {
	return provider.NewRegistry[Engine]()
}

// NewManager creates a manager backed by a fresh registry.
func NewManager() *provider.Manager[Engine] {
	return provider.NewManager(NewRegistry())
}
