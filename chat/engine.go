package chat

import (
	"fmt"
	"strings"
)

// Engine selects the speech-to-text backend for a chat.
type Engine int

const (
	EngineWit Engine = iota
	EngineGoogle
)

// Capabilities are the per-engine behaviors the pipeline branches on.
type Capabilities struct {
	// RequiresCredential means the chat must supply its own key.
	RequiresCredential bool
	// ExposesRawError means engine error text is shown to the user.
	ExposesRawError bool
}

var engines = map[Engine]struct {
	name string
	caps Capabilities
}{
	EngineWit:    {name: "wit", caps: Capabilities{}},
	EngineGoogle: {name: "google", caps: Capabilities{RequiresCredential: true, ExposesRawError: true}},
}

// String returns the engine name used in config and storage.
func (e Engine) String() string {
	if def, ok := engines[e]; ok {
		return def.name
	}
	return fmt.Sprintf("engine(%d)", int(e))
}

// Capabilities returns the capability flags of e.
func (e Engine) Capabilities() Capabilities {
	return engines[e].caps
}

// ParseEngine parses an engine name. Matching is case-insensitive.
func ParseEngine(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e, def := range engines {
		if def.name == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown engine %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (e Engine) MarshalText() ([]byte, error) {
	if _, ok := engines[e]; !ok {
		return nil, fmt.Errorf("unknown engine %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Engine) UnmarshalText(text []byte) error {
	parsed, err := ParseEngine(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
