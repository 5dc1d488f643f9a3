package chat

// Snapshot is the sanitized per-request projection of a chat's configuration.
type Snapshot struct {
	ID     int64
	Engine Engine
	// WitLanguage is a wit.ai language code such as "en" or "ru".
	WitLanguage string
	// GoogleLanguage is a BCP-47 tag such as "en-US".
	GoogleLanguage string
	AdminLocked    bool
	FilesBanned    bool
	Silent         bool
	Banned         bool
	Timecodes      bool
	// GoogleSetupMessageID references the message that started credential setup.
	GoogleSetupMessageID int
	// GoogleKey is the chat's Google Speech credential, empty when unset.
	GoogleKey string
	// Language is the interface language used for notices.
	Language string
}

// EngineLanguage returns the locale configured for the selected engine.
func (s Snapshot) EngineLanguage() string {
	if s.Engine == EngineGoogle {
		return s.GoogleLanguage
	}
	return s.WitLanguage
}

// Credential returns the credential for the selected engine.
func (s Snapshot) Credential() string {
	if s.Engine == EngineGoogle {
		return s.GoogleKey
	}
	return ""
}

// HasCredential reports whether the selected engine can run for this chat.
func (s Snapshot) HasCredential() bool {
	return !s.Engine.Capabilities().RequiresCredential || s.Credential() != ""
}

// Defaults for a chat seen for the first time.
const (
	DefaultWitLanguage    = "en"
	DefaultGoogleLanguage = "en-US"
	DefaultLanguage       = "en"
)

// NewDefaultSnapshot returns the configuration of a newly created chat.
func NewDefaultSnapshot(id int64) Snapshot {
	return Snapshot{
		ID:             id,
		Engine:         EngineWit,
		WitLanguage:    DefaultWitLanguage,
		GoogleLanguage: DefaultGoogleLanguage,
		Language:       DefaultLanguage,
	}
}
