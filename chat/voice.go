package chat

// Segment is one timecoded piece of a transcription, in audio order.
type Segment struct {
	Timecode string `json:"timecode"`
	Text     string `json:"text"`
}

// Transcription is what an engine returns for one file.
type Transcription struct {
	Segments []Segment
	// Duration in seconds of the recognized audio.
	Duration int
}

// VoiceRecord is the persisted result of one successful transcription.
type VoiceRecord struct {
	URL      string
	Text     string
	ChatID   int64
	Duration int
	Segments []Segment
	FileID   string
	Engine   Engine
	Language string
}

// Media is an attachment resolved to a downloadable location.
type Media struct {
	URL    string
	Format Format
}
