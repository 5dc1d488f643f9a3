// Package wit is the wit.ai dictation backend. Each recognition language
// has its own wit app, so tokens are configured per language.
package wit

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/httpclient"
	"github.com/kbukum/voicy/provider"
	"github.com/kbukum/voicy/transcript"
	"github.com/kbukum/voicy/transcription"
	"github.com/kbukum/voicy/version"
)

const (
	// ProviderName is the registered engine name.
	ProviderName = "wit"

	defaultURL        = "https://api.wit.ai"
	defaultAPIVersion = "20240304"
	defaultTimeout    = 60 * time.Second
)

// Config holds the wit.ai settings.
type Config struct {
	URL        string            `yaml:"url" mapstructure:"url"`
	APIVersion string            `yaml:"api_version" mapstructure:"api_version"`
	Tokens     map[string]string `yaml:"tokens" mapstructure:"tokens"`
	Timeout    time.Duration     `yaml:"timeout" mapstructure:"timeout"`
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Engine against wit.ai.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a wit provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.applyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		Retry:   httpclient.DefaultRetryConfig(),
		Headers: map[string]string{"User-Agent": version.UserAgent("voicy")},
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory builds a Provider from a config section.
func Factory() provider.Factory[transcription.Engine] {
	return func(raw map[string]any) (transcription.Engine, error) {
		var cfg Config
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
			Result:     &cfg,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("wit config: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether any language token is configured.
func (p *Provider) IsAvailable(context.Context) bool { return len(p.cfg.Tokens) > 0 }

// contentTypes are the dictation upload types per container.
var contentTypes = map[chat.Format]string{
	chat.FormatOgg: "audio/ogg",
	chat.FormatMP3: "audio/mpeg3",
	chat.FormatWAV: "audio/wav",
}

// Execute downloads the audio and streams it to the dictation endpoint.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (chat.Transcription, error) {
	token := p.token(req.Language)
	if token == "" {
		return chat.Transcription{}, transcription.Fail(ProviderName, fmt.Sprintf("no token for language %q", req.Language), nil)
	}
	contentType, ok := contentTypes[req.Format]
	if !ok {
		return chat.Transcription{}, transcription.Fail(ProviderName, fmt.Sprintf("unsupported audio format %q", req.Format), nil)
	}

	audio, err := transcription.FetchAudio(ctx, p.client, ProviderName, req.URL)
	if err != nil {
		return chat.Transcription{}, err
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/dictation",
		Query:   map[string]string{"v": p.cfg.APIVersion},
		Headers: map[string]string{"Content-Type": contentType, "Accept": "application/json"},
		Body:    audio,
		Auth:    httpclient.BearerAuth(token),
	})
	if err != nil {
		if resp != nil {
			if msg := errorMessage(resp.Body); msg != "" {
				return chat.Transcription{}, transcription.Fail(ProviderName, msg, httpclient.ToAppError(ProviderName, err))
			}
		}
		return chat.Transcription{}, httpclient.ToAppError(ProviderName, err)
	}
	return parseDictation(resp.Body)
}

func (p *Provider) token(language string) string {
	if t, ok := p.cfg.Tokens[language]; ok {
		return t
	}
	return p.cfg.Tokens[strings.ToLower(language)]
}

type witError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorMessage(body []byte) string {
	var e witError
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}

// chunk is one object of the dictation stream.
type chunk struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
	Error   string `json:"error"`
	Speech  struct {
		Tokens []struct {
			Token string `json:"token"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"tokens"`
	} `json:"speech"`
}

func (c chunk) final() bool {
	return c.IsFinal || c.Type == "FINAL_TRANSCRIPTION"
}

// parseDictation turns the concatenated JSON objects of a dictation response
// into segments, one per final transcription. Token offsets are milliseconds.
func parseDictation(body []byte) (chat.Transcription, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var (
		out   chat.Transcription
		endMs int
	)
	for {
		var c chunk
		err := dec.Decode(&c)
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return chat.Transcription{}, transcription.Fail(ProviderName, "malformed dictation response", err)
		}
		if c.Error != "" {
			return chat.Transcription{}, transcription.Fail(ProviderName, c.Error, nil)
		}
		if !c.final() {
			continue
		}
		startMs := endMs
		if tokens := c.Speech.Tokens; len(tokens) > 0 {
			startMs = tokens[0].Start
			endMs = max(endMs, tokens[len(tokens)-1].End)
		}
		out.Segments = append(out.Segments, chat.Segment{
			Timecode: transcript.Timecode(startMs / 1000),
			Text:     c.Text,
		})
	}
	out.Duration = (endMs + 999) / 1000
	return out, nil
}
