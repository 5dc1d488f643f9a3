// Package google is the Google Cloud Speech-to-Text backend. It runs with the
// calling chat's own API key.
package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/httpclient"
	"github.com/kbukum/voicy/httpclient/rest"
	"github.com/kbukum/voicy/provider"
	"github.com/kbukum/voicy/transcript"
	"github.com/kbukum/voicy/transcription"
	"github.com/kbukum/voicy/version"
)

const (
	// ProviderName is the registered engine name.
	ProviderName = "google"

	defaultURL        = "https://speech.googleapis.com"
	defaultTimeout    = 90 * time.Second
	defaultSampleRate = 48000
	defaultEncoding   = "OGG_OPUS"
	// Telegram does not report the rate of uploaded MP3s; 44.1 kHz is the common one.
	defaultMP3SampleRate = 44100
)

// Config holds the Speech-to-Text settings shared by all chats.
type Config struct {
	URL        string        `yaml:"url" mapstructure:"url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// SampleRate and Encoding describe voice messages (OGG).
	SampleRate    int    `yaml:"sample_rate" mapstructure:"sample_rate"`
	Encoding      string `yaml:"encoding" mapstructure:"encoding"`
	MP3SampleRate int    `yaml:"mp3_sample_rate" mapstructure:"mp3_sample_rate"`
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.SampleRate == 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.Encoding == "" {
		c.Encoding = defaultEncoding
	}
	if c.MP3SampleRate == 0 {
		c.MP3SampleRate = defaultMP3SampleRate
	}
}

// audioConfig returns the encoding and rate sent for f. WAV headers carry
// both, so the API reads them from the file.
func (c Config) audioConfig(f chat.Format) (encoding string, rate int, ok bool) {
	switch f {
	case chat.FormatOgg:
		return c.Encoding, c.SampleRate, true
	case chat.FormatMP3:
		return "MP3", c.MP3SampleRate, true
	case chat.FormatWAV:
		return "", 0, true
	}
	return "", 0, false
}

// Provider implements transcription.Engine against speech:recognize.
type Provider struct {
	cfg    Config
	client *rest.Client
}

// NewProvider creates a Google provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.applyDefaults()
	client, err := rest.New(httpclient.Config{
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
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("google config: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable is always true; availability depends on each chat's key.
func (p *Provider) IsAvailable(context.Context) bool { return true }

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding                   string `json:"encoding,omitempty"`
	SampleRateHertz            int    `json:"sampleRateHertz,omitempty"`
	LanguageCode               string `json:"languageCode"`
	EnableWordTimeOffsets      bool   `json:"enableWordTimeOffsets"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
			Words      []struct {
				StartTime string `json:"startTime"`
				EndTime   string `json:"endTime"`
			} `json:"words"`
		} `json:"alternatives"`
		ResultEndTime string `json:"resultEndTime"`
	} `json:"results"`
	TotalBilledTime string `json:"totalBilledTime"`
	Error           *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Execute downloads the audio and sends it inline to speech:recognize.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (chat.Transcription, error) {
	if req.Credential == "" {
		return chat.Transcription{}, errors.MissingCredentials(ProviderName)
	}
	encoding, rate, ok := p.cfg.audioConfig(req.Format)
	if !ok {
		return chat.Transcription{}, transcription.Fail(ProviderName, fmt.Sprintf("unsupported audio format %q", req.Format), nil)
	}

	audio, err := transcription.FetchAudio(ctx, p.client.HTTP(), ProviderName, req.URL)
	if err != nil {
		return chat.Transcription{}, err
	}

	body := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            rate,
			LanguageCode:               req.Language,
			EnableWordTimeOffsets:      true,
			EnableAutomaticPunctuation: true,
		},
		Audio: recognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}
	resp, err := rest.Post[recognizeResponse](ctx, p.client, "/v1/speech:recognize", body,
		rest.WithAuth(httpclient.APIKeyAuthQuery(req.Credential, "key")),
	)
	if err != nil {
		if resp != nil && resp.Data.Error != nil && resp.Data.Error.Message != "" {
			return chat.Transcription{}, transcription.Fail(ProviderName, resp.Data.Error.Message, httpclient.ToAppError(ProviderName, err))
		}
		return chat.Transcription{}, httpclient.ToAppError(ProviderName, err)
	}
	return toTranscription(resp.Data), nil
}

// toTranscription maps each result to one segment. A result starts at its
// first word, or where the previous result ended.
func toTranscription(r recognizeResponse) chat.Transcription {
	var (
		out chat.Transcription
		end time.Duration
	)
	for _, res := range r.Results {
		resultEnd := offset(res.ResultEndTime)
		if len(res.Alternatives) == 0 {
			end = max(end, resultEnd)
			continue
		}
		alt := res.Alternatives[0]
		start := end
		if len(alt.Words) > 0 {
			start = offset(alt.Words[0].StartTime)
		}
		end = max(end, resultEnd)
		out.Segments = append(out.Segments, chat.Segment{
			Timecode: transcript.Timecode(int(start / time.Second)),
			Text:     strings.TrimSpace(alt.Transcript),
		})
	}
	out.Duration = int((end + time.Second - 1) / time.Second)
	return out
}

// offset parses protobuf JSON durations such as "3.500s".
func offset(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
