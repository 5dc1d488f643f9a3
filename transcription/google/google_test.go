package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/transcription"
)

type speechServer struct {
	*httptest.Server
	key     string
	request recognizeRequest
}

func newSpeechServer(t *testing.T, status int, body string) *speechServer {
	t.Helper()
	s := &speechServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/file/voice.oga", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("opus-bytes"))
	})
	mux.HandleFunc("/v1/speech:recognize", func(w http.ResponseWriter, r *http.Request) {
		s.key = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&s.request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestProvider(t *testing.T, url string) *Provider {
	t.Helper()
	p, err := NewProvider(Config{URL: url, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestExecute_Recognizes(t *testing.T) {
	srv := newSpeechServer(t, http.StatusOK, `{
		"results": [
			{"alternatives": [{"transcript": " Hello world ", "words": [{"startTime": "0.400s"}, {"startTime": "0.900s"}]}], "resultEndTime": "4.200s"},
			{"alternatives": [], "resultEndTime": "5s"},
			{"alternatives": [{"transcript": "second part"}], "resultEndTime": "71.300s"}
		]
	}`)
	p := newTestProvider(t, srv.URL)

	got, err := p.Execute(context.Background(), transcription.Request{
		URL:        srv.URL + "/file/voice.oga",
		Format:     chat.FormatOgg,
		Language:   "ru-RU",
		Credential: "AIza-chat-key",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if srv.key != "AIza-chat-key" {
		t.Errorf("key = %q", srv.key)
	}
	cfg := srv.request.Config
	if cfg.LanguageCode != "ru-RU" || cfg.Encoding != defaultEncoding || cfg.SampleRateHertz != defaultSampleRate || !cfg.EnableWordTimeOffsets {
		t.Errorf("config = %+v", cfg)
	}
	if audio, _ := base64.StdEncoding.DecodeString(srv.request.Audio.Content); string(audio) != "opus-bytes" {
		t.Errorf("audio = %q", audio)
	}

	if len(got.Segments) != 2 {
		t.Fatalf("segments = %+v", got.Segments)
	}
	if got.Segments[0].Timecode != "0:00" || got.Segments[0].Text != "Hello world" {
		t.Errorf("first = %+v", got.Segments[0])
	}
	// no words: starts where the previous result ended
	if got.Segments[1].Timecode != "0:05" || got.Segments[1].Text != "second part" {
		t.Errorf("second = %+v", got.Segments[1])
	}
	if got.Duration != 72 {
		t.Errorf("duration = %d, want 72", got.Duration)
	}
}

func TestExecute_AudioConfigPerFormat(t *testing.T) {
	tests := []struct {
		format   chat.Format
		encoding string
		rate     int
	}{
		{chat.FormatOgg, "OGG_OPUS", 48000},
		{chat.FormatMP3, "MP3", 44100},
		{chat.FormatWAV, "", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			srv := newSpeechServer(t, http.StatusOK, `{"results": []}`)
			p := newTestProvider(t, srv.URL)
			_, err := p.Execute(context.Background(), transcription.Request{
				URL: srv.URL + "/file/voice.oga", Format: tt.format, Language: "en-US", Credential: "k",
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if cfg := srv.request.Config; cfg.Encoding != tt.encoding || cfg.SampleRateHertz != tt.rate {
				t.Errorf("encoding=%q rate=%d, want %q %d", cfg.Encoding, cfg.SampleRateHertz, tt.encoding, tt.rate)
			}
		})
	}
}

func TestExecute_UnsupportedFormat(t *testing.T) {
	srv := newSpeechServer(t, http.StatusOK, `{}`)
	p := newTestProvider(t, srv.URL)

	_, err := p.Execute(context.Background(), transcription.Request{
		URL: srv.URL + "/file/voice.oga", Format: chat.FormatUnknown, Language: "en-US", Credential: "k",
	})
	var engErr *transcription.EngineError
	if !stderrors.As(err, &engErr) || engErr.EngineMessage() != `unsupported audio format ""` {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if srv.key != "" {
		t.Error("recognize must not be called")
	}
}

func TestExecute_RequiresKey(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:0")
	_, err := p.Execute(context.Background(), transcription.Request{URL: "http://unused", Language: "en-US"})
	if errors.CodeOf(err) != errors.ErrCodeMissingCredentials {
		t.Fatalf("expected MISSING_CREDENTIALS, got %v", err)
	}
}

func TestExecute_ExposesAPIErrorMessage(t *testing.T) {
	srv := newSpeechServer(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	p := newTestProvider(t, srv.URL)

	_, err := p.Execute(context.Background(), transcription.Request{
		URL: srv.URL + "/file/voice.oga", Format: chat.FormatOgg, Language: "en-US", Credential: "bad",
	})
	var engErr *transcription.EngineError
	if !stderrors.As(err, &engErr) {
		t.Fatalf("expected EngineError, got %v", err)
	}
	if engErr.EngineMessage() != "API key not valid. Please pass a valid API key." {
		t.Errorf("message = %q", engErr.EngineMessage())
	}
	if errors.CodeOf(err) != errors.ErrCodeEngineFailed {
		t.Errorf("code = %s", errors.CodeOf(err))
	}
}

func TestExecute_DownloadFailure(t *testing.T) {
	srv := newSpeechServer(t, http.StatusOK, `{}`)
	p := newTestProvider(t, srv.URL)

	_, err := p.Execute(context.Background(), transcription.Request{
		URL: srv.URL + "/file/missing.oga", Format: chat.FormatOgg, Language: "en-US", Credential: "k",
	})
	if errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestOffset(t *testing.T) {
	tests := map[string]time.Duration{
		"3.500s": 3500 * time.Millisecond,
		"0s":     0,
		"":       0,
		"bogus":  0,
	}
	for in, want := range tests {
		if got := offset(in); got != want {
			t.Errorf("offset(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFactory(t *testing.T) {
	engine, err := Factory()(map[string]any{"timeout": "30s", "sample_rate": "16000"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	p := engine.(*Provider)
	if p.cfg.Timeout != 30*time.Second || p.cfg.SampleRate != 16000 || p.cfg.URL != defaultURL {
		t.Errorf("cfg = %+v", p.cfg)
	}
}
