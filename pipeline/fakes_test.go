package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/transcript"
)

type sent struct {
	method    string // "reply", "edit", "typing"
	chatID    int64
	messageID int // edited message id
	text      string
	opts      SendOptions
}

type fakeMessenger struct {
	mu      sync.Mutex
	calls   []sent
	nextID  int
	failOn  map[string]error
	failNth map[int]error // fail the nth call (1-based)
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 1000, failOn: map[string]error{}, failNth: map[int]error{}}
}

func (m *fakeMessenger) record(c sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if err, ok := m.failNth[len(m.calls)]; ok {
		return err
	}
	return m.failOn[c.method]
}

func (m *fakeMessenger) Reply(_ context.Context, chatID int64, text string, opts SendOptions) (Message, error) {
	if err := m.record(sent{method: "reply", chatID: chatID, text: text, opts: opts}); err != nil {
		return Message{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return Message{ChatID: chatID, MessageID: m.nextID}, nil
}

func (m *fakeMessenger) EditMessage(_ context.Context, chatID int64, messageID int, text string, opts SendOptions) error {
	return m.record(sent{method: "edit", chatID: chatID, messageID: messageID, text: text, opts: opts})
}

func (m *fakeMessenger) ShowTyping(_ context.Context, chatID int64) error {
	return m.record(sent{method: "typing", chatID: chatID})
}

func (m *fakeMessenger) only(method string) []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sent
	for _, c := range m.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

type fakeFiles struct {
	err error
}

func (f *fakeFiles) FileURL(_ context.Context, fileID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://files.example/" + fileID, nil
}

type fakeChats struct {
	snap chat.Snapshot
	err  error
}

func (f *fakeChats) FindChat(_ context.Context, chatID int64) (chat.Snapshot, error) {
	if f.err != nil {
		return chat.Snapshot{}, f.err
	}
	s := f.snap
	s.ID = chatID
	return s, nil
}

type fakeTranscriber struct {
	mu     sync.Mutex
	calls  int
	urls   []string
	media  []chat.Media
	result chat.Transcription
	err    error
	panic  any
}

func (f *fakeTranscriber) Transcribe(_ context.Context, media chat.Media, _ chat.Snapshot) (chat.Transcription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.urls = append(f.urls, media.URL)
	f.media = append(f.media, media)
	if f.panic != nil {
		panic(f.panic)
	}
	return f.result, f.err
}

type fakeVoices struct {
	mu      sync.Mutex
	records []chat.VoiceRecord
	err     error
}

func (f *fakeVoices) RecordVoice(_ context.Context, rec chat.VoiceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type keyTranslator struct{}

func (keyTranslator) Translate(language, key string) string { return "[" + language + ":" + key + "]" }

type fakeReporter struct {
	mu     sync.Mutex
	faults []Fault
}

func (r *fakeReporter) Report(_ context.Context, f Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = append(r.faults, f)
}

func (r *fakeReporter) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, len(r.faults))
	for i, f := range r.faults {
		out[i] = f.Phase
	}
	return out
}

type fakeObserver struct {
	engine, outcome string
	elapsed         time.Duration
}

func (o *fakeObserver) ObservePipeline(_ context.Context, engine, outcome string, elapsed time.Duration) {
	o.engine, o.outcome, o.elapsed = engine, outcome, elapsed
}

type fixture struct {
	messenger   *fakeMessenger
	files       *fakeFiles
	chats       *fakeChats
	transcriber *fakeTranscriber
	voices      *fakeVoices
	reporter    *fakeReporter
	observer    *fakeObserver
	controller  *Controller
}

const (
	testChatID    int64 = 555
	exemptChatID  int64 = 777
	testMessageID       = 10
	testPromo           = "-- voicy"
)

func newFixture() *fixture {
	f := &fixture{
		messenger:   newFakeMessenger(),
		files:       &fakeFiles{},
		chats:       &fakeChats{snap: chat.NewDefaultSnapshot(0)},
		transcriber: &fakeTranscriber{result: chat.Transcription{Segments: []chat.Segment{{Timecode: "0:00", Text: "hello "}}, Duration: 3}},
		voices:      &fakeVoices{},
		reporter:    &fakeReporter{},
		observer:    &fakeObserver{},
	}
	f.controller = NewController(Deps{
		Messenger:   f.messenger,
		Files:       f.files,
		Chats:       f.chats,
		Transcriber: f.transcriber,
		Voices:      f.voices,
		Translator:  keyTranslator{},
		Reporter:    f.reporter,
		Formatter: transcript.NewFormatter(transcript.PromoConfig{
			ExemptChats: []int64{exemptChatID},
			Texts:       map[string]string{"default": testPromo},
		}, nil),
		Observer: f.observer,
	}, WithLogger(logger.Nop()))
	return f
}

func incoming(size int64) chat.Incoming {
	return chat.Incoming{
		ChatID:    testChatID,
		MessageID: testMessageID,
		Attachment: chat.Attachment{
			FileID:    "voice-file",
			FileSize:  size,
			SizeKnown: size > 0,
			Kind:      chat.KindVoice,
			Duration:  3,
		},
	}
}

func snapshot(mutate ...func(*chat.Snapshot)) chat.Snapshot {
	s := chat.NewDefaultSnapshot(testChatID)
	for _, m := range mutate {
		m(&s)
	}
	return s
}

func silentMode(s *chat.Snapshot) { s.Silent = true }

func googleNoKey(s *chat.Snapshot) { s.Engine = chat.EngineGoogle }

func googleWithKey(s *chat.Snapshot) {
	s.Engine = chat.EngineGoogle
	s.GoogleKey = "AIza-test"
}
