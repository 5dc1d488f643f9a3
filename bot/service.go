package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/database"
	"github.com/kbukum/voicy/i18n"
	"github.com/kbukum/voicy/kafka"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/pipeline"
	"github.com/kbukum/voicy/provider"
	"github.com/kbukum/voicy/redis"
	"github.com/kbukum/voicy/report"
	"github.com/kbukum/voicy/repository"
	"github.com/kbukum/voicy/telegram"
	"github.com/kbukum/voicy/transcript"
	"github.com/kbukum/voicy/transcription"
)

// Messenger is the Bot API surface the pipeline needs.
type Messenger interface {
	pipeline.Messenger
	pipeline.FileResolver
}

// Deps are the collaborators of a Service. Redis, Kafka and Metrics are
// optional.
type Deps struct {
	Telegram Messenger
	Database *database.Component
	Redis    *redis.Component
	Kafka    *kafka.Component
	Engines  *provider.Manager[transcription.Engine]
	Metrics  *observability.Metrics
}

var (
	_ component.Component   = (*Service)(nil)
	_ component.Describable = (*Service)(nil)
)

// Service assembles the pipeline once the infrastructure components are
// running and feeds it from the update source. Register it after the
// database, redis and kafka components and before the poller or the HTTP
// server: it starts after its storage and stops after its update source.
type Service struct {
	cfg  *Config
	deps Deps
	log  *logger.Logger

	mu         sync.RWMutex
	controller *pipeline.Controller
	dispatcher *Dispatcher
}

// NewService creates a Service.
func NewService(cfg *Config, deps Deps) *Service {
	return &Service{cfg: cfg, deps: deps, log: logger.Get("bot")}
}

// Name implements component.Component.
func (s *Service) Name() string { return "pipeline" }

// Start builds the controller and the dispatcher.
func (s *Service) Start(context.Context) error {
	db := s.deps.Database.DB()
	if db == nil {
		return fmt.Errorf("pipeline start: database not started")
	}

	var chats pipeline.ChatFinder = repository.NewChats(db)
	if s.deps.Redis != nil && s.deps.Redis.Client() != nil {
		chats = repository.NewCachedChats(chats, s.deps.Redis.Client(), s.cfg.Redis.KeyPrefix, s.cfg.Redis.ChatTTLDuration())
	}

	pdeps := pipeline.Deps{
		Messenger:   s.deps.Telegram,
		Files:       s.deps.Telegram,
		Chats:       chats,
		Transcriber: s.router(),
		Voices:      repository.NewVoices(db),
		Translator:  i18n.New(),
		Reporter:    s.reporter(),
		Formatter:   transcript.NewFormatter(s.cfg.Promo, nil),
	}
	if s.deps.Metrics != nil {
		pdeps.Observer = s.deps.Metrics
	}
	controller := pipeline.NewController(pdeps, pipeline.WithMaxFileSize(s.cfg.Pipeline.MaxFileSize))

	var opts []DispatcherOption
	if s.deps.Metrics != nil {
		opts = append(opts, WithRecorder(s.deps.Metrics))
	}
	dispatcher := NewDispatcher(s.cfg.Telegram.Mode, controller.HandleIncomingMedia, opts...)

	s.mu.Lock()
	s.controller = controller
	s.dispatcher = dispatcher
	s.mu.Unlock()

	s.log.Info("pipeline ready", logger.Fields(
		"engines", s.deps.Engines.Available(),
		"cache", s.deps.Redis != nil,
		"kafka_reports", s.deps.Kafka != nil,
	))
	return nil
}

func (s *Service) router() *transcription.Router {
	opts := []transcription.RouterOption{transcription.WithTimeout(s.cfg.Engines.Timeout)}
	if s.deps.Metrics != nil {
		opts = append(opts, transcription.WithObserver(s.deps.Metrics))
	}
	return transcription.NewRouter(s.deps.Engines, opts...)
}

func (s *Service) reporter() *report.Reporter {
	sinks := []report.Sink{report.NewLogSink(logger.Get("report"))}
	if s.deps.Metrics != nil {
		sinks = append(sinks, report.NewMetricsSink(s.deps.Metrics))
	}
	if s.deps.Kafka != nil {
		if p := s.deps.Kafka.Producer(); p != nil {
			sinks = append(sinks, report.NewKafkaSink(p, p.Topic(), 0))
		}
	}
	return report.NewReporter(sinks...)
}

// HandleUpdate is the telegram.Handler for both hosting modes.
func (s *Service) HandleUpdate(ctx context.Context, u telegram.Update) {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d == nil {
		s.log.Warn("update received before the pipeline started", logger.Fields("update_id", u.UpdateID))
		return
	}
	d.Dispatch(ctx, u)
}

// Stop drains in-flight messages within the configured drain timeout.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Pipeline.DrainTimeout)
	defer cancel()
	return d.Drain(ctx)
}

// Health reports the number of in-flight messages.
func (s *Service) Health(context.Context) component.Health {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "pipeline not started"}
	}
	return component.Health{
		Name:    s.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d in flight", d.InFlight()),
	}
}

// Describe implements component.Describable.
func (s *Service) Describe() component.Description {
	return component.Description{
		Name:    "Pipeline",
		Type:    "service",
		Details: fmt.Sprintf("engines=%v mode=%s", s.deps.Engines.Available(), s.cfg.Telegram.Mode),
	}
}
