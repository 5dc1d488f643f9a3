package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

// DefaultGracefulTimeout bounds the whole shutdown sequence.
const DefaultGracefulTimeout = 15 * time.Second

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

type stage int

const (
	// after every component started
	stageStart stage = iota
	// after the ready check
	stageReady
	// before components stop
	stageStop
)

func (s stage) String() string {
	return [...]string{"start", "ready", "stop"}[s]
}

// App owns the component registry and drives startup and shutdown.
// C is any config embedding config.ServiceConfig.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	hooks           map[stage][]Hook
}

// Option tunes an App before it is returned by NewApp.
type Option func(*settings)

type settings struct {
	log        *logger.Logger
	graceful   time.Duration
	summaryOut io.Writer
}

// WithLogger uses l instead of initializing the global logger from config.
func WithLogger(l *logger.Logger) Option { return func(s *settings) { s.log = l } }

// WithGracefulTimeout bounds shutdown to d.
func WithGracefulTimeout(d time.Duration) Option { return func(s *settings) { s.graceful = d } }

// WithSummaryOutput sends the startup summary to w instead of stdout.
func WithSummaryOutput(w io.Writer) Option { return func(s *settings) { s.summaryOut = w } }

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	s := settings{graceful: DefaultGracefulTimeout, summaryOut: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		logger.Init(base.Logging, base.Name)
		s.log = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          s.log,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: s.graceful,
		summaryOut:      s.summaryOut,
		hooks:           map[stage][]Hook{},
	}, nil
}

// RegisterComponent adds c. Components start in registration order and
// stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnStart registers hooks run once every component has started.
func (a *App[C]) OnStart(hooks ...Hook) { a.hooks[stageStart] = append(a.hooks[stageStart], hooks...) }

// OnReady registers hooks run after the ready check, such as registering
// the webhook with the Bot API.
func (a *App[C]) OnReady(hooks ...Hook) { a.hooks[stageReady] = append(a.hooks[stageReady], hooks...) }

// OnStop registers hooks run before components stop, such as exporter flushes.
func (a *App[C]) OnStop(hooks ...Hook) { a.hooks[stageStop] = append(a.hooks[stageStop], hooks...) }

func (a *App[C]) runStage(ctx context.Context, st stage) error {
	for i, h := range a.hooks[st] {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook %d: %w", st, i, err)
		}
	}
	return nil
}

// ReadyCheck returns an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
}

// Run starts everything, blocks until SIGINT, SIGTERM or ctx ends, then
// shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("application ready")
	a.Logger.Info("shutdown requested", logger.Fields("reason", waitForShutdown(ctx)))
	return a.Shutdown()
}

func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	if err := a.runStage(ctx, stageStart); err != nil {
		return a.abort(ctx, err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := a.runStage(ctx, stageReady); err != nil {
		return a.abort(ctx, err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.summaryOut, a.Components)
	return nil
}

// abort stops what startup brought up and returns cause.
func (a *App[C]) abort(ctx context.Context, cause error) error {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.gracefulTimeout)
	defer cancel()
	if err := a.Components.StopAll(stopCtx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// waitForShutdown blocks until a termination signal or ctx ends and says which.
func waitForShutdown(ctx context.Context) string {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	if ctx.Err() != nil {
		return "context canceled"
	}
	return "signal"
}

// Shutdown runs the stop hooks, then stops components in reverse order,
// all within the graceful timeout. It returns the first failure.
func (a *App[C]) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()
	a.Logger.Info("shutting down", logger.Fields("timeout", a.gracefulTimeout.String()))

	hookErr := a.runStage(ctx, stageStop)
	if hookErr != nil {
		a.Logger.WithError(hookErr).Error("stop hook failed")
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.WithError(stopErr).Error("components stopped with errors")
	}
	a.Logger.Info("shutdown complete")
	if hookErr != nil {
		return hookErr
	}
	return stopErr
}
