package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/config"
	"github.com/kbukum/voicy/logger"
)

// testConfig is a minimal config that satisfies Config.
type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	m.started = true
	if m.order != nil {
		*m.order = append(*m.order, "start "+m.name)
	}
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	if m.order != nil {
		*m.order = append(*m.order, "stop "+m.name)
	}
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) component.Health { return m.health }

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() component.Description {
	return component.Description{Name: "Database", Type: "database", Details: "sqlite voicy.db"}
}

func (d *describedComponent) Routes() []component.Route {
	return []component.Route{{Method: "POST", Path: "/telegram/:secret", Handler: "webhook"}}
}

func newTestConfig() *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: "voicy", Version: "1.0.0", Environment: "development"}}
}

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(&out)}, opts...)
	app, err := NewApp(newTestConfig(), opts...)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, &out
}

func healthy(name string) component.Health {
	return component.Health{Name: name, Status: component.StatusHealthy}
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "voicy" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %s %s", app.Name, app.Version)
	}
	if app.Components == nil || app.Summary == nil || app.Logger == nil {
		t.Fatal("app not fully initialized")
	}
	if app.gracefulTimeout != DefaultGracefulTimeout {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
	if app.Cfg.Logging.Level != "debug" {
		t.Errorf("development defaults not applied: %q", app.Cfg.Logging.Level)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{}
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, _ := newTestApp(t, WithGracefulTimeout(3*time.Second))
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{name: "db", health: healthy("db")})
			_ = app.RegisterComponent(&mockComponent{
				name:   "kafka",
				health: component.Health{Name: "kafka", Status: tt.status, Message: "broker down"},
			})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "kafka="+string(tt.status)+"(broker down)") {
				t.Errorf("unexpected message %q", err)
			}
		})
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	var order []string
	app, out := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "db", health: healthy("db"), order: &order})
	_ = app.RegisterComponent(&mockComponent{name: "poller", health: healthy("poller"), order: &order})

	app.OnStart(func(context.Context) error { order = append(order, "onStart"); return nil })
	app.OnReady(func(context.Context) error { order = append(order, "onReady"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "onStop"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error { cancel(); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"start db", "start poller", "onStart", "onReady", "onStop", "stop poller", "stop db"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v\nwant    %v", order, want)
	}
	if !strings.Contains(out.String(), "voicy v1.0.0 started") {
		t.Errorf("summary not written: %q", out.String())
	}
}

func TestRunStopsComponentsWhenReadyHookFails(t *testing.T) {
	app, _ := newTestApp(t)
	db := &mockComponent{name: "db", health: healthy("db")}
	_ = app.RegisterComponent(db)
	app.OnReady(func(context.Context) error { return errors.New("setWebhook rejected") })

	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ready hook 0: setWebhook rejected") {
		t.Fatalf("Run() error = %v", err)
	}
	if !db.stopped {
		t.Error("started components must be stopped after a failed ready hook")
	}
}

func TestRunComponentStartError(t *testing.T) {
	app, _ := newTestApp(t)
	db := &mockComponent{name: "db"}
	_ = app.RegisterComponent(db)
	_ = app.RegisterComponent(&mockComponent{name: "broken", startErr: errors.New("bind failed")})

	if err := app.Run(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if !db.stopped {
		t.Error("registry must roll back started components")
	}
}

func TestShutdownCollectsErrors(t *testing.T) {
	app, _ := newTestApp(t)
	c := &mockComponent{name: "db", stopErr: errors.New("close failed")}
	_ = app.RegisterComponent(c)
	if err := app.Components.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	hookErr := errors.New("drain failed")
	app.OnStop(func(context.Context) error { return hookErr })

	err := app.Shutdown()
	if !errors.Is(err, hookErr) {
		t.Fatalf("Shutdown() = %v, want hook error first", err)
	}
	if !c.stopped {
		t.Error("component not stopped after hook failure")
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	app, _ := newTestApp(t)
	calls := 0
	app.OnStart(
		func(context.Context) error { calls++; return errors.New("boom") },
		func(context.Context) error { calls++; return nil },
	)
	if err := app.runStage(context.Background(), stageStart); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestWaitForShutdownContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := waitForShutdown(ctx); got != "context canceled" {
		t.Errorf("reason = %q", got)
	}
}

func TestSummaryDisplay(t *testing.T) {
	reg := component.NewRegistry()
	_ = reg.Register(&describedComponent{mockComponent{name: "database", health: healthy("database")}})
	_ = reg.Register(&mockComponent{name: "kafka", health: component.Health{
		Name: "kafka", Status: component.StatusDegraded, Message: "no broker",
	}})

	s := NewSummary("voicy", "1.2.0")
	s.SetStartupDuration(1500 * time.Millisecond)
	s.Note("mode: %s", "webhook")

	var out bytes.Buffer
	s.Display(context.Background(), &out, reg)
	text := out.String()

	for _, want := range []string{
		"voicy v1.2.0 started in 1.50s",
		"mode: webhook",
		"Database [database]: sqlite voicy.db",
		"/telegram/:secret",
		"kafka: degraded (no broker)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummaryDisplayNilRegistry(t *testing.T) {
	var out bytes.Buffer
	NewSummary("voicy", "dev").Display(context.Background(), &out, nil)
	if !strings.Contains(out.String(), "voicy vdev") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestHealthStatusIcon(t *testing.T) {
	tests := map[component.HealthStatus]string{
		component.StatusHealthy:   "✅",
		component.StatusDegraded:  "⚠️",
		component.StatusUnhealthy: "❌",
		"unknown":                 "❓",
	}
	for status, want := range tests {
		if got := healthStatusIcon(status); got != want {
			t.Errorf("healthStatusIcon(%s) = %s, want %s", status, got, want)
		}
	}
}
