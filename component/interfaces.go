package component

import "context"

// HealthStatus is the state a component reports to the health endpoints.
type HealthStatus string

const (
	StatusHealthy HealthStatus = "healthy"
	// StatusDegraded still serves traffic; /health answers 200.
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's entry in the health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Check turns a connectivity probe into a Health entry. A nil ping means
// the resource has not been started yet.
func Check(ctx context.Context, name string, ping func(context.Context) error) Health {
	if ping == nil {
		return Health{Name: name, Status: StatusUnhealthy, Message: "not started"}
	}
	if err := ping(ctx); err != nil {
		return Health{Name: name, Status: StatusUnhealthy, Message: err.Error()}
	}
	return Health{Name: name, Status: StatusHealthy}
}

// Component is a piece of the process with a start/stop lifecycle: the
// storage handles, the update source, the HTTP server and the pipeline
// service itself. Names are unique within a Registry.
type Component interface {
	Name() string
	// Start must return once the component is usable. Long-running work
	// belongs in goroutines owned by the component.
	Start(ctx context.Context) error
	// Stop releases resources. It is only called after a successful Start.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a component's line in the startup summary.
type Description struct {
	// Name defaults to Component.Name when empty.
	Name    string
	Type    string
	Details string
	// Port is appended to Details when non-zero.
	Port int
}

// Describable components appear under Infrastructure in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is one registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider components list their routes in the startup summary.
type RouteProvider interface {
	Routes() []Route
}
