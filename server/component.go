package server

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicy/component"
)

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// probePaths are mounted by ApplyDefaults and listed after application routes.
var probePaths = []string{"/health", "/ready", "/alive", "/version"}

// Component registers a Server with the lifecycle registry.
type Component struct {
	server *Server
}

func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return "http-server" }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

// Health is healthy while the listener is bound.
func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.server.Listening() {
		h.Status = component.StatusUnhealthy
		h.Message = "not listening"
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: c.server.cfg.Addr(),
		Port:    c.server.cfg.Port,
	}
}

// Routes lists application routes first, then the probes marked "(system)".
func (c *Component) Routes() []component.Route {
	gr := c.server.engine.Routes()
	slices.SortStableFunc(gr, func(a, b gin.RouteInfo) int {
		return cmp.Or(
			cmp.Compare(btoi(isProbe(a.Path)), btoi(isProbe(b.Path))),
			strings.Compare(a.Path, b.Path),
			cmp.Compare(methodRank(a.Method), methodRank(b.Method)),
		)
	})

	out := make([]component.Route, len(gr))
	for i, r := range gr {
		handler := formatHandlerName(r.Handler)
		if isProbe(r.Path) {
			handler = fmt.Sprintf("%s (system)", handler)
		}
		out[i] = component.Route{Method: r.Method, Path: r.Path, Handler: handler}
	}
	return out
}

func isProbe(path string) bool { return slices.Contains(probePaths, path) }

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

var methodRanks = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

func methodRank(m string) int {
	if i := slices.Index(methodRanks, m); i >= 0 {
		return i
	}
	return len(methodRanks)
}

// formatHandlerName turns Gin's qualified handler name into a short label.
// Closures are named after their enclosing function in lower case
// ("pkg/endpoint.Health.func1" is "health"); methods keep the receiver
// ("pkg.(*UserPort).List-fm" is "UserPort.List").
func formatHandlerName(qualified string) string {
	name := qualified[strings.LastIndex(qualified, "/")+1:]
	name = strings.NewReplacer("-fm", "", "(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if len(parts) > 1 && isLowerIdent(parts[0]) {
		parts = parts[1:]
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.HasPrefix(parts[i], "func") && i > 0 {
			return strings.ToLower(parts[i-1])
		}
	}
	return strings.Join(parts, ".")
}

func isLowerIdent(s string) bool {
	return s != "" && !strings.ContainsFunc(s, unicode.IsUpper)
}
