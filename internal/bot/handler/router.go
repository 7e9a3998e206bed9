package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
)

// Request is a parsed command addressed to one chat.
type Request struct {
	ChatID  int64
	UserID  int64
	Command string
	Args    string
}

type HandlerFunc func(ctx context.Context, req Request) error

// Route binds a command fragment to its handler. A command matches when it
// contains Prefix anywhere, so "/app_70" is served by "/app_".
type Route struct {
	Prefix string
	Handle HandlerFunc
}

// Router matches commands against an ordered table; the first hit wins.
type Router struct {
	routes   []Route
	search   HandlerFunc
	fallback HandlerFunc
	metrics  metrics.Metrics
}

// NewRouter builds a router. Plain text goes to search, a command nothing
// matches goes to fallback.
func NewRouter(routes []Route, search, fallback HandlerFunc, m metrics.Metrics) *Router {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Router{
		routes:   routes,
		search:   search,
		fallback: fallback,
		metrics:  m,
	}
}

func (r *Router) Match(command string) (Route, bool) {
	for _, route := range r.routes {
		if strings.Contains(command, route.Prefix) {
			return route, true
		}
	}
	return Route{}, false
}

// Dispatch parses msg and runs the handler it resolves to.
func (r *Router) Dispatch(ctx context.Context, msg domain.Message) error {
	req := Request{ChatID: msg.ChatID, UserID: msg.UserID}

	command, args, err := ParseCommand(msg.Text, msg.Entities)
	if errors.Is(err, domain.ErrMalformedCommand) {
		req.Command, req.Args = "/search", strings.TrimSpace(msg.Text)
		r.count("search")
		return r.search(ctx, req)
	}
	req.Command, req.Args = command, args

	route, ok := r.Match(command)
	if !ok {
		r.count("start")
		return r.fallback(ctx, req)
	}
	r.count(commandLabel(route.Prefix))
	return route.Handle(ctx, req)
}

func (r *Router) count(command string) {
	r.metrics.IncrementCounterWithLabels("commands", map[string]string{"command": command})
}

func commandLabel(prefix string) string {
	return strings.Trim(prefix, "/_")
}

// argument returns what follows the route fragment in the command itself, as
// in "/app_70", falling back to the message arguments.
func argument(req Request, prefix string) string {
	if v := strings.TrimSpace(strings.Replace(req.Command, prefix, "", 1)); v != "" {
		return v
	}
	return req.Args
}
