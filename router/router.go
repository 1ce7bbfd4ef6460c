package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// Option configures the router. It receives the underlying mux and the
// huma API of the current group.
type Option func(mux *http.ServeMux, api huma.API)

func New(
	title, version string,
	readiness http.HandlerFunc,
	writeMetrics http.HandlerFunc,
	opts ...Option,
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /readiness", readiness)
	mux.HandleFunc("GET /metrics", writeMetrics)

	api := humago.New(mux, huma.DefaultConfig(title, version))
	for _, opt := range opts {
		opt(mux, api)
	}

	return mux
}

// OptUseMiddleware adds huma middlewares to the current group.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) Option {
	return func(_ *http.ServeMux, api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a group mounted at prefix.
func OptGroup(prefix string, opts ...Option) Option {
	return func(mux *http.ServeMux, api huma.API) {
		group := huma.NewGroup(api, prefix)
		for _, opt := range opts {
			opt(mux, group)
		}
	}
}

// OptAutoRegister registers the operations of server, see [huma.AutoRegister].
func OptAutoRegister(server any) Option {
	return func(_ *http.ServeMux, api huma.API) { huma.AutoRegister(api, server) }
}

// OptMux gives register direct access to the mux, for handlers that are not huma operations.
func OptMux(register func(*http.ServeMux)) Option {
	return func(mux *http.ServeMux, _ huma.API) { register(mux) }
}
