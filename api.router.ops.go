package bookstore

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
)

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	ops := router.PathPrefix("/ops").Methods(http.MethodGet).Subrouter()
	ops.Handle("/configs", m.ops.ChainFunc(api.GetConfigs))
	ops.Handle("/stats", m.ops.ChainFunc(api.GetStatistics))
	ops.Handle("/maintenance", m.ops.ChainFunc(api.Maintenance))
	ops.Handle("/metrics", m.ops.Chain(api.metrics.Handler()))
	ops.Handle("/debug/vars", m.ops.ChainFunc(GetMemStats))
	ops.Handle("/debug/gc", m.ops.ChainFunc(api.RunGC))
	ops.Handle("/debug/fos", m.ops.ChainFunc(api.FreeOSMemory))

	if api.config.ProfilerEndpointsEnable {
		ops.Handle("/debug/pprof/", m.ops.ChainFunc(pprof.Index))
		ops.Handle("/debug/pprof/profile", m.ops.ChainFunc(pprof.Profile))
		ops.Handle("/debug/pprof/trace", m.ops.ChainFunc(pprof.Trace))
		ops.Handle("/debug/pprof/symbol", m.ops.ChainFunc(pprof.Symbol))
		ops.Handle("/debug/pprof/cmdline", m.ops.ChainFunc(pprof.Cmdline))
		for _, name := range []string{"heap", "allocs", "goroutine", "threadcreate", "block", "mutex"} {
			ops.Handle("/debug/pprof/"+name, m.ops.Chain(pprof.Handler(name)))
		}
	}

	return router
}
