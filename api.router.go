package bookstore

import (
	"net/http"

	"github.com/gorilla/mux"
)

// MiddlewareMap contains middlwares chain to
// use for public-facing and ops requests.
type MiddlewareMap struct {
	public *Middlewares
	ops    *Middlewares
}

// SetupRoutes enforces the api routes. Entity endpoints are only
// registered for the services this instance is configured with.
func (api *APIHandler) SetupRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.NotFoundHandler = m.public.ChainFunc(api.NotFound)
	router.MethodNotAllowedHandler = m.public.ChainFunc(api.MethodNotAllowed)

	router.Handle("/", m.public.ChainFunc(api.Index)).Methods(http.MethodGet)
	// the liveness probe stays available during maintenance.
	router.Handle("/status", m.ops.ChainFunc(api.Status)).Methods(http.MethodGet)

	if api.bookService != nil {
		api.SetupBookRoutes(router, m)
	}
	if api.customerService != nil {
		api.SetupCustomerRoutes(router, m)
	}
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}
