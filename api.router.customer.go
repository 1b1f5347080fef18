package bookstore

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupCustomerRoutes injects customer related the api endpoints.
func (api *APIHandler) SetupCustomerRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.Handle("/customers", m.public.ChainFunc(api.CreateCustomer)).Methods(http.MethodPost)
	router.Handle("/customers/", m.public.ChainFunc(api.CreateCustomer)).Methods(http.MethodPost)
	router.Handle("/customers", m.public.ChainFunc(api.GetCustomerByUserID)).Methods(http.MethodGet)
	router.Handle("/customers/", m.public.ChainFunc(api.GetCustomerByUserID)).Methods(http.MethodGet)
	router.Handle("/customers/{id}", m.public.ChainFunc(api.GetCustomer)).Methods(http.MethodGet)
	return router
}
