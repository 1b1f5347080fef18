package bookstore

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupBookRoutes injects book related the api endpoints.
func (api *APIHandler) SetupBookRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.Handle("/books", m.public.ChainFunc(api.CreateBook)).Methods(http.MethodPost)
	router.Handle("/books/", m.public.ChainFunc(api.CreateBook)).Methods(http.MethodPost)
	router.Handle("/books/isbn/{isbn}", m.public.ChainFunc(api.GetBook)).Methods(http.MethodGet)
	router.Handle("/books/{isbn}", m.public.ChainFunc(api.GetBook)).Methods(http.MethodGet)
	router.Handle("/books/{isbn}", m.public.ChainFunc(api.UpdateBook)).Methods(http.MethodPut)
	return router
}
