package bookstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// CustomResponseWriter is a wrapper for http.ResponseWriter. It is
// used to record response details like status code and body size.
type CustomResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewCustomResponseWriter provides CustomResponseWriter with 200 as status code.
func NewCustomResponseWriter(rw http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{
		ResponseWriter: rw,
		code:           http.StatusOK,
	}
}

// Header implements http.Header interface.
func (cw *CustomResponseWriter) Header() http.Header {
	return cw.ResponseWriter.Header()
}

// WriteHeader implements http.WriteHeader interface.
func (cw *CustomResponseWriter) WriteHeader(code int) {
	if !cw.wrote {
		cw.code = code
		cw.wrote = true
		cw.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (cw *CustomResponseWriter) Write(bytes []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(cw.code)
	}
	n, err := cw.ResponseWriter.Write(bytes)
	cw.bytes += n
	return n, err
}

// Status returns the written status code.
func (cw *CustomResponseWriter) Status() int {
	return cw.code
}

// Bytes returns bytes written as response body.
func (cw *CustomResponseWriter) Bytes() int {
	return cw.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (cw *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// APIError is the data model sent when an error occurred during request
// processing. The status only drives the response code.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// OutcomeMessages holds the messages reported when a lookup
// finds nothing or a creation hits an existing unique key.
type OutcomeMessages struct {
	NotFound string
	Conflict string
}

var (
	BookMessages = OutcomeMessages{
		NotFound: "ISBN not found",
		Conflict: "This ISBN already exists in the system.",
	}
	CustomerIDMessages = OutcomeMessages{
		NotFound: "Customer ID not found",
		Conflict: "This user ID already exists in the system.",
	}
	CustomerUserIDMessages = OutcomeMessages{
		NotFound: "User ID not found",
		Conflict: "This user ID already exists in the system.",
	}
)

// MapError translates an operation failure into the error response sent to client.
func MapError(err error, m OutcomeMessages) *APIError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return NewAPIError(http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		return NewAPIError(http.StatusNotFound, m.NotFound)
	case errors.Is(err, ErrConflict):
		return NewAPIError(http.StatusUnprocessableEntity, m.Conflict)
	default:
		return NewAPIError(http.StatusInternalServerError, "An unexpected error occurred. "+err.Error())
	}
}

// WriteErrorResponse is used to send error response to client. In case the client closes the request,
// it logs the stats with the Nginx non standard status code 499 (Client Closed Request). In case of
// request processing timeout we set the status code to 504 which will be used to log the stats. Here
// the timeout handler already sent a message to client.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, errResp *APIError) error {
	if err := checkRequestContext(ctx, w); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(errResp.Status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client. It sets the status code to 499
// in case client cancelled the request, and to 504 if the request processing timed out.
func WriteResponse(ctx context.Context, w http.ResponseWriter, status int, data interface{}) error {
	if err := checkRequestContext(ctx, w); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func checkRequestContext(ctx context.Context, w http.ResponseWriter) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		w.WriteHeader(http.StatusGatewayTimeout)
	} else {
		w.WriteHeader(499)
	}
	return err
}
