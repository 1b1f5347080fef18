package bookstore

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (api *APIHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if _, err := api.validator.Decode(r.Body, CustomerFields, &req); err != nil {
		api.fail(w, r, err, CustomerIDMessages, "failed to create customer")
		return
	}

	created, err := api.customerService.Create(r.Context(), req.Customer())
	if err != nil {
		api.fail(w, r, err, CustomerIDMessages, "failed to create customer", zap.String("customer.userid", req.UserID))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to create customer", zap.Int64("customer.id", created.ID))
	w.Header().Set("Location", "/customers/"+strconv.FormatInt(created.ID, 10))
	if err = WriteResponse(r.Context(), w, http.StatusCreated, created); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// GetCustomer serves a customer identified by the numeric id in the path.
func (api *APIHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := ParseCustomerID(rawID)
	if err != nil {
		api.fail(w, r, err, CustomerIDMessages, "failed to get customer", zap.String("customer.id", rawID))
		return
	}

	c, err := api.customerService.Get(r.Context(), id)
	if err != nil {
		api.fail(w, r, err, CustomerIDMessages, "failed to get customer", zap.Int64("customer.id", id))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to get customer", zap.Int64("customer.id", id))
	if err = WriteResponse(r.Context(), w, http.StatusOK, c); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// GetCustomerByUserID serves a customer identified by the `userId` query parameter.
func (api *APIHandler) GetCustomerByUserID(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		err := &ValidationError{Message: MissingUserIDMessage}
		api.fail(w, r, err, CustomerUserIDMessages, "failed to get customer")
		return
	}
	if err := ValidateUserID(userID); err != nil {
		api.fail(w, r, err, CustomerUserIDMessages, "failed to get customer", zap.String("customer.userid", userID))
		return
	}

	c, err := api.customerService.GetByUserID(r.Context(), userID)
	if err != nil {
		api.fail(w, r, err, CustomerUserIDMessages, "failed to get customer", zap.String("customer.userid", userID))
		return
	}
	logger := api.GetLoggerFromContext(r.Context())
	logger.Info("success to get customer", zap.Int64("customer.id", c.ID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, c); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}
