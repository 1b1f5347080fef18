package bookstore

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger          *zap.Logger
	config          *Config
	stats           *Statistics
	mode            *Maintenance
	clock           Clocker
	idsHandler      UIDHandler
	validator       *Validator
	metrics         *Metrics
	bookService     BookServiceProvider
	customerService CustomerServiceProvider
}

// NewAPIHandler provides a new instance of APIHandler. A nil
// service means its endpoints are not served by this instance.
func NewAPIHandler(
	logger *zap.Logger,
	config *Config,
	stats *Statistics,
	clock Clocker,
	idsHandler UIDHandler,
	bs BookServiceProvider,
	cs CustomerServiceProvider,
) *APIHandler {
	if config == nil {
		config = &Config{}
	}
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger:          logger,
		config:          config,
		stats:           stats,
		mode:            &Maintenance{},
		clock:           clock,
		idsHandler:      idsHandler,
		validator:       NewValidator(),
		metrics:         NewMetrics(config.Service),
		bookService:     bs,
		customerService: cs,
	}
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status is the liveness probe. It never reaches the storage.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request) {
	if err := WriteResponse(r.Context(), w, http.StatusOK, map[string]string{"message": "OK"}); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send status response", zap.Error(err))
	}
}

// NotFound responds to requests which do not match any route.
func (api *APIHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	errResp := NewAPIError(http.StatusNotFound, "route does not exist")
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send error response", zap.Error(err))
	}
}

// MethodNotAllowed responds to requests on a known route with an unsupported method.
func (api *APIHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	errResp := NewAPIError(http.StatusMethodNotAllowed, "method not allowed")
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send error response", zap.Error(err))
	}
}

// fail logs an operation failure and sends the matching error response.
// Client caused failures are logged at info level.
func (api *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error, m OutcomeMessages, msg string, fields ...zap.Field) {
	logger := api.GetLoggerFromContext(r.Context())
	errResp := MapError(err, m)
	fields = append(fields, zap.Int("response.status", errResp.Status), zap.Error(err))
	if errResp.Status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Info(msg, fields...)
	}
	if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
		logger.Error("failed to send error response", zap.Error(err))
	}
}
