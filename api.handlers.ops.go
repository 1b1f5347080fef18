package bookstore

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	message string
	started time.Time
}

// Infos returns the maintenance message and its starting time.
func (m *Maintenance) Infos() (string, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message, m.started
}

func (m *Maintenance) enable(message string, started time.Time) {
	m.mu.Lock()
	m.message, m.started = message, started
	m.mu.Unlock()
	m.enabled.Store(true)
}

func (m *Maintenance) disable() {
	m.enabled.Store(false)
	m.mu.Lock()
	m.message, m.started = "", time.Time{}
	m.mu.Unlock()
}

// Maintenance handles request to enable or disable the maintenance mode of the service.
// While enabled, public endpoints answer with 503 and the predefined message.
// Enable the maintenance mode : /ops/maintenance?status=enable&msg=message-to-be-displayed-to-users
// Disable the maintenance mode: /ops/maintenance?status=disable
// Show the maintenance mode   : /ops/maintenance
func (api *APIHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	logger := api.GetLoggerFromContext(r.Context())
	q := r.URL.Query()
	mstatus := q.Get("status")

	var response map[string]interface{}
	switch mstatus {
	case "enable":
		api.mode.enable(q.Get("msg"), api.clock.Now().UTC())
		message, started := api.mode.Infos()
		response = map[string]interface{}{
			"maintenance.started": started.Format(time.RFC1123),
			"maintenance.message": message,
			"message":             "Maintenance mode enabled successfully.",
		}

	case "disable":
		api.mode.disable()
		response = map[string]interface{}{
			"message": "Maintenance mode disabled successfully.",
		}

	default:
		message, started := api.mode.Infos()
		response = map[string]interface{}{
			"maintenance.enabled": api.mode.enabled.Load(),
			"maintenance.message": message,
			"maintenance.started": formatMaintenanceStart(started),
		}
	}

	if err := WriteResponse(r.Context(), w, http.StatusOK, response); err != nil {
		logger.Error("failed to send maintenance response",
			zap.String("request.maintenance", mstatus),
			zap.Error(err),
		)
	}
}

func formatMaintenanceStart(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123)
}

// export goroutines to be used by expvar handler.
var goroutines = expvar.NewInt("goroutines")

// GetMemStats returns memory statistics with number of goroutines in json.
func GetMemStats(w http.ResponseWriter, r *http.Request) {
	goroutines.Set(int64(runtime.NumGoroutine()))
	expvar.Handler().ServeHTTP(w, r)
}

// RunGC forces the run of the garbage collector asynchronously.
func (api *APIHandler) RunGC(w http.ResponseWriter, r *http.Request) {
	go runtime.GC()
	if err := WriteResponse(r.Context(), w, http.StatusOK, map[string]string{"called": "go runtime.GC()"}); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send run gc response", zap.Error(err))
	}
}

// FreeOSMemory forces the garbage collector to and tries to returns the memory
// back to the operating system in an asynchronous fashion.
func (api *APIHandler) FreeOSMemory(w http.ResponseWriter, r *http.Request) {
	go debug.FreeOSMemory()
	if err := WriteResponse(r.Context(), w, http.StatusOK, map[string]string{"called": "go debug.FreeOSMemory()"}); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send free os memory response", zap.Error(err))
	}
}

// GetStatistics provides useful details about the application to the internal ops users.
// The stats returns by this handler do not contain the ops request which triggered that.
// That is why we remove 1 from the called field value in order to match the status stats.
func (api *APIHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	message, started := api.mode.Infos()
	api.stats.mu.RLock()
	status := make(map[int]uint64, len(api.stats.status))
	for code, count := range api.stats.status {
		status[code] = count
	}
	api.stats.mu.RUnlock()

	called := atomic.LoadUint64(&api.stats.called)
	if called > 0 {
		called--
	}

	err := WriteResponse(r.Context(), w, http.StatusOK, map[string]interface{}{
		"app.service":   api.config.Service,
		"app.version":   api.stats.version,
		"app.container": api.stats.container,
		"app.platform":  api.stats.platform,
		"go.version":    api.stats.runtime,
		"called":        called,
		"started":       api.stats.started.Format(time.RFC1123),
		"uptime":        fmt.Sprintf("%.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
		"maintenance": map[string]interface{}{
			"enabled": api.mode.enabled.Load(),
			"started": formatMaintenanceStart(started),
			"message": message,
		},
		"status": status,
	})
	if err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send statistics response", zap.Error(err))
	}
}

// GetConfigs serves current in-use configurations/settings with secrets masked.
func (api *APIHandler) GetConfigs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"configs": api.config.Masked(),
		},
	); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send settings response", zap.Error(err))
	}
}
