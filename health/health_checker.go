// Package health reports whether the served place names are present and fresh.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/scheduler"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	updateTimes []scheduler.ClockTime
	now         func() time.Time
}

// NewHealthChecker creates a health checker. updateTimes is the refresh
// schedule used to compute the next update.
func NewHealthChecker(dataStore interfaces.DataStore, updateTimes []scheduler.ClockTime) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		updateTimes: updateTimes,
		now:         time.Now,
	}
}

// HealthCheck returns the status, details for the JSON body and the HTTP status to use
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	towns := h.dataStore.GetTowns()
	counties := h.dataStore.GetCounties()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := h.now().Sub(lastUpdate)

	switch {
	case len(towns) == 0 || len(counties) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"towns":          len(towns),
		"counties":       len(counties),
		"is_updating":    isUpdating,
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled refresh time
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	return scheduler.NextRun(h.now(), h.updateTimes)
}
