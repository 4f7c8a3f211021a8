// Package handlers provides HTTP request handlers for the place names API endpoints.
// It covers the name lists with paging and ETags, exact lookup, substring search
// and the health check.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ctdata/ct-placenames/data"
	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames/entities"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string                        `json:"status"`
	UptimeSeconds float64                       `json:"uptime_seconds"`
	Uptime        string                        `json:"uptime"`
	Data          map[string]any                `json:"data"`
	DataQuality   *interfaces.DataQualityReport `json:"data_quality,omitempty"`
	System        map[string]any                `json:"system"`
}

// PagedResponse is the body of a paged list request
type PagedResponse struct {
	Data       []string `json:"data"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalItems int      `json:"totalItems"`
	MaxPage    int      `json:"maxPage"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if lastUpdated := h.dataStore.GetLastUpdated(); !lastUpdated.IsZero() {
		w.Header().Set("Last-Modified", lastUpdated.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// notModified sets the caching headers for etag and reports whether the
// client already holds that version.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if etag == "" {
		return false
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	match := r.Header.Get("If-None-Match")
	if match == "" {
		return false
	}
	for _, candidate := range strings.Split(match, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

// serveList writes a full name list, or one page of it when paging
// parameters are present. etag is the tag of the full list.
func (h *HTTPHandlerImpl) serveList(w http.ResponseWriter, r *http.Request, names []string, etag string) {
	query := r.URL.Query()
	if !query.Has("page") && !query.Has("pageSize") {
		if notModified(w, r, etag) {
			return
		}
		h.RespondWithJSON(w, http.StatusOK, names)
		return
	}

	page, err := intParam(query.Get("page"), 1)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "page", query.Get("page"))
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}
	pageSize, err := intParam(query.Get("pageSize"), defaultPageSize)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		logging.Warn("Unusual user input", "pageSize", query.Get("pageSize"))
		h.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("pageSize must be between 1 and %d", maxPageSize))
		return
	}

	totalItems := len(names)
	maxPage := (totalItems + pageSize - 1) / pageSize
	if page > 1 && page > maxPage {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, totalItems)

	if etag != "" {
		pageTag := data.GenerateETag([]byte(fmt.Sprintf("%s:%d:%d", etag, page, pageSize)))
		if notModified(w, r, pageTag) {
			return
		}
	}

	h.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Data:       names[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		MaxPage:    maxPage,
	})
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// ServeNames returns the town names followed by the county names
func (h *HTTPHandlerImpl) ServeNames(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.dataStore.GetNames(), h.dataStore.GetETag())
}

// ServeTowns returns the town names
func (h *HTTPHandlerImpl) ServeTowns(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.dataStore.GetTowns(), h.dataStore.GetTownsETag())
}

// ServeCounties returns the county names
func (h *HTTPHandlerImpl) ServeCounties(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.dataStore.GetCounties(), h.dataStore.GetCountiesETag())
}

// FindName looks a place up by its exact name, ignoring case
func (h *HTTPHandlerImpl) FindName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing name")
		return
	}

	if err := h.validator.ValidateInput(name); err != nil {
		logging.Warn("Unusual user input", "name", name, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	place, ok := h.dataStore.Lookup(name)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, place)
}

// SearchNames returns every place whose name contains q, ignoring case
func (h *HTTPHandlerImpl) SearchNames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(q); err != nil {
		logging.Warn("Unusual user input", "q", q, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	needle := data.FoldKey(q)
	names := entities.PlaceNames{Towns: h.dataStore.GetTowns(), Counties: h.dataStore.GetCounties()}

	// Always return 200 with results array (empty if no matches)
	results := []entities.Place{}
	for _, place := range names.Places() {
		if strings.Contains(data.FoldKey(place.Name), needle) {
			results = append(results, place)
		}
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, details, httpStatus := h.healthChecker.HealthCheck()

	var uptime time.Duration
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status:        status,
		UptimeSeconds: uptime.Seconds(),
		Uptime:        formatUptimeHuman(uptime),
		Data:          details,
		DataQuality:   h.dataStore.GetDataQualityReport(),
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
