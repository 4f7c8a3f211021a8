// Package interfaces defines the contracts shared between the place names
// packages so that each can be tested against mocks.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/ctdata/ct-placenames/placenames/entities"
)

// DataQualityReport summarises problems found in a refreshed name list
type DataQualityReport struct {
	DuplicateTowns    []string `json:"duplicate_towns"`
	DuplicateCounties []string `json:"duplicate_counties"`
	BlankTowns        int      `json:"blank_towns"`
	BlankCounties     int      `json:"blank_counties"`
	// OverlappingNames are names present in both lists
	OverlappingNames []string `json:"overlapping_names"`
}

// PackageReader reads one column of one resource of a remote data package.
type PackageReader interface {
	ReadField(ctx context.Context, manifestURL string, resourceIndex int, field string) ([]string, error)
}

// DataStore provides thread-safe access to the current name lists with
// atomic replacement on refresh.
type DataStore interface {
	GetNames() []string
	GetTowns() []string
	GetCounties() []string
	Lookup(name string) (entities.Place, bool)
	GetETag() string
	GetTownsETag() string
	GetCountiesETag() string
	GetLastUpdated() time.Time
	GetDataQualityReport() *DataQualityReport
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateData(names entities.PlaceNames, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Parser produces a fresh set of place names from the configured sources.
type Parser interface {
	ParsePlaces(ctx context.Context) (entities.PlaceNames, error)
}

// Scheduler manages the periodic refresh.
type Scheduler interface {
	Start() error
	Stop()
	Refresh(ctx context.Context) error
}

// HTTPHandler is the set of API endpoints.
type HTTPHandler interface {
	ServeNames(w http.ResponseWriter, r *http.Request)
	ServeTowns(w http.ResponseWriter, r *http.Request)
	ServeCounties(w http.ResponseWriter, r *http.Request)
	FindName(w http.ResponseWriter, r *http.Request)
	SearchNames(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports service health.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}

// DataValidator validates refreshed data and user input.
type DataValidator interface {
	ValidateNames(names entities.PlaceNames) error
	ReportDataQuality(names entities.PlaceNames) *DataQualityReport
	ValidateInput(input string) error
}
