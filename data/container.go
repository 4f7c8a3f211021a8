// Package data provides the thread-safe in-memory store for the current
// place names, swapped atomically on each refresh.
package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames/entities"
	"golang.org/x/text/cases"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// snapshot is everything one refresh produces. It is replaced as a whole so
// readers never see towns from one refresh and counties from another.
type snapshot struct {
	names   entities.PlaceNames
	all     []string
	index   map[string]entities.Place
	etags   listETags
	report  *interfaces.DataQualityReport
	updated time.Time
}

// listETags are the entity tags of the three served lists
type listETags struct {
	names    string
	towns    string
	counties string
}

// DataContainer holds the current snapshot behind an atomic pointer for
// zero-downtime updates
type DataContainer struct {
	current         atomic.Pointer[snapshot]
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.current.Store(&snapshot{
		names: entities.PlaceNames{Towns: []string{}, Counties: []string{}},
		all:   []string{},
		index: map[string]entities.Place{},
	})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func (dc *DataContainer) load() *snapshot {
	if s := dc.current.Load(); s != nil {
		return s
	}
	logging.Warn("Place names snapshot is empty")
	return &snapshot{index: map[string]entities.Place{}}
}

// GetNames returns all town names followed by all county names
func (dc *DataContainer) GetNames() []string {
	return dc.load().all
}

// GetTowns returns the town names in resource order
func (dc *DataContainer) GetTowns() []string {
	return dc.load().names.Towns
}

// GetCounties returns the county names in resource order
func (dc *DataContainer) GetCounties() []string {
	return dc.load().names.Counties
}

// Lookup finds a place by name, ignoring case
func (dc *DataContainer) Lookup(name string) (entities.Place, bool) {
	place, ok := dc.load().index[FoldKey(name)]
	return place, ok
}

// GetETag returns the entity tag of the combined name list
func (dc *DataContainer) GetETag() string {
	return dc.load().etags.names
}

// GetTownsETag returns the entity tag of the town list
func (dc *DataContainer) GetTownsETag() string {
	return dc.load().etags.towns
}

// GetCountiesETag returns the entity tag of the county list
func (dc *DataContainer) GetCountiesETag() string {
	return dc.load().etags.counties
}

// GetLastUpdated returns the time of the last successful update
func (dc *DataContainer) GetLastUpdated() time.Time {
	return dc.load().updated
}

// GetDataQualityReport returns the report computed for the current data
func (dc *DataContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	return dc.load().report
}

// IsUpdating returns true while a refresh is running
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if startTime, ok := dc.serverStartTime.Load().(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

// UpdateData atomically replaces the served names. When a name appears more
// than once the first occurrence wins in the lookup index, so towns shadow
// counties.
func (dc *DataContainer) UpdateData(names entities.PlaceNames, report *interfaces.DataQualityReport) {
	all := names.All()

	index := make(map[string]entities.Place, len(all))
	for _, place := range names.Places() {
		key := FoldKey(place.Name)
		if _, exists := index[key]; !exists {
			index[key] = place
		}
	}

	dc.current.Store(&snapshot{
		names:   names,
		all:     all,
		index:   index,
		report:  report,
		updated: time.Now(),
		etags: listETags{
			names:    ListETag(all),
			towns:    ListETag(names.Towns),
			counties: ListETag(names.Counties),
		},
	})
}

// BeginUpdate marks the start of a refresh.
// Returns false if another refresh is in progress.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a refresh
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}

// GenerateETag returns a strong ETag: the first 8 bytes of a SHA-256 as quoted hex.
func GenerateETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// ListETag returns the ETag of a name list. The list is hashed in its JSON
// form so element boundaries are part of the digest.
func ListETag(names []string) string {
	if names == nil {
		names = []string{}
	}
	encoded, _ := json.Marshal(names)
	return GenerateETag(encoded)
}

// FoldKey normalises a name for case-insensitive matching. A Caser is
// stateful, so one is created per call.
func FoldKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
