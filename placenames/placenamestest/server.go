// Package placenamestest serves fixture town and county data packages over
// httptest for tests that would otherwise reach the real data packages.
package placenamestest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Towns and Counties are the default fixture rows, in resource order.
var (
	Towns = []string{"Andover", "Ansonia", "Ashford", "Avon", "Barkhamsted"}

	Counties = []string{
		"Fairfield County", "Hartford County", "Litchfield County", "Middlesex County",
		"New Haven County", "New London County", "Tolland County", "Windham County",
	}
)

// Package describes one fixture data package.
type Package struct {
	Name   string
	Field  string
	Values []string
}

// TownPackage returns the fixture town package with the given rows.
func TownPackage(values []string) Package {
	return Package{Name: "ct-town-list", Field: "Town", Values: values}
}

// CountyPackage returns the fixture county package with the given rows.
func CountyPackage(values []string) Package {
	return Package{Name: "ct-county-list", Field: "County", Values: values}
}

// Server serves two data packages, each at /<name>/datapackage.json with
// its CSV at /<name>/data/<name>.csv.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	towns    Package
	counties Package
	failures map[string]int
	requests []string
}

// NewServer starts a server with the default fixture rows. It is closed
// when the test ends.
func NewServer(t testing.TB) *Server {
	return NewServerWithPackages(t, TownPackage(Towns), CountyPackage(Counties))
}

// NewServerWithPackages starts a server for the given packages.
func NewServerWithPackages(t testing.TB, towns, counties Package) *Server {
	t.Helper()

	s := &Server{
		towns:    towns,
		counties: counties,
		failures: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// TownsURL is the manifest URL of the town package.
func (s *Server) TownsURL() string {
	return s.URL + "/" + s.towns.Name + "/datapackage.json"
}

// CountiesURL is the manifest URL of the county package.
func (s *Server) CountiesURL() string {
	return s.URL + "/" + s.counties.Name + "/datapackage.json"
}

// SetPackages replaces the served packages.
func (s *Server) SetPackages(towns, counties Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.towns = towns
	s.counties = counties
}

// Fail makes every request for path answer with status until cleared with 0.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// Requests returns the paths requested so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	status, failing := s.failures[r.URL.Path]
	packages := []Package{s.towns, s.counties}
	s.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	for _, pkg := range packages {
		switch r.URL.Path {
		case "/" + pkg.Name + "/datapackage.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write(Manifest(pkg))
			return
		case "/" + pkg.Name + "/data/" + pkg.Name + ".csv":
			w.Header().Set("Content-Type", "text/csv")
			w.Write(CSV(pkg))
			return
		}
	}
	http.NotFound(w, r)
}

// Manifest renders the datapackage.json of pkg with a relative resource path.
func Manifest(pkg Package) []byte {
	manifest := map[string]any{
		"name":  pkg.Name,
		"title": pkg.Name,
		"resources": []map[string]any{{
			"name":   pkg.Name,
			"path":   "data/" + pkg.Name + ".csv",
			"format": "csv",
			"schema": map[string]any{
				"fields": []map[string]string{
					{"name": pkg.Field, "type": "string"},
					{"name": "FIPS", "type": "string"},
				},
			},
		}},
	}
	b, _ := json.Marshal(manifest)
	return b
}

// CSV renders the resource of pkg with a header and a FIPS column.
func CSV(pkg Package) []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{pkg.Field, "FIPS"})
	for i, value := range pkg.Values {
		writer.Write([]string{value, fips(i)})
	}
	writer.Flush()
	return buf.Bytes()
}

func fips(i int) string {
	const digits = "0123456789"
	code := []byte("09000")
	code[3] = digits[(i/10)%10]
	code[4] = digits[i%10]
	return string(code)
}
