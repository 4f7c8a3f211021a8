// Package entities holds the place name types served by the API.
package entities

// Kind tells whether a name is a town or a county.
type Kind string

const (
	KindTown   Kind = "town"
	KindCounty Kind = "county"
)

// Place is a single named place.
type Place struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// PlaceNames holds the two projected columns in resource order.
type PlaceNames struct {
	Towns    []string `json:"towns"`
	Counties []string `json:"counties"`
}

// All returns the town names followed by the county names in a new slice.
func (p PlaceNames) All() []string {
	all := make([]string, 0, len(p.Towns)+len(p.Counties))
	all = append(all, p.Towns...)
	all = append(all, p.Counties...)
	return all
}

// Places returns every name tagged with its kind, towns first.
func (p PlaceNames) Places() []Place {
	places := make([]Place, 0, len(p.Towns)+len(p.Counties))
	for _, name := range p.Towns {
		places = append(places, Place{Name: name, Kind: KindTown})
	}
	for _, name := range p.Counties {
		places = append(places, Place{Name: name, Kind: KindCounty})
	}
	return places
}
