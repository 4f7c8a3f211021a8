// Package entities holds the decoded form of a data package manifest.
package entities

// DataPackage is a decoded datapackage.json manifest.
type DataPackage struct {
	Name      string     `json:"name"`
	Title     string     `json:"title,omitempty"`
	Resources []Resource `json:"resources"`

	// BaseURL is the location the manifest was fetched from. Relative resource
	// paths resolve against it.
	BaseURL string `json:"-"`
}
