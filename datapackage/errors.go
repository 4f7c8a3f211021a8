package datapackage

import "errors"

var (
	// ErrNoResources is returned when a manifest lists no resources.
	ErrNoResources = errors.New("data package has no resources")
	// ErrResourceNotFound is returned for an out of range resource index.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrFieldNotFound is returned when a projected field is absent from a row.
	ErrFieldNotFound = errors.New("field not found")
	// ErrUnsupportedDialect is returned for a CSV dialect the reader cannot honour.
	ErrUnsupportedDialect = errors.New("unsupported quote char")
)
