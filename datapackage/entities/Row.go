package entities

// Row is a single record of a resource, keyed by field name.
type Row map[string]string
