package entities

import (
	"encoding/json"
	"fmt"
)

// Resource is one tabular dataset referenced by a manifest.
type Resource struct {
	Name     string          `json:"name"`
	Path     Paths           `json:"path,omitempty"`
	URL      string          `json:"url,omitempty"`
	Format   string          `json:"format,omitempty"`
	Encoding string          `json:"encoding,omitempty"`
	Dialect  *Dialect        `json:"dialect,omitempty"`
	Schema   *Schema         `json:"schema,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Paths accepts either a single string or a list of strings.
type Paths []string

func (p *Paths) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*p = Paths{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("resource path must be a string or a list of strings: %w", err)
	}
	*p = many
	return nil
}

// Dialect describes the CSV layout of a resource
type Dialect struct {
	Delimiter        string `json:"delimiter,omitempty"`
	Header           *bool  `json:"header,omitempty"`
	QuoteChar        string `json:"quoteChar,omitempty"`
	SkipInitialSpace bool   `json:"skipInitialSpace,omitempty"`
}

// HasHeader reports whether the first row is a header. Defaults to true.
func (d *Dialect) HasHeader() bool {
	if d == nil || d.Header == nil {
		return true
	}
	return *d.Header
}

// Quote returns the quote character, defaulting to '"'.
func (d *Dialect) Quote() rune {
	if d == nil || d.QuoteChar == "" {
		return '"'
	}
	return []rune(d.QuoteChar)[0]
}

// Comma returns the field delimiter, defaulting to ','.
func (d *Dialect) Comma() rune {
	if d == nil || d.Delimiter == "" {
		return ','
	}
	return []rune(d.Delimiter)[0]
}

type Schema struct {
	Fields []Field `json:"fields"`
}

type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// FieldNames returns the schema field names in declaration order.
func (s *Schema) FieldNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// HasField reports whether the schema declares a field with that name.
func (s *Schema) HasField(name string) bool {
	if s == nil {
		return false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
