package datapackage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ctdata/ct-placenames/datapackage/entities"
	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
)

// Compile-time check to ensure Loader implements PackageReader interface
var _ interfaces.PackageReader = (*Loader)(nil)

// Loader fetches manifests and resources with a shared HTTP client.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader. A nil client uses NewHTTPClient with a one minute timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = NewHTTPClient(defaultTimeout)
	}
	return &Loader{client: client}
}

// Load downloads and decodes the manifest at manifestURL.
func (l *Loader) Load(ctx context.Context, manifestURL string) (*entities.DataPackage, error) {
	body, err := l.download(ctx, kindManifest, manifestURL)
	if err != nil {
		return nil, err
	}

	var pkg entities.DataPackage
	if err := json.Unmarshal(body, &pkg); err != nil {
		return nil, fmt.Errorf("malformed manifest %s: %w", manifestURL, err)
	}
	if len(pkg.Resources) == 0 {
		return nil, fmt.Errorf("%s: %w", manifestURL, ErrNoResources)
	}
	pkg.BaseURL = manifestURL

	logging.Debug("Loaded data package", "name", pkg.Name, "resources", len(pkg.Resources), "url", manifestURL)
	return &pkg, nil
}

// ReadResource returns the rows of the resource at index, in resource order.
// Multi-part resources are concatenated in part order.
func (l *Loader) ReadResource(ctx context.Context, pkg *entities.DataPackage, index int) ([]entities.Row, error) {
	if index < 0 || index >= len(pkg.Resources) {
		return nil, fmt.Errorf("resource %d of %s: %w", index, pkg.BaseURL, ErrResourceNotFound)
	}
	res := pkg.Resources[index]
	source := resourceLabel(pkg, res, index)

	if len(res.Data) > 0 {
		return parseInline(res.Data, source)
	}

	locations := []string(res.Path)
	if len(locations) == 0 && res.URL != "" {
		locations = []string{res.URL}
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("%s has neither data nor path", source)
	}

	rows := []entities.Row{}
	for _, location := range locations {
		partURL, err := resolve(pkg.BaseURL, location)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		body, err := l.download(ctx, kindResource, partURL)
		if err != nil {
			return nil, err
		}

		text, err := decodeText(body, res.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		partRows, err := parseCSV(text, res.Dialect, res.Schema, partURL)
		if err != nil {
			return nil, err
		}
		rows = append(rows, partRows...)
	}

	return rows, nil
}

// ReadField loads the manifest at manifestURL and returns one column of the
// resource at index.
func (l *Loader) ReadField(ctx context.Context, manifestURL string, index int, field string) ([]string, error) {
	pkg, err := l.Load(ctx, manifestURL)
	if err != nil {
		return nil, err
	}

	rows, err := l.ReadResource(ctx, pkg, index)
	if err != nil {
		return nil, err
	}

	values, err := Project(rows, field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resourceLabel(pkg, pkg.Resources[index], index), err)
	}
	return values, nil
}

// Project returns the value of field for every row, verbatim and in order.
func Project(rows []entities.Row, field string) ([]string, error) {
	values := make([]string, 0, len(rows))
	for i, row := range rows {
		value, ok := row[field]
		if !ok {
			return nil, fmt.Errorf("%w: %q missing in row %d", ErrFieldNotFound, field, i)
		}
		values = append(values, value)
	}
	return values, nil
}

// resolve makes ref absolute against the manifest location.
func resolve(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid manifest url %q: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid resource path %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

func resourceLabel(pkg *entities.DataPackage, res entities.Resource, index int) string {
	name := res.Name
	if name == "" {
		name = fmt.Sprintf("#%d", index)
	}
	if pkg.Name != "" {
		return fmt.Sprintf("resource %s of package %s", name, pkg.Name)
	}
	return fmt.Sprintf("resource %s", name)
}
