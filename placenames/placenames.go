// Package placenames builds the Connecticut town and county name list from
// the CT Data Collaborative data packages.
package placenames

import (
	"context"
	"fmt"
	"time"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames/entities"
)

const (
	DefaultTownsURL    = "https://raw.githubusercontent.com/CT-Data-Collaborative/ct-town-list/master/datapackage.json"
	DefaultCountiesURL = "https://raw.githubusercontent.com/CT-Data-Collaborative/ct-county-list/master/datapackage.json"

	TownField   = "Town"
	CountyField = "County"
)

// Compile-time check to ensure Parser implements Parser interface
var _ interfaces.Parser = (*Parser)(nil)

// TownsAndCounties returns every town name followed by every county name,
// each in resource order. The first resource of each package is read.
func TownsAndCounties(ctx context.Context, reader interfaces.PackageReader, townsURL, countiesURL string) ([]string, error) {
	names, err := NewParser(reader, townsURL, countiesURL).ParsePlaces(ctx)
	if err != nil {
		return nil, err
	}
	return names.All(), nil
}

// Parser reads both packages on every call.
type Parser struct {
	reader      interfaces.PackageReader
	townsURL    string
	countiesURL string
}

// NewParser creates a Parser. Empty URLs fall back to the defaults.
func NewParser(reader interfaces.PackageReader, townsURL, countiesURL string) *Parser {
	if townsURL == "" {
		townsURL = DefaultTownsURL
	}
	if countiesURL == "" {
		countiesURL = DefaultCountiesURL
	}
	return &Parser{
		reader:      reader,
		townsURL:    townsURL,
		countiesURL: countiesURL,
	}
}

// ParsePlaces fetches the town package, then the county package.
func (p *Parser) ParsePlaces(ctx context.Context) (entities.PlaceNames, error) {
	start := time.Now()

	towns, err := p.reader.ReadField(ctx, p.townsURL, 0, TownField)
	if err != nil {
		return entities.PlaceNames{}, fmt.Errorf("failed to read towns: %w", err)
	}

	counties, err := p.reader.ReadField(ctx, p.countiesURL, 0, CountyField)
	if err != nil {
		return entities.PlaceNames{}, fmt.Errorf("failed to read counties: %w", err)
	}

	logging.Info("Place names parsed",
		"towns", len(towns),
		"counties", len(counties),
		"duration", time.Since(start).String())

	return entities.PlaceNames{Towns: towns, Counties: counties}, nil
}
