// Package geo loads region boundaries for choropleth maps.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultFeatureIDKey is the GADM level-1 region name property.
const DefaultFeatureIDKey = "properties.name_1"

// Boundaries is a parsed GeoJSON FeatureCollection. Regions are identified by
// the value found at the feature-id key path of each feature.
type Boundaries struct {
	mapName  string
	idKey    string
	regions  []string
	features []feature
}

type feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// Parse reads a FeatureCollection. idKey is a gjson path into each feature,
// such as "properties.name_1"; an empty key uses DefaultFeatureIDKey.
func Parse(mapName, idKey string, data []byte) (*Boundaries, error) {
	if mapName == "" {
		return nil, errors.New("parse boundaries: map name is required")
	}
	if idKey == "" {
		idKey = DefaultFeatureIDKey
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse boundaries: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse boundaries: type %q is not a FeatureCollection", fc.Type)
	}

	b := &Boundaries{mapName: mapName, idKey: idKey}
	seen := make(map[string]bool, len(fc.Features))
	for i, raw := range fc.Features {
		id := gjson.GetBytes(raw, idKey)
		if !id.Exists() || id.String() == "" {
			return nil, fmt.Errorf("parse boundaries: feature %d has no %s", i, idKey)
		}
		var f feature
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse boundaries: feature %d: %w", i, err)
		}
		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}
		// ECharts matches map data by properties.name.
		f.Properties["name"] = id.String()
		b.features = append(b.features, f)
		if !seen[id.String()] {
			seen[id.String()] = true
			b.regions = append(b.regions, id.String())
		}
	}
	return b, nil
}

// Load reads and parses a GeoJSON file.
func Load(path, mapName, idKey string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return Parse(mapName, idKey, data)
}

// MapName is the name the boundaries are registered under in the chart library.
func (b *Boundaries) MapName() string { return b.mapName }

// FeatureIDKey is the path used to identify regions.
func (b *Boundaries) FeatureIDKey() string { return b.idKey }

// Regions returns the region names in file order.
func (b *Boundaries) Regions() []string { return append([]string(nil), b.regions...) }

// Missing returns the labels that match no region, sorted.
func (b *Boundaries) Missing(labels []string) []string {
	known := make(map[string]bool, len(b.regions))
	for _, r := range b.regions {
		known[r] = true
	}
	var out []string
	for _, l := range labels {
		if !known[l] {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// ScriptName is the file name of the registration script.
func (b *Boundaries) ScriptName() string {
	return strings.ToLower(strings.ReplaceAll(b.mapName, " ", "_")) + ".js"
}

// Script returns JavaScript that registers the boundaries with ECharts.
func (b *Boundaries) Script() ([]byte, error) {
	geojson, err := json.Marshal(struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}{Type: "FeatureCollection", Features: b.features})
	if err != nil {
		return nil, fmt.Errorf("encode boundaries: %w", err)
	}
	name, err := json.Marshal(b.mapName)
	if err != nil {
		return nil, fmt.Errorf("encode map name: %w", err)
	}
	return fmt.Appendf(nil, "echarts.registerMap(%s, %s);\n", name, geojson), nil
}
