// Package catalog holds the attribute catalog: the ordered table mapping the
// labels shown to the user to the field identifiers the charting server
// understands. Catalogs are versioned data loaded from YAML; the built-in
// versions are embedded in the binary.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmbt/covid19-webclient/internal/model"
)

// Built-in catalog versions
const (
	VersionClassic  = "classic"
	VersionExtended = "extended"

	DefaultVersion = VersionExtended
)

//go:embed data/*.yaml
var builtinFS embed.FS

var (
	ErrUnknownVersion   = errors.New("unknown catalog version")
	ErrEmptyCatalog     = errors.New("catalog has no attributes")
	ErrDuplicateLabel   = errors.New("duplicate attribute label")
	ErrDuplicateField   = errors.New("duplicate attribute field")
	ErrIncompleteEntry  = errors.New("attribute needs both label and field")
	ErrUnsupportedField = errors.New("attribute not in catalog")
)

// Attribute is one catalog row
type Attribute struct {
	Label string `yaml:"label"`
	Field string `yaml:"field"`
}

// Catalog is an immutable, ordered attribute table
type Catalog struct {
	version     string
	attributes  []Attribute
	dataSources []model.DataSource
	byLabel     map[string]string
	byField     map[string]string
}

type catalogFile struct {
	Version     string      `yaml:"version"`
	DataSources []string    `yaml:"data_sources"`
	Attributes  []Attribute `yaml:"attributes"`
}

// Versions returns the names of the built-in catalogs
func Versions() []string {
	return []string{VersionClassic, VersionExtended}
}

// Builtin returns one of the embedded catalogs. An empty version selects
// DefaultVersion.
func Builtin(version string) (*Catalog, error) {
	if version == "" {
		version = DefaultVersion
	}
	data, err := builtinFS.ReadFile("data/" + version + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, version)
	}
	return Parse(data)
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a catalog from YAML
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	sources := make([]model.DataSource, 0, len(f.DataSources))
	for _, s := range f.DataSources {
		ds, err := model.ParseDataSource(s)
		if err != nil {
			return nil, fmt.Errorf("catalog %q: %w", f.Version, err)
		}
		if ds != model.DataSourceDefault {
			sources = append(sources, ds)
		}
	}

	return New(f.Version, f.Attributes, sources)
}

// New validates attrs and builds a catalog preserving their order
func New(version string, attrs []Attribute, sources []model.DataSource) (*Catalog, error) {
	if len(attrs) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		version:     version,
		attributes:  make([]Attribute, 0, len(attrs)),
		dataSources: append([]model.DataSource(nil), sources...),
		byLabel:     make(map[string]string, len(attrs)),
		byField:     make(map[string]string, len(attrs)),
	}

	for i, a := range attrs {
		a.Label = strings.TrimSpace(a.Label)
		a.Field = strings.TrimSpace(a.Field)
		if a.Label == "" || a.Field == "" {
			return nil, fmt.Errorf("%w (entry %d)", ErrIncompleteEntry, i)
		}
		if _, dup := c.byLabel[a.Label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, a.Label)
		}
		if _, dup := c.byField[a.Field]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, a.Field)
		}
		c.byLabel[a.Label] = a.Field
		c.byField[a.Field] = a.Label
		c.attributes = append(c.attributes, a)
	}

	return c, nil
}

// Version returns the catalog version name
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of attributes
func (c *Catalog) Len() int {
	return len(c.attributes)
}

// Attributes returns a copy of the rows in catalog order
func (c *Catalog) Attributes() []Attribute {
	return append([]Attribute(nil), c.attributes...)
}

// Labels returns the display labels in catalog order
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.attributes))
	for i, a := range c.attributes {
		labels[i] = a.Label
	}
	return labels
}

// Field translates a display label to the server field identifier
func (c *Catalog) Field(label string) (string, bool) {
	field, ok := c.byLabel[label]
	return field, ok
}

// Label translates a server field identifier back to its display label
func (c *Catalog) Label(field string) (string, bool) {
	label, ok := c.byField[field]
	return label, ok
}

// Resolve accepts either a label or a field identifier and returns the field
func (c *Catalog) Resolve(labelOrField string) (string, error) {
	if field, ok := c.byLabel[labelOrField]; ok {
		return field, nil
	}
	if _, ok := c.byField[labelOrField]; ok {
		return labelOrField, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedField, labelOrField)
}

// DataSources returns the selectable data sources; empty for catalogs of
// servers without the selector
func (c *Catalog) DataSources() []model.DataSource {
	return append([]model.DataSource(nil), c.dataSources...)
}

// SupportsDataSource reports whether ds may be sent to the server. The
// default (empty) source is always supported.
func (c *Catalog) SupportsDataSource(ds model.DataSource) bool {
	if ds == model.DataSourceDefault {
		return true
	}
	for _, s := range c.dataSources {
		if s == ds {
			return true
		}
	}
	return false
}
