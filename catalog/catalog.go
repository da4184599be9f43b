// Package catalog loads the reference data a CubeCAD installation works with: the
// orientation table, materials, cube types, and sample layouts of spaces with their beams.
//
// A catalog is a YAML document. Default returns the embedded one, which carries the six
// axis-aligned orientations, wood in 1.5 inch cubes, and the Toddler Chair layout.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

var (
	// ErrInvalidCatalog is returned when a catalog document cannot be parsed or is inconsistent.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrUnknownLayout is returned when no layout exists for the requested space.
	ErrUnknownLayout = errors.New("unknown layout")
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the reference data document.
type Catalog struct {
	Orientations []voxelspace.Orientation `yaml:"orientations"`
	Materials    []voxelspace.Material    `yaml:"materials"`
	CubeTypes    []voxelspace.CubeType    `yaml:"cube_types"`
	Layouts      []Layout                 `yaml:"layouts"`
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}

	return c
}

// LoadFromFile reads and validates a catalog document.
func LoadFromFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a catalog document.
// Sections the document leaves out are taken from nothing, not from Default.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, errors.Join(ErrInvalidCatalog, err)
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}

	return c, nil
}

// Validate checks that orientations form a valid table and that materials, cube types and
// layouts are each listed once. When the catalog lists materials, every cube type must be
// made of one of them; when it lists cube types, every layout must use one of them.
func (c Catalog) Validate() error {
	if len(c.Orientations) > 0 {
		if _, err := c.OrientationTable(); err != nil {
			return errors.Join(ErrInvalidCatalog, err)
		}
	}

	materials := make(map[string]bool, len(c.Materials))
	for _, m := range c.Materials {
		if m.Name == "" {
			return fmt.Errorf("%w: material without a name", ErrInvalidCatalog)
		}
		if materials[m.Name] {
			return fmt.Errorf("%w: material %q listed twice", ErrInvalidCatalog, m.Name)
		}
		materials[m.Name] = true
	}

	cubeTypes := make(map[voxelspace.CubeType]bool, len(c.CubeTypes))
	for _, ct := range c.CubeTypes {
		if err := ct.Validate(); err != nil {
			return errors.Join(ErrInvalidCatalog, err)
		}
		if len(materials) > 0 && !materials[ct.Material.Name] {
			return fmt.Errorf("%w: cube type %s uses unlisted material %q", ErrInvalidCatalog, cubeTypeName(ct), ct.Material.Name)
		}
		if cubeTypes[ct] {
			return fmt.Errorf("%w: cube type %s listed twice", ErrInvalidCatalog, cubeTypeName(ct))
		}
		cubeTypes[ct] = true
	}

	spaces := make(map[string]bool, len(c.Layouts))
	for _, l := range c.Layouts {
		if err := l.validate(); err != nil {
			return errors.Join(ErrInvalidCatalog, err)
		}
		if len(cubeTypes) > 0 && !cubeTypes[l.Space.CubeType] {
			return fmt.Errorf("%w: layout %q uses unlisted cube type %s", ErrInvalidCatalog, l.Space.Name, cubeTypeName(l.Space.CubeType))
		}
		if spaces[l.Space.Name] {
			return fmt.Errorf("%w: layout %q listed twice", ErrInvalidCatalog, l.Space.Name)
		}
		spaces[l.Space.Name] = true
	}

	return nil
}

// OrientationTable builds the orientation table, or returns the default table when the
// catalog lists no orientations.
func (c Catalog) OrientationTable() (voxelspace.OrientationTable, error) {
	if len(c.Orientations) == 0 {
		return voxelspace.DefaultOrientationTable(), nil
	}

	return voxelspace.BuildOrientationTable(c.Orientations...)
}

// Layout returns the layout of the named space.
func (c Catalog) Layout(space string) (Layout, error) {
	for _, l := range c.Layouts {
		if l.Space.Name == space {
			return l, nil
		}
	}

	return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, space)
}

// Extend returns the catalog with other's entries appended to each section, validated as a whole.
// A document that only lists layouts can so be checked against a full catalog.
func (c Catalog) Extend(other Catalog) (Catalog, error) {
	extended := Catalog{
		Orientations: append(append([]voxelspace.Orientation(nil), c.Orientations...), other.Orientations...),
		Materials:    append(append([]voxelspace.Material(nil), c.Materials...), other.Materials...),
		CubeTypes:    append(append([]voxelspace.CubeType(nil), c.CubeTypes...), other.CubeTypes...),
		Layouts:      append(append([]Layout(nil), c.Layouts...), other.Layouts...),
	}

	if err := extended.Validate(); err != nil {
		return Catalog{}, err
	}

	return extended, nil
}

func cubeTypeName(ct voxelspace.CubeType) string {
	return fmt.Sprintf("%s/%s", ct.Material.Name, ct.EdgeLength)
}
