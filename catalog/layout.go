package catalog

import (
	"context"
	"fmt"

	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
)

// Layout is a space together with the beams and connectors that populate it.
// Beams are referred to by their Ref within the layout, since beam IDs are assigned on placement.
type Layout struct {
	Space      voxelspace.Space  `yaml:"space"`
	Beams      []BeamLayout      `yaml:"beams"`
	Connectors []ConnectorLayout `yaml:"connectors"`
}

// BeamLayout is one beam of a layout, placed in layout order.
type BeamLayout struct {
	Ref         string                 `yaml:"ref"`
	Origin      voxelspace.Coordinates `yaml:"origin"`
	Orientation string                 `yaml:"orientation"`
	Length      int                    `yaml:"length"`
	Junction    *JunctionLayout        `yaml:"junction,omitempty"`
}

// JunctionLayout declares that a beam shares voxels with an earlier beam of the layout.
type JunctionLayout struct {
	With string                   `yaml:"with"`
	At   []voxelspace.Coordinates `yaml:"at"`
}

// ConnectorLayout binds two beams of the layout at two shared voxels.
type ConnectorLayout struct {
	Beams [2]string                `yaml:"beams"`
	At    []voxelspace.Coordinates `yaml:"at"`
}

// Placer is the part of the placement engine a layout is applied to.
type Placer interface {
	CreateSpace(ctx context.Context, space voxelspace.Space) error
	PlaceBeam(ctx context.Context, req placement.PlaceRequest) (voxelspace.BeamID, error)
	FormConnector(ctx context.Context, a, b voxelspace.BeamID, voxelPair []voxelspace.Coordinates) (voxelspace.ConnectorID, error)
}

// Applied maps the layout's beam refs to the IDs the engine assigned, and lists the formed connectors.
type Applied struct {
	Beams      map[string]voxelspace.BeamID
	Connectors []voxelspace.ConnectorID
}

// Apply creates the layout's space, places its beams in layout order, then forms its connectors.
// It stops at the first rejection; what was placed before stays placed.
func (l Layout) Apply(ctx context.Context, placer Placer) (Applied, error) {
	applied := Applied{Beams: make(map[string]voxelspace.BeamID, len(l.Beams))}

	if err := placer.CreateSpace(ctx, l.Space); err != nil {
		return applied, err
	}

	for _, b := range l.Beams {
		req := placement.PlaceRequest{
			Space:       l.Space.Name,
			Origin:      b.Origin,
			Orientation: b.Orientation,
			Length:      b.Length,
		}

		if b.Junction != nil {
			req.Junction = &voxelspace.JunctionIntent{With: applied.Beams[b.Junction.With], At: b.Junction.At}
		}

		id, err := placer.PlaceBeam(ctx, req)
		if err != nil {
			return applied, fmt.Errorf("beam %q: %w", b.Ref, err)
		}
		applied.Beams[b.Ref] = id
	}

	for _, c := range l.Connectors {
		id, err := placer.FormConnector(ctx, applied.Beams[c.Beams[0]], applied.Beams[c.Beams[1]], c.At)
		if err != nil {
			return applied, fmt.Errorf("connector %s+%s: %w", c.Beams[0], c.Beams[1], err)
		}
		applied.Connectors = append(applied.Connectors, id)
	}

	return applied, nil
}

// validate checks the space and that every beam ref is unique and only refers back to earlier beams.
// Geometry is left to the engine.
func (l Layout) validate() error {
	if _, err := voxelspace.BuildSpace(l.Space.Name, l.Space.Dimensions, l.Space.CubeType); err != nil {
		return fmt.Errorf("layout %q: %w", l.Space.Name, err)
	}

	refs := make(map[string]bool, len(l.Beams))
	for _, b := range l.Beams {
		if b.Ref == "" {
			return fmt.Errorf("layout %q: beam at %s without a ref", l.Space.Name, b.Origin)
		}
		if refs[b.Ref] {
			return fmt.Errorf("layout %q: beam ref %q listed twice", l.Space.Name, b.Ref)
		}
		if b.Junction != nil && !refs[b.Junction.With] {
			return fmt.Errorf("layout %q: beam %q declares a junction with %q, which is not an earlier beam",
				l.Space.Name, b.Ref, b.Junction.With)
		}
		refs[b.Ref] = true
	}

	for _, c := range l.Connectors {
		for _, ref := range c.Beams {
			if !refs[ref] {
				return fmt.Errorf("layout %q: connector refers to unknown beam %q", l.Space.Name, ref)
			}
		}
	}

	return nil
}
