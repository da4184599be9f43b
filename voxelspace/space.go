package voxelspace

import (
	"fmt"
	"math"
)

// Dimensions are the voxel counts of a space along each axis.
type Dimensions struct {
	X int `json:"x_length" yaml:"x_length"`
	Y int `json:"y_length" yaml:"y_length"`
	Z int `json:"z_length" yaml:"z_length"`
}

// BuildDimensions creates Dimensions, requiring every axis to be positive.
func BuildDimensions(x, y, z int) (Dimensions, error) {
	d := Dimensions{X: x, Y: y, Z: z}
	if err := d.Validate(); err != nil {
		return Dimensions{}, err
	}

	return d, nil
}

// Validate reports whether every axis length is positive and the volume is representable.
func (d Dimensions) Validate() error {
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return fmt.Errorf("%w: got %dx%dx%d", ErrInvalidDimensions, d.X, d.Y, d.Z)
	}

	if d.Y > math.MaxInt/d.X || d.Z > math.MaxInt/(d.X*d.Y) {
		return fmt.Errorf("%w: %dx%dx%d voxels do not fit in an int", ErrInvalidDimensions, d.X, d.Y, d.Z)
	}

	return nil
}

// Contains reports whether c lies inside [0,X) × [0,Y) × [0,Z).
func (d Dimensions) Contains(c Coordinates) bool {
	return c.X >= 0 && c.X < d.X &&
		c.Y >= 0 && c.Y < d.Y &&
		c.Z >= 0 && c.Z < d.Z
}

// Volume is the number of voxels in the space.
func (d Dimensions) Volume() int {
	return d.X * d.Y * d.Z
}

// Material is a material used to create beams.
type Material struct {
	Name string `json:"name" yaml:"name"`
}

// CubeType describes the physical unit cube used to allocate beams in a space.
// It is carried as metadata only; placement never consults it.
type CubeType struct {
	Material   Material `json:"material" yaml:"material"`
	EdgeLength Distance `json:"edge_length" yaml:"edge_length"`
}

// Validate reports whether the cube type has a named material and a valid edge length.
func (ct CubeType) Validate() error {
	if ct.Material.Name == "" {
		return ErrEmptyMaterialName
	}

	return ct.EdgeLength.Validate()
}

// Space is a named, bounded voxel volume populated with beams.
type Space struct {
	Name       string     `json:"name" yaml:"name"`
	Dimensions Dimensions `json:"dimensions" yaml:"dimensions"`
	CubeType   CubeType   `json:"cube_type" yaml:"cube_type"`
}

// BuildSpace creates a Space with validated name, dimensions and cube type.
func BuildSpace(name string, dimensions Dimensions, cubeType CubeType) (Space, error) {
	if name == "" {
		return Space{}, ErrEmptySpaceName
	}

	if err := dimensions.Validate(); err != nil {
		return Space{}, err
	}

	if err := cubeType.Validate(); err != nil {
		return Space{}, err
	}

	return Space{Name: name, Dimensions: dimensions, CubeType: cubeType}, nil
}
