package voxelspace

import (
	"fmt"
	"math"
)

// Coordinates is an integer (x,y,z) voxel location.
// Facing a space, the origin (0,0,0) is its bottom left voxel.
type Coordinates struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// BuildCoordinates creates Coordinates from exactly three integers.
func BuildCoordinates(values ...int) (Coordinates, error) {
	if len(values) != 3 {
		return Coordinates{}, fmt.Errorf("%w: got %d values", ErrInvalidCoordinates, len(values))
	}

	return Coordinates{X: values[0], Y: values[1], Z: values[2]}, nil
}

// Add returns the component-wise sum of c and o.
func (c Coordinates) Add(o Coordinates) Coordinates {
	return Coordinates{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Scale returns c multiplied by k.
func (c Coordinates) Scale(k int) Coordinates {
	return Coordinates{X: c.X * k, Y: c.Y * k, Z: c.Z * k}
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// less orders coordinates by z, then y, then x.
func (c Coordinates) less(o Coordinates) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Distance is a physical length with a unit tag, e.g. (1.5, "inches").
type Distance struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Unit   string  `json:"unit" yaml:"unit"`
}

// BuildDistance creates a Distance, rejecting negative or non-finite amounts and empty units.
func BuildDistance(amount float64, unit string) (Distance, error) {
	d := Distance{Amount: amount, Unit: unit}
	if err := d.Validate(); err != nil {
		return Distance{}, err
	}

	return d, nil
}

// Validate reports whether d is a usable distance.
func (d Distance) Validate() error {
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount < 0 {
		return fmt.Errorf("%w: amount %v", ErrInvalidDistance, d.Amount)
	}
	if d.Unit == "" {
		return fmt.Errorf("%w: empty unit", ErrInvalidDistance)
	}

	return nil
}

func (d Distance) String() string {
	return fmt.Sprintf("%g %s", d.Amount, d.Unit)
}
