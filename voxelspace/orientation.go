package voxelspace

import "fmt"

// Canonical orientation names.
const (
	FrontToBack = "Front-to-back"
	BackToFront = "Back-to-front"
	LeftToRight = "Left-to-right"
	RightToLeft = "Right-to-left"
	BottomToTop = "Bottom-to-top"
	TopToBottom = "Top-to-bottom"
)

// Orientation is a named, axis-aligned unit direction.
type Orientation struct {
	Name  string      `json:"name" yaml:"name"`
	Delta Coordinates `json:"delta" yaml:"delta"`
}

// Validate checks that Delta has exactly one non-zero component of magnitude 1.
func (o Orientation) Validate() error {
	nonZero := 0
	for _, v := range []int{o.Delta.X, o.Delta.Y, o.Delta.Z} {
		switch v {
		case 0:
		case 1, -1:
			nonZero++
		default:
			return fmt.Errorf("%w: %q has delta %s", ErrNotUnitVector, o.Name, o.Delta)
		}
	}

	if nonZero != 1 {
		return fmt.Errorf("%w: %q has delta %s", ErrNotUnitVector, o.Name, o.Delta)
	}

	return nil
}

// OrientationTable is an immutable lookup of orientations by name.
// Build it once and pass it to whatever places beams.
type OrientationTable struct {
	ordered []Orientation
	byName  map[string]Orientation
}

// BuildOrientationTable validates entries and builds a table. Names and deltas must each be unique.
func BuildOrientationTable(entries ...Orientation) (OrientationTable, error) {
	table := OrientationTable{
		ordered: make([]Orientation, 0, len(entries)),
		byName:  make(map[string]Orientation, len(entries)),
	}
	seenDeltas := make(map[Coordinates]string, len(entries))

	for _, o := range entries {
		if o.Name == "" {
			return OrientationTable{}, fmt.Errorf("%w: empty name", ErrDuplicateOrientation)
		}

		if err := o.Validate(); err != nil {
			return OrientationTable{}, err
		}

		if _, exists := table.byName[o.Name]; exists {
			return OrientationTable{}, fmt.Errorf("%w: name %q", ErrDuplicateOrientation, o.Name)
		}

		if other, exists := seenDeltas[o.Delta]; exists {
			return OrientationTable{}, fmt.Errorf("%w: %q and %q share delta %s", ErrDuplicateOrientation, other, o.Name, o.Delta)
		}

		seenDeltas[o.Delta] = o.Name
		table.byName[o.Name] = o
		table.ordered = append(table.ordered, o)
	}

	return table, nil
}

// DefaultOrientationTable returns the six canonical orientations.
func DefaultOrientationTable() OrientationTable {
	table, err := BuildOrientationTable(DefaultOrientations()...)
	if err != nil {
		panic(err) // the built-in entries are valid
	}

	return table
}

// DefaultOrientations returns the six canonical orientation entries in table order.
func DefaultOrientations() []Orientation {
	return []Orientation{
		{Name: FrontToBack, Delta: Coordinates{X: 0, Y: 1, Z: 0}},
		{Name: BackToFront, Delta: Coordinates{X: 0, Y: -1, Z: 0}},
		{Name: LeftToRight, Delta: Coordinates{X: 1, Y: 0, Z: 0}},
		{Name: RightToLeft, Delta: Coordinates{X: -1, Y: 0, Z: 0}},
		{Name: BottomToTop, Delta: Coordinates{X: 0, Y: 0, Z: 1}},
		{Name: TopToBottom, Delta: Coordinates{X: 0, Y: 0, Z: -1}},
	}
}

// Lookup returns the orientation with the given name.
func (t OrientationTable) Lookup(name string) (Orientation, error) {
	o, ok := t.byName[name]
	if !ok {
		return Orientation{}, fmt.Errorf("%w: %q", ErrUnknownOrientation, name)
	}

	return o, nil
}

// Names returns the orientation names in table order.
func (t OrientationTable) Names() []string {
	names := make([]string, len(t.ordered))
	for i, o := range t.ordered {
		names[i] = o.Name
	}

	return names
}

// Entries returns a copy of the table entries in table order.
func (t OrientationTable) Entries() []Orientation {
	return append([]Orientation(nil), t.ordered...)
}

// Len is the number of orientations in the table.
func (t OrientationTable) Len() int {
	return len(t.ordered)
}
