package models

// Location tags which side of a reconciliation a record came from
type Location string

const (
	// LocationSource is the collection being checked for transfer
	LocationSource Location = "Source"
	// LocationDestination is the collection files should have reached
	LocationDestination Location = "Destination"
)

// Locations returns every location in report order
func Locations() []Location {
	return []Location{LocationSource, LocationDestination}
}

// Counterpart returns the opposite side
func (l Location) Counterpart() Location {
	if l == LocationSource {
		return LocationDestination
	}
	return LocationSource
}

// Mode defines which directions are reconciled
type Mode string

const (
	// ModeOneWay reports only source files missing from the destination
	ModeOneWay Mode = "oneway"
	// ModeBidirectional also reports destination files missing from the source
	ModeBidirectional Mode = "bidirectional"
)

// Valid reports whether the mode is known
func (m Mode) Valid() bool {
	return m == ModeOneWay || m == ModeBidirectional
}
