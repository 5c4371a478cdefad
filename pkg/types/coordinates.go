package types

import "fmt"

// Coordinates is an immutable geographic position.
type Coordinates struct {
	LatitudeDeg  float64 `json:"latitudeDeg" yaml:"latitudeDeg"`
	LongitudeDeg float64 `json:"longitudeDeg" yaml:"longitudeDeg"`
}

// Validate checks that the coordinates are on the globe.
func (c Coordinates) Validate() error {
	if c.LatitudeDeg < -90 || c.LatitudeDeg > 90 {
		return fmt.Errorf("%w: latitude %f out of [-90,90]", ErrInvalidCoordinates, c.LatitudeDeg)
	}
	if c.LongitudeDeg < -180 || c.LongitudeDeg > 180 {
		return fmt.Errorf("%w: longitude %f out of [-180,180]", ErrInvalidCoordinates, c.LongitudeDeg)
	}
	return nil
}
