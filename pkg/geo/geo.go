// SPDX-License-Identifier: Apache-2.0

package geo

// Position is a geographic position, in degrees.
type Position struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

func NewPosition(longitude, latitude float64) Position {
	return Position{Longitude: longitude, Latitude: latitude}
}

// LineString is an ordered sequence of positions. A closed line string
// (first position equal to the last one) describes a ring.
type LineString struct {
	Positions []Position `json:"positions"`
}

func NewLineString(positions ...Position) LineString {
	return LineString{Positions: positions}
}

// IsClosed returns true if the first and last positions are equal. Empty line
// strings are not closed.
func (l LineString) IsClosed() bool {
	if len(l.Positions) == 0 {
		return false
	}
	return l.Positions[0] == l.Positions[len(l.Positions)-1]
}

// Polygon is a list of rings. Only single ring polygons can be formatted.
type Polygon struct {
	Rings []LineString `json:"rings"`
}

func NewPolygon(rings ...LineString) Polygon {
	return Polygon{Rings: rings}
}
