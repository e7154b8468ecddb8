// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	loglib "github.com/xataio/indexschema/pkg/log"
)

// Formatter encodes geometries as OData geography literals, the form used in
// search filter expressions.
type Formatter struct {
	logger loglib.Logger
}

type Option func(*Formatter)

const (
	// three distinct vertices plus the closing one
	minRingPositions = 4
	// max digits after the decimal point, enough for sub millimetre precision
	coordinatePrecision = 12

	geographyPrefix = "geography'"
	geographySuffix = "'"
)

func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		logger: loglib.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithLogger(l loglib.Logger) Option {
	return func(f *Formatter) {
		f.logger = loglib.NewModuleLogger(l, "geo_formatter")
	}
}

// FormatPoint returns the geography literal for the point, for example
// geography'POINT(-122.131577 47.678581)'. The coordinates are not validated,
// so NaN and infinite values are written as is. Use Formatter.Point to reject
// them.
func FormatPoint(longitude, latitude float64) string {
	return geographyPrefix + wktPoint(longitude, latitude) + geographySuffix
}

// Point is the validating version of FormatPoint.
func (f *Formatter) Point(p Position) (string, error) {
	wkt, err := WKTPoint(p)
	if err != nil {
		return "", err
	}
	return geographyPrefix + wkt + geographySuffix, nil
}

// Polygon returns the geography literal for the single ring polygon on input.
func (f *Formatter) Polygon(p Polygon) (string, error) {
	wkt, err := WKTPolygon(p)
	if err != nil {
		f.logger.Debug("invalid polygon", loglib.Fields{"rings": len(p.Rings), "error": err})
		return "", err
	}
	f.logger.Trace("polygon formatted", loglib.Fields{"wkt": wkt})
	return geographyPrefix + wkt + geographySuffix, nil
}

// LineStringPolygon returns the geography literal for the polygon described
// by the closed line string on input.
func (f *Formatter) LineStringPolygon(l LineString) (string, error) {
	return f.Polygon(NewPolygon(l))
}

// WKTPoint returns the well known text of the point, without the geography
// wrapper.
func WKTPoint(p Position) (string, error) {
	if !isFinite(p) {
		return "", fmt.Errorf("point %v: %w", p, ErrNonFiniteCoordinate)
	}
	return wktPoint(p.Longitude, p.Latitude), nil
}

// WKTPolygon returns the well known text of the polygon, without the geography
// wrapper. The polygon must have exactly one closed ring of at least 4
// positions.
func WKTPolygon(p Polygon) (string, error) {
	switch len(p.Rings) {
	case 0:
		return "", ErrNoRings
	case 1:
	default:
		return "", fmt.Errorf("polygon with %d rings: %w", len(p.Rings), ErrMultipleRings)
	}

	ring := p.Rings[0]
	if len(ring.Positions) < minRingPositions {
		return "", fmt.Errorf("ring with %d positions: %w", len(ring.Positions), ErrTooFewPositions)
	}
	for i, pos := range ring.Positions {
		if !isFinite(pos) {
			return "", fmt.Errorf("position %d: %w", i, ErrNonFiniteCoordinate)
		}
	}
	if !ring.IsClosed() {
		return "", ErrRingNotClosed
	}

	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, pos := range ring.Positions {
		if i > 0 {
			b.WriteString(", ")
		}
		writePosition(&b, pos.Longitude, pos.Latitude)
	}
	b.WriteString("))")
	return b.String(), nil
}

func wktPoint(longitude, latitude float64) string {
	var b strings.Builder
	b.WriteString("POINT(")
	writePosition(&b, longitude, latitude)
	b.WriteString(")")
	return b.String()
}

func writePosition(b *strings.Builder, longitude, latitude float64) {
	b.WriteString(FormatCoordinate(longitude))
	b.WriteByte(' ')
	b.WriteString(FormatCoordinate(latitude))
}

// FormatCoordinate formats the value with up to 12 decimals, with no trailing
// zeros and no exponent. Negative zero keeps its sign.
func FormatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', coordinatePrecision, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func isFinite(p Position) bool {
	return !math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0) &&
		!math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0)
}
