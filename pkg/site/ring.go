package site

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MinRingPoints is the number of distinct points required before a ring
// can be closed.
const MinRingPoints = 3

// ErrTooFewPoints is returned when closing a ring with fewer than
// MinRingPoints distinct points.
var ErrTooFewPoints = errors.New("site: ring needs at least 3 distinct points")

// CloseRing copies points and appends the first point, producing a
// closed linear ring.
func CloseRing(points []orb.Point) (orb.Ring, error) {
	if len(points) < MinRingPoints {
		return nil, ErrTooFewPoints
	}
	ring := make(orb.Ring, 0, len(points)+1)
	ring = append(ring, points...)
	ring = append(ring, points[0])
	return ring, nil
}

// ValidateRing checks that r is a well-formed closed ring: at least 4
// points with the first and last identical.
func ValidateRing(r orb.Ring) error {
	if len(r) < MinRingPoints+1 {
		return fmt.Errorf("site: ring has %d points, need at least %d", len(r), MinRingPoints+1)
	}
	if r[0] != r[len(r)-1] {
		return errors.New("site: ring is not closed")
	}
	return nil
}

// AreaHectares returns the approximate surface area of a polygon in
// hectares, computed on the sphere.
func AreaHectares(p orb.Polygon) float64 {
	return math.Abs(geo.Area(p)) / 10_000
}
