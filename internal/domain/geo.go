package domain

import "math"

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Length returns the total length of the route in meters.
func (w WalkingRoute) Length() float64 {
	var total float64
	for i := 1; i < len(w.Coordinates); i++ {
		total += DistanceMeters(w.Coordinates[i-1], w.Coordinates[i])
	}
	return total
}

// DistanceFrom returns the shortest distance in meters from p to any segment
// of the route. Segments are projected onto a local flat plane, which is
// accurate for walking-scale routes.
func (w WalkingRoute) DistanceFrom(p Coordinate) float64 {
	switch len(w.Coordinates) {
	case 0:
		return math.Inf(1)
	case 1:
		return DistanceMeters(p, w.Coordinates[0])
	}

	best := math.Inf(1)
	for i := 1; i < len(w.Coordinates); i++ {
		d := distanceToSegment(p, w.Coordinates[i-1], w.Coordinates[i])
		if d < best {
			best = d
		}
	}
	return best
}

func distanceToSegment(p, a, b Coordinate) float64 {
	// Equirectangular projection around p, in meters.
	cosLat := math.Cos(toRadians(p.Latitude))
	project := func(c Coordinate) (float64, float64) {
		x := toRadians(c.Longitude-p.Longitude) * cosLat * earthRadiusMeters
		y := toRadians(c.Latitude-p.Latitude) * earthRadiusMeters
		return x, y
	}
	ax, ay := project(a)
	bx, by := project(b)

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// p is the origin, so the projection parameter is -(a·d)/|d|².
	t := -(ax*dx + ay*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(ax+t*dx, ay+t*dy)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DefaultSafeZoneRadius is the radius, in meters, of a safe zone set
// without one.
const DefaultSafeZoneRadius = 1000.0

// SafeZone is the area around a patient's home they may walk in unattended.
type SafeZone struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters" validate:"gt=0,lte=100000"`
}

// Validate checks the zone's center and radius.
func (z SafeZone) Validate() error {
	return validateStruct(z)
}

// Contains reports whether p lies inside the zone. A point on the boundary
// is inside.
func (z SafeZone) Contains(p Coordinate) bool {
	return DistanceMeters(z.Center, p) <= z.RadiusMeters
}

// Validate checks that c is a valid WGS84 position.
func (c Coordinate) Validate() error {
	return validateStruct(c)
}
