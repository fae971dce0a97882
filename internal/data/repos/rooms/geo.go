package rooms

import "math"

const earthRadiusMeters = 6371000.0

// haversineMeters is the great-circle distance between two lat/long points.
func haversineMeters(lat1, long1, lat2, long2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLong := toRad(long2 - long1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLong/2)*math.Sin(dLong/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}
