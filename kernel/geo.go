package kernel

import "github.com/chewxy/math32"

const earthRadiusKm float32 = 6371.0
const haversineCapKm float32 = 20000.0

// Haversine computes great-circle distance between two (lat,lon) points in
// decimal degrees, scaled by earth radius and then by the 20,000km cap,
// clamped to [0,1] (spec.md §4.2).
func Haversine(latA, lonA, latB, lonB float64, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	toRad := func(deg float64) float32 { return float32(deg) * math32.Pi / 180 }

	p1 := toRad(latA)
	p2 := toRad(latB)
	dPhi := toRad(latB - latA)
	dLambda := toRad(lonB - lonA)

	sinDPhi := math32.Sin(dPhi / 2)
	sinDLambda := math32.Sin(dLambda / 2)

	a := sinDPhi*sinDPhi + math32.Cos(p1)*math32.Cos(p2)*sinDLambda*sinDLambda
	c := 2 * math32.Atan2(math32.Sqrt(a), math32.Sqrt(1-a))

	distKm := earthRadiusKm * c
	return Of(clamp01(distKm / haversineCapKm))
}
