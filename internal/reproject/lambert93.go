package reproject

import (
	"math"

	"github.com/paulmach/orb"
)

// Lambert-93 (EPSG:2154): Lambert conformal conic, two standard parallels,
// on the GRS80 ellipsoid. Parameters per the IGN definition.
const (
	grs80A = 6378137.0
	grs80F = 1.0 / 298.257222101

	l93Lat1   = 44.0 * math.Pi / 180 // first standard parallel
	l93Lat2   = 49.0 * math.Pi / 180 // second standard parallel
	l93Lat0   = 46.5 * math.Pi / 180 // latitude of origin
	l93Lon0   = 3.0 * math.Pi / 180  // central meridian
	l93FalseX = 700000.0
	l93FalseY = 6600000.0
)

var (
	grs80E2 = grs80F * (2 - grs80F)
	grs80E  = math.Sqrt(grs80E2)

	// Projection constants derived once from the standard parallels.
	l93N, l93F, l93Rho0 = lccConstants()
)

// lccM is the radius-of-parallel factor of the conformal conic.
func lccM(lat float64) float64 {
	s := math.Sin(lat)
	return math.Cos(lat) / math.Sqrt(1-grs80E2*s*s)
}

// lccT is the isometric colatitude function.
func lccT(lat float64) float64 {
	s := grs80E * math.Sin(lat)
	return math.Tan(math.Pi/4-lat/2) / math.Pow((1-s)/(1+s), grs80E/2)
}

func lccConstants() (n, f, rho0 float64) {
	m1, m2 := lccM(l93Lat1), lccM(l93Lat2)
	t1, t2 := lccT(l93Lat1), lccT(l93Lat2)
	n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f = m1 / (n * math.Pow(t1, n))
	rho0 = grs80A * f * math.Pow(lccT(l93Lat0), n)
	return n, f, rho0
}

// lambert93Forward maps a geographic (lon, lat) point in degrees to
// Lambert-93 metres.
func lambert93Forward(p orb.Point) orb.Point {
	lon := p[0] * math.Pi / 180
	lat := p[1] * math.Pi / 180

	rho := grs80A * l93F * math.Pow(lccT(lat), l93N)
	theta := l93N * (lon - l93Lon0)

	return orb.Point{
		l93FalseX + rho*math.Sin(theta),
		l93FalseY + l93Rho0 - rho*math.Cos(theta),
	}
}

// lambert93Inverse maps Lambert-93 metres back to geographic (lon, lat)
// degrees. Latitude is recovered by fixed-point iteration on the isometric
// colatitude; convergence is a handful of rounds at double precision.
func lambert93Inverse(p orb.Point) orb.Point {
	dx := p[0] - l93FalseX
	dy := l93Rho0 - (p[1] - l93FalseY)

	rho := math.Hypot(dx, dy)
	if l93N < 0 {
		rho = -rho
	}
	theta := math.Atan2(dx, dy)
	t := math.Pow(rho/(grs80A*l93F), 1/l93N)

	lon := theta/l93N + l93Lon0

	lat := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		s := grs80E * math.Sin(lat)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-s)/(1+s), grs80E/2))
		if math.Abs(next-lat) < 1e-12 {
			lat = next
			break
		}
		lat = next
	}

	return orb.Point{lon * 180 / math.Pi, lat * 180 / math.Pi}
}
