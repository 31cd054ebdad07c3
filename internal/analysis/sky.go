package analysis

import "math"

// Orientation of the Galactic frame in equatorial coordinates (J2000), in
// radians.
var (
	raNGP  = radians(192.8594812065348)
	decNGP = radians(27.12825118085622)
	lCP    = radians(122.9319185680026)
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// wrap360 maps an angle in degrees onto [0, 360).
func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// clampLat limits a latitude in degrees to [-90, 90]. The poles are kept.
func clampLat(deg float64) float64 {
	return math.Max(-90, math.Min(90, deg))
}

// Gal2Eq converts Galactic longitude and latitude to right ascension and
// declination, all in degrees.
func Gal2Eq(l, b float64) (ra, dec float64) {
	l0 := lCP - math.Pi/2
	ra0 := raNGP + math.Pi/2
	l, b = radians(l), radians(b)

	d := math.Asin(clampUnit(math.Sin(b)*math.Sin(decNGP) + math.Cos(b)*math.Cos(decNGP)*math.Sin(l-l0)))
	cosa := clampUnit(math.Cos(l-l0) * math.Cos(b) / math.Cos(d))
	sina := (math.Cos(b)*math.Sin(decNGP)*math.Sin(l-l0) - math.Sin(b)*math.Cos(decNGP)) / math.Cos(d)

	a := math.Acos(cosa)
	if sina < 0 {
		a = -a
	}
	return wrap360(degrees(a + ra0)), clampLat(degrees(d))
}

// Eq2Gal converts right ascension and declination to Galactic longitude and
// latitude, all in degrees.
func Eq2Gal(ra, dec float64) (l, b float64) {
	l0 := lCP - math.Pi/2
	ra0 := raNGP + math.Pi/2
	dec0 := math.Pi/2 - decNGP
	ra, dec = radians(ra), radians(dec)

	bb := math.Asin(clampUnit(math.Sin(dec)*math.Cos(dec0) - math.Cos(dec)*math.Sin(ra-ra0)*math.Sin(dec0)))
	cosl := clampUnit(math.Cos(dec) * math.Cos(ra-ra0) / math.Cos(bb))
	sinl := (math.Sin(dec)*math.Sin(dec0) + math.Cos(dec)*math.Sin(ra-ra0)*math.Cos(dec0)) / math.Cos(bb)

	ll := math.Acos(cosl)
	if sinl < 0 {
		ll = -ll
	}
	return wrap360(degrees(ll + l0)), clampLat(degrees(bb))
}
