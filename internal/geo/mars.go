package geo

import "math"

// Krasovsky 1940 ellipsoid used by the GCJ-02 offset.
const (
	semiMajorAxis = 6378245.0
	eccentricity2 = 0.00669342162296594323
)

// Rough bounding box of mainland China. Points outside are left untouched.
const (
	minLng = 72.004
	maxLng = 137.8347
	minLat = 0.8293
	maxLat = 55.8271
)

// IsInChina reports whether the point falls inside the rectangle where
// the GCJ-02 offset is applied. It is a coarse box, not a border polygon.
func IsInChina(lng, lat float64) bool {
	return !(lng < minLng || lng > maxLng || lat < minLat || lat > maxLat)
}

// GCJToWGS converts a GCJ-02 point to WGS-84.
//
// The offset is estimated at the GCJ-02 point itself, so the result is
// accurate to roughly one or two meters.
func GCJToWGS(lng, lat float64) (float64, float64) {
	if !IsInChina(lng, lat) {
		return lng, lat
	}
	dLng, dLat := offset(lng, lat)
	return lng - dLng, lat - dLat
}

// WGSToGCJ converts a WGS-84 point to GCJ-02.
func WGSToGCJ(lng, lat float64) (float64, float64) {
	if !IsInChina(lng, lat) {
		return lng, lat
	}
	dLng, dLat := offset(lng, lat)
	return lng + dLng, lat + dLat
}

// offset returns the GCJ-02 shift in degrees estimated at (lng, lat).
func offset(lng, lat float64) (dLng, dLat float64) {
	dLat = transformLat(lng-105.0, lat-35.0)
	dLng = transformLng(lng-105.0, lat-35.0)

	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - float64(eccentricity2*magic*magic)
	sqrtMagic := math.Sqrt(magic)

	dLat = (dLat * 180.0) / ((semiMajorAxis * (1 - eccentricity2)) / (magic * sqrtMagic) * math.Pi)
	dLng = (dLng * 180.0) / (semiMajorAxis / sqrtMagic * math.Cos(radLat) * math.Pi)

	return dLng, dLat
}

// Coefficients below are the published empirical constants and must not be
// simplified: reordering the arithmetic changes the low bits of the result.
// Products are wrapped in float64 conversions so they are rounded before
// the addition and never fused into FMA instructions.

func transformLat(x, y float64) float64 {
	ret := -100.0 + float64(2.0*x) + float64(3.0*y) + float64(0.2*y*y) + float64(0.1*x*y) + float64(0.2*math.Sqrt(math.Abs(x)))
	ret += (float64(20.0*math.Sin(6.0*x*math.Pi)) + float64(20.0*math.Sin(2.0*x*math.Pi))) * 2.0 / 3.0
	ret += (float64(20.0*math.Sin(y*math.Pi)) + float64(40.0*math.Sin(y/3.0*math.Pi))) * 2.0 / 3.0
	ret += (float64(160.0*math.Sin(y/12.0*math.Pi)) + float64(320*math.Sin(y*math.Pi/30.0))) * 2.0 / 3.0
	return ret
}

func transformLng(x, y float64) float64 {
	ret := 300.0 + x + float64(2.0*y) + float64(0.1*x*x) + float64(0.1*x*y) + float64(0.1*math.Sqrt(math.Abs(x)))
	ret += (float64(20.0*math.Sin(6.0*x*math.Pi)) + float64(20.0*math.Sin(2.0*x*math.Pi))) * 2.0 / 3.0
	ret += (float64(20.0*math.Sin(x*math.Pi)) + float64(40.0*math.Sin(x/3.0*math.Pi))) * 2.0 / 3.0
	ret += (float64(150.0*math.Sin(x/12.0*math.Pi)) + float64(300.0*math.Sin(x/30.0*math.Pi))) * 2.0 / 3.0
	return ret
}
