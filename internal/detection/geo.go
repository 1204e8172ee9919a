// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// ValidCoordinates reports whether lat/lon lie within [-90,90] and [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HaversineNM returns the great-circle distance between two points in
// nautical miles.
func HaversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	dLat := lat2Rad - lat1Rad
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
