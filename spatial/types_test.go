// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceBetween(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		wantMetres float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: -36.8485, lng1: 174.7633,
			lat2: -36.8485, lng2: 174.7633,
			wantMetres: 0,
			tolerance:  0.01,
		},
		{
			name: "auckland to wellington",
			lat1: -36.8485, lng1: 174.7633,
			lat2: -41.2866, lng2: 174.7756,
			wantMetres: 493_000,
			tolerance:  2000,
		},
		{
			name: "short distance",
			lat1: -36.8485, lng1: 174.7633,
			lat2: -36.8575, lng2: 174.7633,
			wantMetres: 1000,
			tolerance:  5,
		},
		{
			name: "across the antimeridian",
			lat1: -43.0, lng1: 179.9,
			lat2: -43.0, lng2: -179.9,
			wantMetres: 16_300,
			tolerance:  100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceBetween(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			assert.InDelta(t, tc.wantMetres, got, tc.tolerance)

			p1 := &Point{Lat: tc.lat1, Lng: tc.lng1}
			p2 := &Point{Lat: tc.lat2, Lng: tc.lng2}
			assert.InDelta(t, got, p1.HaversineDistance(p2), 0.001)
		})
	}
}

func TestPointScan(t *testing.T) {
	var p Point

	err := p.Scan([]byte("POINT (174.763300 -36.848500)"))
	assert.NoError(t, err)
	assert.InDelta(t, -36.8485, p.Lat, 0.0001)
	assert.InDelta(t, 174.7633, p.Lng, 0.0001)

	err = p.Scan(map[string]interface{}{"x": 172.5, "y": -43.5})
	assert.NoError(t, err)
	assert.InDelta(t, -43.5, p.Lat, 0.0001)

	err = p.Scan(42)
	assert.Error(t, err)
}
