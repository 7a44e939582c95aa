package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Coordinates{X: 0, Y: 0}, Coordinates{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(Coordinates{X: 10, Y: 10}, Coordinates{X: 10, Y: 10}))
}

func TestAreaContains(t *testing.T) {
	area := Area{
		TopLeft:     Coordinates{X: 10, Y: 10},
		BottomRight: Coordinates{X: 30, Y: 30},
	}

	assert.True(t, area.Contains(Coordinates{X: 20, Y: 20}))
	assert.True(t, area.Contains(Coordinates{X: 10, Y: 10}), "boundary is inside")
	assert.False(t, area.Contains(Coordinates{X: 31, Y: 20}))
	assert.False(t, area.Contains(Coordinates{X: 20, Y: 9}))
}

func TestCrossesFeature_MidpointOnly(t *testing.T) {
	mountains := GeographicalFeature{
		Type: FeatureMountain,
		Name: "Graypeak Range",
		Area: &Area{
			TopLeft:     Coordinates{X: 40, Y: 0},
			BottomRight: Coordinates{X: 60, Y: 100},
		},
	}

	// Midpoint (50, 50) is inside the range.
	assert.True(t, CrossesFeature(Coordinates{X: 0, Y: 50}, Coordinates{X: 100, Y: 50}, mountains))

	// The segment clips the range's corner but its midpoint (20, 20) is
	// outside: the coarse test deliberately misses this.
	assert.False(t, CrossesFeature(Coordinates{X: 0, Y: 0}, Coordinates{X: 40, Y: 40}, mountains))

	// Features without an area never block anything.
	peak := GeographicalFeature{Type: FeatureMountain, Name: "Lone Peak", Position: &Coordinates{X: 50, Y: 50}}
	assert.False(t, CrossesFeature(Coordinates{X: 0, Y: 50}, Coordinates{X: 100, Y: 50}, peak))
}

func TestTerrainMultiplier(t *testing.T) {
	tests := []struct {
		feature FeatureType
		want    float64
	}{
		{FeatureMountain, 3.0},
		{FeatureRiver, 4.0},
		{FeatureDesert, 2.5},
		{FeatureForest, 2.0},
		{FeaturePlain, 1.5},
		{FeatureRuin, 1.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TerrainMultiplier(tt.feature), string(tt.feature))
	}
}

func TestSegmentTerrainMultiplier_PicksWorst(t *testing.T) {
	features := []GeographicalFeature{
		{
			Type: FeatureForest,
			Name: "Elderwood",
			Area: &Area{TopLeft: Coordinates{X: 0, Y: 0}, BottomRight: Coordinates{X: 100, Y: 100}},
		},
		{
			Type: FeatureRiver,
			Name: "Silver Run",
			Area: &Area{TopLeft: Coordinates{X: 40, Y: 40}, BottomRight: Coordinates{X: 60, Y: 60}},
		},
	}

	// Both features cover the midpoint (50, 50); the river's 4.0 wins.
	got := SegmentTerrainMultiplier(Coordinates{X: 0, Y: 0}, Coordinates{X: 100, Y: 100}, features)
	assert.Equal(t, 4.0, got)

	// No features in the way: open-ground baseline.
	got = SegmentTerrainMultiplier(Coordinates{X: 0, Y: 0}, Coordinates{X: 2, Y: 2}, nil)
	assert.Equal(t, 1.5, got)
}
