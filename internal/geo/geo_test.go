package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	b := Bounds(Point{Lat: 37.5, Lon: 127.0}, DefaultDelta)
	assert.InDelta(t, 37.49, b.MinLat, 1e-9)
	assert.InDelta(t, 37.51, b.MaxLat, 1e-9)
	assert.InDelta(t, 126.99, b.MinLon, 1e-9)
	assert.InDelta(t, 127.01, b.MaxLon, 1e-9)
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint(" 37.5665, 126.978 ")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 37.5665, Lon: 126.978}, p)

	_, err = ParsePoint("37.5")
	assert.Error(t, err)
	_, err = ParsePoint("91,0")
	assert.Error(t, err)
}

func TestEnvLocator(t *testing.T) {
	t.Setenv("SHIMTEO_TEST_LOCATION", "35.1,129.0")
	p, err := EnvLocator{Var: "SHIMTEO_TEST_LOCATION"}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 35.1, Lon: 129.0}, p)

	t.Setenv("SHIMTEO_TEST_LOCATION", "")
	_, err = EnvLocator{Var: "SHIMTEO_TEST_LOCATION"}.Locate(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestLocateOrFallsBack(t *testing.T) {
	def := Point{Lat: 1, Lon: 2}

	p, fellBack, err := LocateOr(context.Background(), EnvLocator{Var: "SHIMTEO_UNSET_VAR_XYZ"}, def)
	assert.Equal(t, def, p)
	assert.True(t, fellBack)
	assert.Error(t, err)

	p, fellBack, err = LocateOr(context.Background(), Static{P: Point{Lat: 3, Lon: 4}}, def)
	require.NoError(t, err)
	assert.False(t, fellBack)
	assert.Equal(t, Point{Lat: 3, Lon: 4}, p)
}
