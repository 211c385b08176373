// Package geo provides single-shot location acquisition and the bounds used for nearby
// shelter queries.
package geo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shimteo/shimteo/internal/api"
)

// DefaultDelta is the half-size in degrees of the nearby-shelter rectangle.
const DefaultDelta = 0.01

// ErrUnavailable is returned when no position can be determined.
var ErrUnavailable = errors.New("location unavailable")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)
}

// Locator acquires the current position once per call.
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// Static always reports the same point.
type Static struct {
	P Point
}

func (s Static) Locate(ctx context.Context) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	return s.P, nil
}

// EnvLocator reads "lat,lon" from an environment variable, e.g. set by a kiosk launcher.
type EnvLocator struct {
	Var string
}

func (e EnvLocator) Locate(ctx context.Context) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	raw := strings.TrimSpace(os.Getenv(e.Var))
	if raw == "" {
		return Point{}, fmt.Errorf("%s not set: %w", e.Var, ErrUnavailable)
	}
	p, err := ParsePoint(raw)
	if err != nil {
		return Point{}, fmt.Errorf("%s: %w", e.Var, err)
	}
	return p, nil
}

// ParsePoint parses "lat,lon".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("parse point %q: want lat,lon: %w", s, ErrUnavailable)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("point %q out of range: %w", s, ErrUnavailable)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Bounds returns the rectangle extending delta degrees around p.
func Bounds(p Point, delta float64) api.Bounds {
	return api.Bounds{
		MinLat: p.Lat - delta,
		MaxLat: p.Lat + delta,
		MinLon: p.Lon - delta,
		MaxLon: p.Lon + delta,
	}
}

// LocateOr tries l and falls back to def. The returned bool reports whether the fallback was
// used and err carries the locator failure for logging.
func LocateOr(ctx context.Context, l Locator, def Point) (Point, bool, error) {
	if l == nil {
		return def, true, ErrUnavailable
	}
	p, err := l.Locate(ctx)
	if err != nil {
		return def, true, err
	}
	return p, false, nil
}
