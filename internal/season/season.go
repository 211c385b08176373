// Package season defines the HEAT/COLD discriminator that selects which shelter, question and
// guide dataset is active.
package season

import "fmt"

// Type is the season discriminator sent to every season-scoped endpoint.
type Type string

const (
	Heat Type = "HEAT"
	Cold Type = "COLD"
)

// FromColdToggle maps the cold-shelter preference onto a season.
func FromColdToggle(showCold bool) Type {
	if showCold {
		return Cold
	}
	return Heat
}

// Parse validates a season string.
func Parse(s string) (Type, error) {
	switch Type(s) {
	case Heat, Cold:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// All returns both seasons in display order.
func All() []Type { return []Type{Heat, Cold} }
