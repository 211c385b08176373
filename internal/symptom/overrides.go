package symptom

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shimteo/shimteo/internal/api"
)

//go:embed guides.yaml
var guidesYAML []byte

// Override replaces guide fields for one disease in one language. Nil fields keep the server
// value.
type Override struct {
	Definition *string  `yaml:"definition"`
	Symptoms   []string `yaml:"symptoms"`
	Advice     []string `yaml:"advice"`
}

// Overrides is keyed by disease name, then language code.
type Overrides map[string]map[string]Override

// LoadOverrides parses an override table.
func LoadOverrides(data []byte) (Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse guide overrides: %w", err)
	}
	if o == nil {
		o = Overrides{}
	}
	return o, nil
}

var builtin = sync.OnceValues(func() (Overrides, error) {
	return LoadOverrides(guidesYAML)
})

// BuiltinOverrides returns the embedded table, parsed once.
func BuiltinOverrides() (Overrides, error) {
	return builtin()
}

// Apply returns e with each field replaced when the table has one for (e.Disease, lang).
func (o Overrides) Apply(e api.GuideEntry, lang string) api.GuideEntry {
	ov, ok := o[e.Disease][lang]
	if !ok {
		return e
	}
	if ov.Definition != nil {
		e.Definition = *ov.Definition
	}
	if ov.Symptoms != nil {
		e.Symptoms = append([]string{}, ov.Symptoms...)
	}
	if ov.Advice != nil {
		e.Advice = append([]string{}, ov.Advice...)
	}
	return e
}

// ApplyAll applies the table to every entry.
func (o Overrides) ApplyAll(entries []api.GuideEntry, lang string) []api.GuideEntry {
	out := make([]api.GuideEntry, len(entries))
	for i, e := range entries {
		out[i] = o.Apply(e, lang)
	}
	return out
}
