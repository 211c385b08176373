// Package symptom implements the self-assessment: the question catalog, the flow controller
// that walks a user through it, and guideline resolution once a diagnosis is back.
package symptom

import (
	"context"
	"fmt"
	"sort"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/season"
)

// QuestionSource is the backend call behind the catalog.
type QuestionSource interface {
	Questions(ctx context.Context, season, lang string) ([]api.Question, error)
}

// Catalog fetches the question list for a season and language.
type Catalog struct {
	src QuestionSource
}

// NewCatalog creates a catalog over src.
func NewCatalog(src QuestionSource) *Catalog {
	return &Catalog{src: src}
}

// Fetch returns the questions for (sn, lang) ordered by SortOrder. Questions with equal
// SortOrder keep the order the server returned them in.
func (c *Catalog) Fetch(ctx context.Context, sn season.Type, lang string) ([]api.Question, error) {
	qs, err := c.src.Questions(ctx, string(sn), lang)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	sorted := make([]api.Question, len(qs))
	copy(sorted, qs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted, nil
}

// Key identifies one catalog: requests for a different key supersede each other.
func Key(sn season.Type, lang string) string {
	return string(sn) + "|" + lang
}
