package symptom

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/season"
)

// GuideSource is the backend surface used for guideline resolution.
type GuideSource interface {
	Guides(ctx context.Context, season, lang string) ([]api.GuideEntry, error)
	AssessmentGuides(ctx context.Context, assessmentID int64, lang string) ([]api.GuideEntry, error)
	AIResult(ctx context.Context, assessmentID int64, lang string) (api.AIResult, error)
}

// GuidelineRequest selects what to resolve after a diagnosis.
type GuidelineRequest struct {
	Suspected    bool
	AssessmentID int64
	Season       season.Type
	Language     string
}

// Guideline is what the guideline screen renders.
type Guideline struct {
	Suspected bool
	Entries   []api.GuideEntry
	// AI is set only for suspected diagnoses.
	AI *api.AIResult
}

// Resolver turns a diagnosis into guidance.
type Resolver struct {
	src       GuideSource
	overrides Overrides
}

// NewResolver creates a resolver. A nil table means no overrides.
func NewResolver(src GuideSource, overrides Overrides) *Resolver {
	if overrides == nil {
		overrides = Overrides{}
	}
	return &Resolver{src: src, overrides: overrides}
}

// Resolve fetches the guidance for req. Not suspected: the season's general guides only.
// Suspected: the AI explanation and the assessment's guides, concurrently. Any failure fails
// the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, req GuidelineRequest) (Guideline, error) {
	if !req.Suspected {
		entries, err := r.src.Guides(ctx, string(req.Season), req.Language)
		if err != nil {
			return Guideline{}, fmt.Errorf("fetch guides: %w", err)
		}
		return Guideline{Entries: r.overrides.ApplyAll(entries, req.Language)}, nil
	}

	var (
		ai      api.AIResult
		entries []api.GuideEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.src.AIResult(gctx, req.AssessmentID, req.Language)
		if err != nil {
			return fmt.Errorf("fetch ai result: %w", err)
		}
		ai = res
		return nil
	})
	g.Go(func() error {
		res, err := r.src.AssessmentGuides(gctx, req.AssessmentID, req.Language)
		if err != nil {
			return fmt.Errorf("fetch assessment guides: %w", err)
		}
		entries = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return Guideline{}, err
	}

	return Guideline{
		Suspected: true,
		Entries:   r.overrides.ApplyAll(entries, req.Language),
		AI:        &ai,
	}, nil
}
