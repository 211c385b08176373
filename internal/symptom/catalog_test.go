package symptom

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/season"
)

type fakeQuestions struct {
	bySeason map[string][]api.Question
	err      error
	calls    []string
}

func (f *fakeQuestions) Questions(ctx context.Context, sn, lang string) ([]api.Question, error) {
	f.calls = append(f.calls, sn+"|"+lang)
	if f.err != nil {
		return nil, f.err
	}
	return f.bySeason[sn], nil
}

func TestFetchSortsBySortOrder(t *testing.T) {
	src := &fakeQuestions{bySeason: map[string][]api.Question{
		"HEAT": {
			{ID: 1, Code: "q1", SortOrder: 2},
			{ID: 2, Code: "q2", SortOrder: 1},
		},
	}}

	qs, err := NewCatalog(src).Fetch(context.Background(), season.Heat, "en")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "q2", qs[0].Code)
	assert.Equal(t, "q1", qs[1].Code)
	assert.Equal(t, []string{"HEAT|en"}, src.calls)
}

func TestFetchSortIsStable(t *testing.T) {
	src := &fakeQuestions{bySeason: map[string][]api.Question{
		"COLD": {
			{Code: "a", SortOrder: 1},
			{Code: "b", SortOrder: 0},
			{Code: "c", SortOrder: 1},
			{Code: "d", SortOrder: 1},
		},
	}}

	qs, err := NewCatalog(src).Fetch(context.Background(), season.Cold, "ko")
	require.NoError(t, err)

	var codes []string
	for _, q := range qs {
		codes = append(codes, q.Code)
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, codes)
}

func TestFetchDoesNotMutateSource(t *testing.T) {
	orig := []api.Question{{Code: "x", SortOrder: 5}, {Code: "y", SortOrder: 1}}
	src := &fakeQuestions{bySeason: map[string][]api.Question{"HEAT": orig}}

	_, err := NewCatalog(src).Fetch(context.Background(), season.Heat, "ko")
	require.NoError(t, err)
	assert.Equal(t, "x", orig[0].Code)
}

func TestFetchWrapsNetworkError(t *testing.T) {
	src := &fakeQuestions{err: &api.HTTPError{Method: "GET", Path: "/symptom/questions", Status: 503}}

	_, err := NewCatalog(src).Fetch(context.Background(), season.Heat, "ko")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNetwork))
	assert.Equal(t, 503, api.StatusCode(err))
}
