package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/testutil"
)

func TestSetSuggestion_WalksPendingToCompleted(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	id, _, err := tasks.CreateOrUpdate(&domain.Task{
		FilePath: "a.py", Kind: domain.KindGenerateFunctionDoc,
		Status: domain.StatusPending, Line: 1,
	})
	require.NoError(t, err)
	uc := NewSetSuggestion(tasks, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), SetSuggestionInput{TaskID: id, Text: "Do the thing."})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, out.Task.Status)
	assert.Equal(t, "Do the thing.", out.Task.Suggestion)
}

func TestSetSuggestion_RetriesFailedTask(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	id, _, err := tasks.CreateOrUpdate(&domain.Task{
		FilePath: "a.py", Kind: domain.KindGenerateFunctionDoc,
		Status: domain.StatusPending, Line: 1,
	})
	require.NoError(t, err)
	require.NoError(t, tasks.MarkProcessing(id))
	require.NoError(t, tasks.MarkFailed(id, "boom"))
	uc := NewSetSuggestion(tasks, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), SetSuggestionInput{TaskID: id, Text: "Second try."})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Task.Status)
}

func TestSetSuggestion_Errors(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	uc := NewSetSuggestion(tasks, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), SetSuggestionInput{TaskID: 42, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	id, _, err := tasks.CreateOrUpdate(&domain.Task{
		FilePath: "a.py", Kind: domain.KindGenerateFunctionDoc,
		Status: domain.StatusPending, Line: 1,
	})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), SetSuggestionInput{TaskID: id, Text: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptySuggestion)
}
