package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/testutil"
)

func TestReviewTask_AcceptAndReject(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	id, _, err := tasks.CreateOrUpdate(&domain.Task{
		FilePath: "a.py", Kind: domain.KindGenerateFunctionDoc,
		Status: domain.StatusPending, Line: 1,
	})
	require.NoError(t, err)
	require.NoError(t, tasks.SetSuggestion(id, "Doc."))
	uc := NewReviewTask(tasks, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), ReviewTaskInput{TaskID: id, Accepted: true})
	require.NoError(t, err)
	assert.True(t, out.Task.Accepted)

	out, err = uc.Execute(context.Background(), ReviewTaskInput{TaskID: id, Accepted: false})
	require.NoError(t, err)
	assert.False(t, out.Task.Accepted)
}

func TestReviewTask_RequiresSuggestion(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	id, _, err := tasks.CreateOrUpdate(&domain.Task{
		FilePath: "a.py", Kind: domain.KindGenerateFunctionDoc,
		Status: domain.StatusPending, Line: 1,
	})
	require.NoError(t, err)
	uc := NewReviewTask(tasks, testutil.NopLogger{})

	_, err = uc.Execute(context.Background(), ReviewTaskInput{TaskID: id, Accepted: true})
	assert.ErrorIs(t, err, domain.ErrNoSuggestion)
}
