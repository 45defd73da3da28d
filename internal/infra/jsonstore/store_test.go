package jsonstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// tickClock returns a strictly increasing time on every call.
type tickClock struct {
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "tasks.json"), &tickClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, s.Initialize())
	return s
}

func newTask(path string, line int, kind domain.TaskKind) *domain.Task {
	return &domain.Task{
		FilePath: path,
		Line:     line,
		Kind:     kind,
		Status:   domain.StatusPending,
		Priority: domain.DefaultPriority,
	}
}

func TestStore_NotInitialized(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"), domain.RealClock{})

	_, err := s.Get(1)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	id, created, err := s.CreateOrUpdate(newTask("a.py", 10, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a.py", got.FilePath)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.False(t, got.Created.IsZero())

	missing, err := s.Get(99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_CreateOrUpdate_TakesOverSlot(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 10, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	update := newTask("a.py", 10, domain.KindGenerateFunctionDoc)
	update.Context = "def f():\n    pass"
	id2, created, err := s.CreateOrUpdate(update)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, id2)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    pass", got.Context)
	assert.True(t, got.Updated.After(got.Created))
}

func TestStore_CreateOrUpdate_ByIDPreservesCreated(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 10, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	original, err := s.Get(id)
	require.NoError(t, err)

	// The scanner hands back a fresh value with only the ID set
	update := newTask("a.py", 12, domain.KindGenerateFunctionDoc)
	update.ID = id
	update.Context = "def f():\n    return 1"
	_, created, err := s.CreateOrUpdate(update)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, original.Created, got.Created)
	assert.True(t, got.Updated.After(got.Created))
	assert.Equal(t, "def f():\n    return 1", got.Context)
}

func TestStore_CreateOrUpdate_UniquenessViolation(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.CreateOrUpdate(newTask("a.py", 10, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	id2, _, err := s.CreateOrUpdate(newTask("a.py", 20, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	// Move the second task onto the first one's slot
	moved := newTask("a.py", 10, domain.KindGenerateFunctionDoc)
	moved.ID = id2
	_, _, err = s.CreateOrUpdate(moved)
	assert.ErrorIs(t, err, domain.ErrUniquenessViolation)
}

func TestStore_List_Filters(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	_, _, err = s.CreateOrUpdate(newTask("b.py", 1, domain.KindGenerateClassDoc))
	require.NoError(t, err)

	all, err := s.List(domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byFile, err := s.List(domain.TaskFilter{FilePath: "a.py"})
	require.NoError(t, err)
	require.Len(t, byFile, 1)
	assert.Equal(t, "a.py", byFile[0].FilePath)

	byKind, err := s.List(domain.TaskFilter{Kind: domain.KindGenerateClassDoc})
	require.NoError(t, err)
	assert.Len(t, byKind, 1)
}

func TestStore_ListPending_Order(t *testing.T) {
	s := newTestStore(t)

	comment := newTask("a.py", 1, domain.KindGenerateComment)
	function := newTask("a.py", 2, domain.KindGenerateFunctionDoc)
	urgent := newTask("a.py", 3, domain.KindGenerateFunctionDoc)
	urgent.Priority = 1
	module := newTask("a.py", 4, domain.KindGenerateModuleDoc)

	for _, task := range []*domain.Task{comment, function, urgent, module} {
		_, _, err := s.CreateOrUpdate(task)
		require.NoError(t, err)
	}

	pending, err := s.ListPending(domain.PendingFilter{})
	require.NoError(t, err)
	require.Len(t, pending, 4)
	assert.Equal(t, domain.KindGenerateModuleDoc, pending[0].Kind)
	assert.Equal(t, 1, pending[1].Priority) // urgent function before default
	assert.Equal(t, 2, pending[2].Line)
	assert.Equal(t, domain.KindGenerateComment, pending[3].Kind)
}

func TestStore_ListPending_KindAndLimit(t *testing.T) {
	s := newTestStore(t)

	for line := 1; line <= 3; line++ {
		_, _, err := s.CreateOrUpdate(newTask("a.py", line, domain.KindGenerateFunctionDoc))
		require.NoError(t, err)
	}

	pending, err := s.ListPending(domain.PendingFilter{Kind: domain.KindGenerateFunctionDoc, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestStore_ListAccepted_Order(t *testing.T) {
	s := newTestStore(t)

	accept := func(path string, line int) {
		t.Helper()
		id, _, err := s.CreateOrUpdate(newTask(path, line, domain.KindGenerateFunctionDoc))
		require.NoError(t, err)
		require.NoError(t, s.SetSuggestion(id, "Doc."))
		require.NoError(t, s.SetAccepted(id, true))
	}
	accept("b.py", 5)
	accept("a.py", 3)
	accept("a.py", 9)

	tasks, err := s.ListAccepted()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a.py", tasks[0].FilePath)
	assert.Equal(t, 9, tasks[0].Line) // descending line within a file
	assert.Equal(t, 3, tasks[1].Line)
	assert.Equal(t, "b.py", tasks[2].FilePath)
}

func TestStore_Transitions(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	// pending -> completed is not allowed
	err = s.MarkCompleted(id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, s.MarkProcessing(id))
	require.NoError(t, s.MarkFailed(id, "processor timeout"))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "processor timeout", got.ErrorMessage)

	// failed -> processing retry clears the message
	require.NoError(t, s.MarkProcessing(id))
	got, err = s.Get(id)
	require.NoError(t, err)
	assert.Empty(t, got.ErrorMessage)

	require.NoError(t, s.MarkCompleted(id))
	assert.ErrorIs(t, s.MarkProcessing(99), domain.ErrTaskNotFound)
}

func TestStore_MarkFailed_RepeatRefreshesError(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	require.NoError(t, s.MarkProcessing(id))
	require.NoError(t, s.MarkFailed(id, "first attempt"))

	// A retry that fails again replaces the stored message
	require.NoError(t, s.MarkFailed(id, "second attempt"))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "second attempt", got.ErrorMessage)
}

func TestStore_SetSuggestion(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetSuggestion(id, "   "), domain.ErrEmptySuggestion)
	require.NoError(t, s.SetSuggestion(id, "Load the config."))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Load the config.", got.Suggestion)
}

func TestStore_SetAccepted_RequiresSuggestion(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetAccepted(id, true), domain.ErrNoSuggestion)

	require.NoError(t, s.SetSuggestion(id, "Doc."))
	require.NoError(t, s.SetAccepted(id, true))
	require.NoError(t, s.SetAccepted(id, false)) // rejection never needs one
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	_, _, err = s.CreateOrUpdate(newTask("a.py", 2, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	assert.ErrorIs(t, s.Delete(id), domain.ErrTaskNotFound)

	require.NoError(t, s.ClearAll())
	all, err := s.List(domain.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	// IDs restart after a clear
	newID, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	assert.Equal(t, 1, newID)
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.CreateOrUpdate(newTask("a.py", 1, domain.KindGenerateFunctionDoc))
	require.NoError(t, err)
	_, _, err = s.CreateOrUpdate(newTask("a.py", 2, domain.KindGenerateClassDoc))
	require.NoError(t, err)
	require.NoError(t, s.SetSuggestion(id, "Doc."))
	require.NoError(t, s.SetAccepted(id, true))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, 1, stats.ByKind[domain.KindGenerateClassDoc])
	assert.Equal(t, 1, stats.Accepted)
}
