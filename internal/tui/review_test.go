package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
)

func reviewTasks() []*domain.Task {
	return []*domain.Task{
		{ID: 1, Kind: domain.KindGenerateFunctionDoc, FilePath: "a.py", Line: 2, Name: "load", Suggestion: "Load it."},
		{ID: 2, Kind: domain.KindGenerateClassDoc, FilePath: "b.py", Line: 9, Name: "Cache", Suggestion: "Cache things."},
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestReview_AcceptRecordsDecisionAndAdvances(t *testing.T) {
	var got []int
	m := NewReview(reviewTasks(), func(taskID int, accepted bool) error {
		got = append(got, taskID)
		assert.True(t, accepted)
		return nil
	})

	next, _ := m.Update(keyPress('a'))
	model, ok := next.(Model)
	require.True(t, ok)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, model.cursor)
	assert.Equal(t, accepted, model.decisions[1])
}

func TestReview_RejectAndNavigate(t *testing.T) {
	decided := map[int]bool{}
	m := NewReview(reviewTasks(), func(taskID int, accept bool) error {
		decided[taskID] = accept
		return nil
	})

	next, _ := m.Update(keyPress('j'))
	next, _ = next.(Model).Update(keyPress('r'))
	model := next.(Model)

	assert.Equal(t, map[int]bool{2: false}, decided)
	assert.Equal(t, rejected, model.decisions[2])
}

func TestReview_DecideErrorIsShownNotRecorded(t *testing.T) {
	m := NewReview(reviewTasks(), func(int, bool) error {
		return errors.New("store unavailable")
	})

	next, _ := m.Update(keyPress('a'))
	model := next.(Model)

	assert.Equal(t, undecided, model.decisions[1])
	assert.Zero(t, model.cursor)
	assert.Contains(t, model.View(), "store unavailable")
}

func TestReview_ViewShowsProgressAndSuggestion(t *testing.T) {
	m := NewReview(reviewTasks(), func(int, bool) error { return nil })

	view := m.View()
	assert.Contains(t, view, "0/2 decided")
	assert.Contains(t, view, "a.py:2")
	assert.Contains(t, view, "Load it.")
}

func TestReview_EmptyQueue(t *testing.T) {
	m := NewReview(nil, func(int, bool) error { return nil })

	next, _ := m.Update(keyPress('a'))
	model := next.(Model)

	assert.Contains(t, model.View(), "Nothing to review")
}

func TestReview_QuitReturnsQuitCmd(t *testing.T) {
	m := NewReview(reviewTasks(), func(int, bool) error { return nil })

	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
}
