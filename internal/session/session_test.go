package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/budgetbot/internal/errs"
)

func TestStoreGetCreatesOnce(t *testing.T) {
	st := NewStore(0)
	a := st.Get(42)
	b := st.Get(42)
	assert.Same(t, a, b)
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, int64(42), a.UserID())
}

func TestTakeNextClears(t *testing.T) {
	s := newSession(1)
	s.SetNext("cost:value")
	assert.Equal(t, Step("cost:value"), s.TakeNext())
	assert.Equal(t, StepNone, s.TakeNext())
}

func TestRequireReportsMissing(t *testing.T) {
	s := newSession(1)
	s.Populate(map[string]any{"value": int64(100), "name": "coffee"})

	require.NoError(t, s.Require("value", "name"))

	err := s.Require("value", "date", "category_id")
	require.Error(t, err)
	var stale *errs.StaleFlow
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, []string{"category_id", "date"}, stale.Missing)
}

func TestTypedGetters(t *testing.T) {
	s := newSession(1)
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	s.Populate(map[string]any{
		"name":  "coffee",
		"value": int64(250),
		"date":  when,
	})

	assert.Equal(t, "coffee", s.String("name"))
	assert.Equal(t, int64(250), s.Int64("value"))
	assert.Equal(t, when, s.Time("date"))

	assert.Equal(t, "", s.String("missing"))
	assert.Equal(t, int64(0), s.Int64("name"))
	assert.True(t, s.Time("name").IsZero())
}

func TestClearKeepsContinuation(t *testing.T) {
	s := newSession(1)
	s.SetNext("income:value")
	s.Set("value", int64(10))
	s.Clear()
	_, ok := s.Value("value")
	assert.False(t, ok)
	assert.Equal(t, Step("income:value"), s.Next())
}

func TestDeletionsDeduplicated(t *testing.T) {
	s := newSession(1)
	s.MarkDelete(5, 3, 5, 0)
	assert.Equal(t, []int{3, 5}, s.TakeDeletions())
	assert.Empty(t, s.TakeDeletions())
}

func TestEvictIdleSkipsFresh(t *testing.T) {
	st := NewStore(time.Hour)
	old := st.Get(1)
	old.touched = time.Now().Add(-2 * time.Hour)
	st.Get(2)

	n := st.evictIdle(time.Now())
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, st.Len())
}

func TestEvictIdleSkipsLocked(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Get(1)
	s.touched = time.Now().Add(-2 * time.Hour)
	s.Acquire()
	defer s.Release()

	assert.Equal(t, 0, st.evictIdle(time.Now()))
	assert.Equal(t, 1, st.Len())
}
