package challenge

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/model"
	"crescita/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *clock.FakeClock) {
	t.Helper()
	st, err := store.Open(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local))
	return NewEngine(st, config.Default(), clk, nil), clk
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "meditazione-mattutina", Slug("Meditazione Mattutina"))
	assert.Equal(t, "10-000-passi", Slug("10.000 Passi"))
	assert.Equal(t, "niente-social", Slug("  Niente Social!  "))
}

func TestList_ReflectsCatalogue(t *testing.T) {
	e, _ := newTestEngine(t)
	views := e.List()
	require.Len(t, views, 4)
	assert.Equal(t, "Meditazione Mattutina", views[0].Name)
	for _, v := range views {
		assert.False(t, v.Active)
		assert.Zero(t, v.Stats.Attempts)
	}
}

func TestToggle_StartAndDiscardUntouchedRun(t *testing.T) {
	e, _ := newTestEngine(t)
	slug := Slug("Lettura Serale")

	v, err := e.Toggle(slug)
	require.NoError(t, err)
	assert.True(t, v.Active)
	require.NotNil(t, v.Run)
	assert.Len(t, v.Run.Days, model.ChallengeRunLength)

	// No day marked: deactivating must not pollute history.
	v, err = e.Toggle(slug)
	require.NoError(t, err)
	assert.False(t, v.Active)
	assert.Zero(t, v.Stats.Attempts)
}

func TestToggle_ArchivesAttempt(t *testing.T) {
	e, _ := newTestEngine(t)
	slug := Slug("Niente Social")

	_, err := e.Toggle(slug)
	require.NoError(t, err)
	for _, day := range []int{0, 1, 2, 4} {
		_, err = e.SetDay(slug, day, true)
		require.NoError(t, err)
	}

	v, err := e.Toggle(slug)
	require.NoError(t, err)
	assert.False(t, v.Active)
	require.Equal(t, 1, v.Stats.Attempts)
	assert.Zero(t, v.Stats.Completed)
	assert.Equal(t, 3, v.Stats.BestStreak)
	assert.Nil(t, v.Stats.LastCompleted)
}

func TestToggle_PerfectRunCompletes(t *testing.T) {
	e, clk := newTestEngine(t)
	slug := Slug("Meditazione Mattutina")

	_, err := e.Toggle(slug)
	require.NoError(t, err)
	for day := 0; day < model.ChallengeRunLength; day++ {
		_, err = e.SetDay(slug, day, true)
		require.NoError(t, err)
	}
	clk.AdvanceDays(7)

	v, err := e.Toggle(slug)
	require.NoError(t, err)
	require.Equal(t, 1, v.Stats.Attempts)
	assert.Equal(t, 1, v.Stats.Completed)
	assert.Equal(t, 100, v.Stats.SuccessRate)
	assert.Equal(t, 7, v.Stats.BestStreak)
	require.NotNil(t, v.Stats.LastCompleted)
	assert.Equal(t, 17, v.Stats.LastCompleted.Day())
}

func TestSetDay_Validation(t *testing.T) {
	e, _ := newTestEngine(t)
	slug := Slug("Lettura Serale")

	_, err := e.SetDay(slug, 0, true)
	assert.ErrorIs(t, err, ErrNoActiveRun)

	_, err = e.Toggle(slug)
	require.NoError(t, err)

	_, err = e.SetDay(slug, 7, true)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
	_, err = e.SetDay(slug, -1, true)
	assert.ErrorIs(t, err, ErrDayOutOfRange)

	_, err = e.SetDay("sconosciuta", 0, true)
	assert.ErrorIs(t, err, ErrUnknownChallenge)
	_, err = e.Toggle("sconosciuta")
	assert.ErrorIs(t, err, ErrUnknownChallenge)
}

func TestComputeStats_BadgeTiers(t *testing.T) {
	perfect := func() model.ChallengeHistoryEntry {
		d := time.Now()
		return model.ChallengeHistoryEntry{DaysCompleted: 7, MaxConsecutiveDays: 7, CompletedDate: &d}
	}

	var history []model.ChallengeHistoryEntry
	for i := 0; i < 5; i++ {
		history = append(history, perfect())
	}
	assert.Equal(t, "🏆 Maestro", ComputeStats(history).Badge)

	assert.Equal(t, "⭐ Perfetto", ComputeStats([]model.ChallengeHistoryEntry{perfect(), perfect()}).Badge)

	streaky := []model.ChallengeHistoryEntry{
		{DaysCompleted: 6, MaxConsecutiveDays: 12},
		{DaysCompleted: 3, MaxConsecutiveDays: 3},
	}
	assert.Equal(t, "🔥 Streak King", ComputeStats(streaky).Badge)

	assert.Empty(t, ComputeStats([]model.ChallengeHistoryEntry{{DaysCompleted: 2, MaxConsecutiveDays: 2}}).Badge)
}

func TestMaxConsecutive(t *testing.T) {
	assert.Equal(t, 0, MaxConsecutive([]bool{false, false}))
	assert.Equal(t, 3, MaxConsecutive([]bool{true, true, true, false, true}))
	assert.Equal(t, 7, MaxConsecutive([]bool{true, true, true, true, true, true, true}))
}
