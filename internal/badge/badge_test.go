package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_FirstHabit(t *testing.T) {
	newly := Evaluate(nil, Snapshot{HabitCount: 1})
	assert.Equal(t, []string{FirstHabit}, newly)
}

func TestEvaluate_Idempotent(t *testing.T) {
	earned := []string{FirstHabit, WeekStreak}
	newly := Evaluate(earned, Snapshot{HabitCount: 3, CurrentStreaks: []int{7}})
	assert.Empty(t, newly, "re-evaluating earned badges is a no-op")
}

func TestEvaluate_WeekStreakOnMultiplesOfSeven(t *testing.T) {
	assert.Contains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{7}}), WeekStreak)
	assert.Contains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{14}}), WeekStreak)
	assert.NotContains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{6}}), WeekStreak)
	assert.NotContains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{0}}), WeekStreak)
}

func TestEvaluate_MonthStreak(t *testing.T) {
	assert.Contains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{30}}), MonthStreak)
	assert.Contains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{45}}), MonthStreak)
	assert.NotContains(t, Evaluate(nil, Snapshot{HabitCount: 1, CurrentStreaks: []int{29}}), MonthStreak)
}

func TestEvaluate_LevelUpNeedsIncreasePastOne(t *testing.T) {
	assert.Contains(t, Evaluate(nil, Snapshot{Level: 2, LevelIncreased: true}), LevelUp)
	assert.NotContains(t, Evaluate(nil, Snapshot{Level: 2, LevelIncreased: false}), LevelUp)
	assert.NotContains(t, Evaluate(nil, Snapshot{Level: 1, LevelIncreased: true}), LevelUp)
}

func TestDefinitions_CoverAllIDs(t *testing.T) {
	ids := map[string]bool{}
	for _, d := range Definitions() {
		ids[d.ID] = true
	}
	for _, id := range []string{FirstHabit, WeekStreak, MonthStreak, LevelUp} {
		assert.True(t, ids[id], "missing definition for %s", id)
	}
}
