package badge

// Badge ids are persisted in the document; display metadata lives only in
// the definition table.
const (
	FirstHabit  = "first_habit"
	WeekStreak  = "week_streak"
	MonthStreak = "month_streak"
	LevelUp     = "level_up"
)

type Definition struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
}

var definitions = []Definition{
	{ID: FirstHabit, Name: "Prima Abitudine", Icon: "🌱", Tooltip: "Crea la tua prima abitudine"},
	{ID: WeekStreak, Name: "Costante", Icon: "🔥", Tooltip: "Mantieni uno streak di 7 giorni consecutivi"},
	{ID: MonthStreak, Name: "Inarrestabile", Icon: "👑", Tooltip: "Raggiungi uno streak di 30 giorni"},
	{ID: LevelUp, Name: "Livello Superiore", Icon: "⭐", Tooltip: "Sali oltre il primo livello"},
}

// Definitions returns the static badge table in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for a badge id, if it exists.
func Lookup(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Snapshot is the state a mutation has settled into, as seen by the unlock
// predicates.
type Snapshot struct {
	HabitCount     int
	CurrentStreaks []int
	Level          int
	LevelIncreased bool
}

// Evaluate returns the badges newly unlocked by the snapshot. Transitions
// are one-way: already-earned badges are skipped, nothing is ever revoked.
func Evaluate(earned []string, s Snapshot) []string {
	has := make(map[string]bool, len(earned))
	for _, id := range earned {
		has[id] = true
	}

	var newly []string
	award := func(id string, unlocked bool) {
		if unlocked && !has[id] {
			newly = append(newly, id)
		}
	}

	award(FirstHabit, s.HabitCount >= 1)

	week, month := false, false
	for _, st := range s.CurrentStreaks {
		if st > 0 && st%7 == 0 {
			week = true
		}
		if st >= 30 {
			month = true
		}
	}
	award(WeekStreak, week)
	award(MonthStreak, month)

	award(LevelUp, s.LevelIncreased && s.Level > 1)

	return newly
}
