package metrics

import (
	"time"

	"crescita/internal/dateutil"
	"crescita/internal/model"
)

// DayCell is one cell of the month grid. Completed means at least one habit
// was done that day; Missed means at least one habit that had already
// started was not done on a past day. Padding cells from the neighbouring
// months carry InMonth=false and no classification.
type DayCell struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	InMonth   bool   `json:"inMonth"`
	IsToday   bool   `json:"isToday"`
	Completed bool   `json:"completed"`
	Missed    bool   `json:"missed"`
}

// MonthGrid builds the 42-cell Monday-first calendar grid for the given
// month, classifying each in-month day against the habit completions.
func MonthGrid(doc *model.Document, year int, month time.Month, today time.Time) []DayCell {
	today = dateutil.Midnight(today)
	todayKey := dateutil.DayKey(today)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-first offset of the 1st.
	lead := (int(first.Weekday()) + 6) % 7

	cells := make([]DayCell, 0, 42)
	for i := lead; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		cells = append(cells, DayCell{Date: dateutil.DayKey(d), Day: d.Day()})
	}

	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		key := dateutil.DayKey(d)
		cell := DayCell{
			Date:    key,
			Day:     day,
			InMonth: true,
			IsToday: key == todayKey,
		}
		for j := range doc.Habits {
			h := &doc.Habits[j]
			if h.CompletedOn(key) {
				cell.Completed = true
				continue
			}
			start, err := dateutil.ParseDayKey(h.StartDate)
			if err != nil {
				continue
			}
			if !d.Before(start) && d.Before(today) {
				cell.Missed = true
			}
		}
		if cell.Completed {
			cell.Missed = false
		}
		cells = append(cells, cell)
	}

	for i := 1; len(cells) < 42; i++ {
		d := first.AddDate(0, 1, i-1)
		cells = append(cells, DayCell{Date: dateutil.DayKey(d), Day: d.Day()})
	}
	return cells
}
