package quote

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/store"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	st, err := store.Open(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local))
	return NewService(st, config.Default(), clk), clk
}

func TestDaily_StableWithinDayRotatesAcrossDays(t *testing.T) {
	svc, clk := newTestService(t)

	first := svc.Daily()
	assert.Equal(t, "2024-05-10", first.Date)
	assert.NotEmpty(t, first.Text)

	clk.Advance(6 * time.Hour)
	assert.Equal(t, first, svc.Daily())

	seen := map[string]bool{first.Text: true}
	for i := 0; i < 4; i++ {
		clk.AdvanceDays(1)
		seen[svc.Daily().Text] = true
	}
	// Five configured quotes, five consecutive days: full rotation.
	assert.Len(t, seen, 5)
}

func TestFavorites_AddDedupeRemove(t *testing.T) {
	svc, _ := newTestService(t)

	fq, err := svc.AddFavorite("  Chi si ferma è perduto.  ", "Anonimo")
	require.NoError(t, err)
	assert.Equal(t, "Chi si ferma è perduto.", fq.Text)
	assert.NotEmpty(t, fq.ID)

	_, err = svc.AddFavorite("Chi si ferma è perduto.", "Anonimo")
	assert.ErrorIs(t, err, ErrDuplicateQuote)

	// Same text, different author is a different quote.
	_, err = svc.AddFavorite("Chi si ferma è perduto.", "Altro")
	require.NoError(t, err)
	assert.Len(t, svc.Favorites(), 2)

	require.NoError(t, svc.RemoveFavorite(fq.ID))
	assert.Len(t, svc.Favorites(), 1)

	assert.ErrorIs(t, svc.RemoveFavorite("missing"), ErrQuoteNotFound)
	_, err = svc.AddFavorite("   ", "X")
	assert.ErrorIs(t, err, ErrEmptyQuote)
}
