package quote

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/dateutil"
	"crescita/internal/model"
	"crescita/internal/store"
)

var (
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrDuplicateQuote = errors.New("quote already in favorites")
	ErrEmptyQuote     = errors.New("quote text is empty")
)

// Service serves the rotating daily quote from the configured pool and
// manages the persisted favorites list.
type Service struct {
	store *store.Store
	clk   clock.Clock
	pool  []config.Quote
}

func NewService(st *store.Store, cfg *config.Config, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{store: st, clk: clk, pool: cfg.Quotes}
}

// Daily is the quote of the day: a stable rotation over the pool, so every
// request on the same calendar day sees the same quote.
type Daily struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

func (s *Service) Daily() Daily {
	today := clock.Today(s.clk)
	d := Daily{Date: dateutil.DayKey(today)}
	if len(s.pool) == 0 {
		return d
	}
	idx := (today.Year()*366 + today.YearDay()) % len(s.pool)
	d.Text = s.pool[idx].Text
	d.Author = s.pool[idx].Author
	return d
}

// Favorites returns the saved quotes in insertion order.
func (s *Service) Favorites() []model.FavoriteQuote {
	return s.store.Snapshot().FavoriteQuotes
}

// AddFavorite saves a quote, refusing duplicates of the same text and
// author pair.
func (s *Service) AddFavorite(text, author string) (model.FavoriteQuote, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)
	if text == "" {
		return model.FavoriteQuote{}, ErrEmptyQuote
	}

	var added model.FavoriteQuote
	_, err := s.store.Update(func(doc *model.Document) error {
		for _, fq := range doc.FavoriteQuotes {
			if fq.Text == text && fq.Author == author {
				return ErrDuplicateQuote
			}
		}
		added = model.FavoriteQuote{
			ID:        model.QuoteID(uuid.NewString()),
			Text:      text,
			Author:    author,
			DateAdded: s.clk.Now(),
		}
		doc.FavoriteQuotes = append(doc.FavoriteQuotes, added)
		return nil
	})
	if err != nil {
		return model.FavoriteQuote{}, err
	}
	return added, nil
}

func (s *Service) RemoveFavorite(id model.QuoteID) error {
	_, err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.FavoriteQuotes {
			if doc.FavoriteQuotes[i].ID == id {
				doc.FavoriteQuotes = append(doc.FavoriteQuotes[:i], doc.FavoriteQuotes[i+1:]...)
				return nil
			}
		}
		return ErrQuoteNotFound
	})
	return err
}
