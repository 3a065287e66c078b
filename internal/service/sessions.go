package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
)

// session is one client's Selection State on a catalog generation.
//
// Mutations replace the immutable selection under mu and bump version. The derived view
// is memoised for the version it was computed from.
type session struct {
	id  string
	gen *generation

	mu         sync.Mutex
	selection  papertrading.Selection
	version    uint64
	view       *model.SessionView
	lastAccess time.Time
}

// CreateSession starts a session on the current generation with every known date selected.
func (s *PaperTradingService) CreateSession() (model.SessionView, error) {
	g, err := s.generation()
	if err != nil {
		return model.SessionView{}, err
	}

	sess := &session{
		id:         uuid.New().String(),
		gen:        g,
		selection:  papertrading.NewSelection(g.catalog.Dates()),
		lastAccess: s.now(),
	}

	s.mu.Lock()
	if s.current != g {
		// A refresh installed a new generation in between.
		s.mu.Unlock()
		return s.CreateSession()
	}
	s.sessions[sess.id] = sess
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked(), nil
}

// GetSession returns the derived view of a session.
func (s *PaperTradingService) GetSession(id string) (model.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return model.SessionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastAccess = s.now()
	return sess.viewLocked(), nil
}

// DeleteSession discards a session.
func (s *PaperTradingService) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// ExpireSessions discards sessions not accessed for longer than maxIdle and returns
// how many were removed.
func (s *PaperTradingService) ExpireSessions(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastAccess.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
		log.Info().Int("expired", expired).Int("remaining", len(s.sessions)).Msg("idle sessions expired")
	}
	return expired
}

// ToggleDate flips whether date is selected.
func (s *PaperTradingService) ToggleDate(id, date string) (model.SessionView, error) {
	return s.mutate(id, func(g *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		if err := requireKnown(g, date); err != nil {
			return sel, err
		}
		return sel.ToggleDate(date), nil
	})
}

// ToggleAllDates clears the selection when every known date is selected, otherwise
// selects every known date.
func (s *PaperTradingService) ToggleAllDates(id string) (model.SessionView, error) {
	return s.mutate(id, func(g *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		return sel.ToggleAllDates(g.catalog.Dates()), nil
	})
}

// ToggleStock flips whether code is excluded on date.
func (s *PaperTradingService) ToggleStock(id, date, code string) (model.SessionView, error) {
	return s.mutate(id, func(g *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		if err := requireKnown(g, date); err != nil {
			return sel, err
		}
		return sel.ToggleStock(date, code), nil
	})
}

// ToggleAllStocks includes every stock of the day when all of them are excluded,
// otherwise excludes all of them. A day whose dataset failed to load has no stocks,
// so the toggle leaves the selection unchanged.
func (s *PaperTradingService) ToggleAllStocks(id, date string) (model.SessionView, error) {
	return s.mutate(id, func(g *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		if err := requireKnown(g, date); err != nil {
			return sel, err
		}
		var codes []string
		if d, ok := g.catalog.Dataset(date); ok {
			codes = make([]string, len(d.Stocks))
			for i, stock := range d.Stocks {
				codes[i] = stock.Code
			}
		}
		return sel.ToggleAllStocks(date, codes), nil
	})
}

// ResetExcluded removes every exclusion.
func (s *PaperTradingService) ResetExcluded(id string) (model.SessionView, error) {
	return s.mutate(id, func(_ *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		return sel.ResetExcluded(), nil
	})
}

// SelectSnapshot chooses the buy-price snapshot for date.
func (s *PaperTradingService) SelectSnapshot(id, date string, index int) (model.SessionView, error) {
	return s.mutate(id, func(g *generation, sel papertrading.Selection) (papertrading.Selection, error) {
		if err := requireKnown(g, date); err != nil {
			return sel, err
		}
		return sel.SelectSnapshot(date, index), nil
	})
}

func requireKnown(g *generation, date string) error {
	if !g.isKnown(date) {
		return fmt.Errorf("%w: %s", apperrors.ErrDayNotFound, date)
	}
	return nil
}

func (s *PaperTradingService) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return sess, nil
}

func (s *PaperTradingService) mutate(id string, op func(*generation, papertrading.Selection) (papertrading.Selection, error)) (model.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return model.SessionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := op(sess.gen, sess.selection)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.selection = next
	sess.version++
	sess.lastAccess = s.now()

	return sess.viewLocked(), nil
}

// viewLocked returns the derived view for the current version. sess.mu must be held.
func (sess *session) viewLocked() model.SessionView {
	if sess.view != nil && sess.view.Version == sess.version {
		return *sess.view
	}

	adjusted := sess.gen.adjustAll(sess.selection)
	view := &model.SessionView{
		ID:              sess.id,
		Generation:      sess.gen.id,
		Version:         sess.version,
		SelectedDates:   sess.selection.SelectedDates(),
		ExcludedStocks:  sess.selection.Excluded(),
		SnapshotIndexes: sess.selection.SnapshotIndexes(),
		Days:            sess.gen.days(adjusted),
		Summary:         sess.selection.Aggregate(adjusted),
	}
	sess.view = view
	return *view
}
