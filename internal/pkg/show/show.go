// Package show is an in-memory cart show: cues laid out on pages of a grid.
package show

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/cue"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var ErrUnknownCue = errors.New("unknown cue")

type Grid struct {
	Pages, Columns, Rows int
}

// CueSpec describes a cue to be placed in the show.
type CueSpec struct {
	ID     string
	Name   string
	Media  bool
	Page   int
	Column int
	Row    int
	// Volume is initial live volume of media cue
	Volume float64

	Bindings map[string][]binding.Entry
}

type Show struct {
	grid     Grid
	bindings []binding.Entry

	mu    sync.RWMutex
	page  int
	cues  []cue.Cue
	byID  map[string]cue.Cue
	place map[string]CueSpec

	listenersMu sync.Mutex
	listeners   map[int]func(cue.Cue)
	nextID      int
}

// New builds a show, layoutBindings are bound to the show itself.
func New(grid Grid, layoutBindings []binding.Entry, specs []CueSpec) (*Show, error) {
	if grid.Pages < 1 || grid.Columns < 1 || grid.Rows < 1 {
		return nil, fmt.Errorf("invalid grid: %d pages of %dx%d", grid.Pages, grid.Columns, grid.Rows)
	}

	s := &Show{
		grid:      grid,
		bindings:  layoutBindings,
		byID:      make(map[string]cue.Cue),
		place:     make(map[string]CueSpec),
		listeners: make(map[int]func(cue.Cue)),
	}

	for _, spec := range specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("cue without id: %q", spec.Name)
		}
		if _, ok := s.byID[spec.ID]; ok {
			return nil, fmt.Errorf("duplicated cue id: %q", spec.ID)
		}
		if spec.Page < 0 || spec.Page >= grid.Pages ||
			spec.Column < 0 || spec.Column >= grid.Columns ||
			spec.Row < 0 || spec.Row >= grid.Rows {
			return nil, fmt.Errorf("cue %q placed outside of the grid: page %d, column %d, row %d", spec.ID, spec.Page, spec.Column, spec.Row)
		}

		c := newCue(s, spec)
		s.cues = append(s.cues, c)
		s.byID[spec.ID] = c
		s.place[spec.ID] = spec
	}

	return s, nil
}

func (s *Show) Grid() Grid {
	return s.grid
}

func (s *Show) Cues() []cue.Cue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]cue.Cue(nil), s.cues...)
}

func (s *Show) Cue(id string) (cue.Cue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCue, id)
	}
	return c, nil
}

// Page returns index of currently selected page.
func (s *Show) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Show) PreviousPage() {
	s.mu.Lock()
	if s.page > 0 {
		s.page--
	}
	page := s.page
	s.mu.Unlock()
	log.Info(fmt.Sprintf("page %d/%d", page+1, s.grid.Pages), logger.Info)
}

func (s *Show) NextPage() {
	s.mu.Lock()
	if s.page < s.grid.Pages-1 {
		s.page++
	}
	page := s.page
	s.mu.Unlock()
	log.Info(fmt.Sprintf("page %d/%d", page+1, s.grid.Pages), logger.Info)
}

// CuesAtColumn returns cues of the current page placed in given column, ordered by row.
func (s *Show) CuesAtColumn(column int) []cue.Cue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []cue.Cue
	for _, c := range s.cues {
		p := s.place[c.ID()]
		if p.Page == s.page && p.Column == column {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return s.place[result[i].ID()].Row < s.place[result[j].ID()].Row
	})
	return result
}

// CueAt returns cue placed on given cell of the current page.
func (s *Show) CueAt(column, row int) (cue.Cue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cues {
		p := s.place[c.ID()]
		if p.Page == s.page && p.Column == column && p.Row == row {
			return c, true
		}
	}
	return nil, false
}

func (s *Show) each(action string) {
	for _, c := range s.Cues() {
		err := c.Execute(action)
		if err != nil {
			log.Info(fmt.Sprintf("%s failed: %v", action, err), logger.Warning, zap.String("cue", c.ID()))
		}
	}
}

func (s *Show) StopAll() {
	s.each(cue.Stop)
}

// Execute runs layout action.
func (s *Show) Execute(action string) error {
	switch action {
	case cue.StopAll:
		s.StopAll()
	case cue.PauseAll:
		s.each(cue.Pause)
	case cue.ResumeAll:
		s.each(cue.Resume)
	case cue.InterruptAll:
		s.each(cue.Interrupt)
	case cue.PreviousPage:
		s.PreviousPage()
	case cue.NextPage:
		s.NextPage()
	default:
		return fmt.Errorf("%w: layout: %q", cue.ErrUnknownAction, action)
	}
	return nil
}

func (s *Show) OnStateChanged(fn func(c cue.Cue)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Show) notify(c cue.Cue) {
	s.listenersMu.Lock()
	listeners := make([]func(cue.Cue), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}

// Bindings returns binding table of the show layout and all its cues.
// Skipped entries are reported in returned error, the table is usable regardless.
func (s *Show) Bindings() (*binding.Table, error) {
	table := binding.NewTable()
	var errs []error

	err := binding.Load(table, s, s.bindings)
	if err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}

	for _, c := range s.Cues() {
		err := binding.Load(table, c, c.Bindings(cue.MIDIDomain))
		if err != nil {
			errs = append(errs, fmt.Errorf("cue %q: %w", c.ID(), err))
		}
	}

	return table, errors.Join(errs...)
}
