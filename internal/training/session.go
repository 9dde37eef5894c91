package training

import (
	"fmt"
	"time"

	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/selection"
)

// Session is the aggregate state of one training run. The selection always
// belongs to the trait at the cursor.
type Session struct {
	id        string
	traits    []model.TraitUnit
	cursor    int
	selection *selection.Set
	results   map[string]model.TrainingResult
	project   model.ProjectMetadata
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Cursor returns the index of the current trait.
func (s *Session) Cursor() int { return s.cursor }

// Stage is completed exactly when the cursor has passed the last trait.
func (s *Session) Stage() model.Stage {
	if s.cursor >= len(s.traits) {
		return model.StageCompleted
	}
	return model.StageTraining
}

// Current returns the trait at the cursor.
func (s *Session) Current() (model.TraitUnit, bool) {
	if s.cursor < 0 || s.cursor >= len(s.traits) {
		return model.TraitUnit{}, false
	}
	return s.traits[s.cursor], true
}

// Traits returns a copy of the trait list.
func (s *Session) Traits() []model.TraitUnit {
	out := make([]model.TraitUnit, len(s.traits))
	copy(out, s.traits)
	return out
}

// Selected returns the current selection in insertion order.
func (s *Session) Selected() []int { return s.selection.IDs() }

// IsSelected reports whether tokenID is in the current selection.
func (s *Session) IsSelected(tokenID int) bool { return s.selection.Contains(tokenID) }

// TraitCount returns the length of the trait list.
func (s *Session) TraitCount() int { return len(s.traits) }

// Results returns the saved results keyed by trait key.
func (s *Session) Results() map[string]model.TrainingResult {
	out := make(map[string]model.TrainingResult, len(s.results))
	for k, r := range s.results {
		out[k] = r
	}
	return out
}

// Project returns the pass-through project metadata.
func (s *Session) Project() model.ProjectMetadata { return s.project }

func (s *Session) advance() {
	s.cursor++
	s.selection.Clear()
}

func (s *Session) clone() *Session {
	results := make(map[string]model.TrainingResult, len(s.results))
	for k, r := range s.results {
		results[k] = r
	}
	return &Session{
		id:        s.id,
		traits:    s.traits,
		cursor:    s.cursor,
		selection: selection.New(s.selection.IDs()...),
		results:   results,
		project:   s.project,
	}
}

func (s *Session) progress(at time.Time) *model.StoredProgress {
	return &model.StoredProgress{
		SessionID:         s.id,
		Timestamp:         at.UTC(),
		Stage:             s.Stage(),
		CurrentTraitIndex: s.cursor,
		Selection:         s.selection.IDs(),
		TrainingResults:   s.Results(),
		AllTraits:         s.Traits(),
		ProjectData:       s.project,
	}
}

func sessionFromProgress(p *model.StoredProgress) (*Session, error) {
	if len(p.AllTraits) == 0 {
		return nil, fmt.Errorf("stored progress %s has no traits", p.SessionID)
	}
	if p.CurrentTraitIndex < 0 || p.CurrentTraitIndex > len(p.AllTraits) {
		return nil, fmt.Errorf("stored progress %s: cursor %d out of range", p.SessionID, p.CurrentTraitIndex)
	}
	results := make(map[string]model.TrainingResult, len(p.TrainingResults))
	for k, r := range p.TrainingResults {
		results[k] = r
	}
	s := &Session{
		id:        p.SessionID,
		traits:    p.AllTraits,
		cursor:    p.CurrentTraitIndex,
		selection: selection.New(),
		results:   results,
		project:   p.ProjectData,
	}
	if s.Stage() == model.StageTraining {
		s.selection = selection.New(p.Selection...)
	}
	return s, nil
}
