// Package training drives the operator through the trait list, collecting
// example selections per trait.
//
// A Machine starts in the setup stage. Start moves it to training when the
// trait list is non-empty; each Save or Skip advances the cursor by one and
// the machine is completed once the cursor passes the last trait. Every
// mutation is persisted through the injected ProgressStore before it becomes
// visible, so a failed write leaves the machine unchanged.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/trait-trainer/internal/export"
	"github.com/rcliao/trait-trainer/internal/model"
	"github.com/rcliao/trait-trainer/internal/selection"
)

var (
	// ErrNoTraits is returned by Start when the trait list is empty.
	ErrNoTraits = errors.New("no traits found to train")
	// ErrEmptySelection is returned by Save when nothing is selected.
	ErrEmptySelection = errors.New("select at least one example image")
	// ErrNotTraining is returned by operations that need a current trait.
	ErrNotTraining = errors.New("no trait is being trained")
	// ErrNoSession is returned by Export before any session exists.
	ErrNoSession = errors.New("no training session")
)

// ProgressStore persists an in-progress session.
type ProgressStore interface {
	// Save replaces the stored progress.
	Save(ctx context.Context, p *model.StoredProgress) error
	// Load returns the stored progress, or nil if there is none.
	Load(ctx context.Context) (*model.StoredProgress, error)
	// Clear removes the stored progress.
	Clear(ctx context.Context) error
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithConfig overrides the selection guidance.
func WithConfig(c Config) Option {
	return func(m *Machine) { m.cfg = c }
}

// Machine is the training state machine. It is not safe for concurrent use.
type Machine struct {
	store   ProgressStore
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	entropy *rand.Rand

	session *Session
}

// New returns a machine in the setup stage. store may be nil, in which case
// nothing is persisted.
func New(store ProgressStore, opts ...Option) *Machine {
	m := &Machine{
		store:  store,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	m.entropy = rand.New(rand.NewSource(m.now().UnixNano()))
	return m
}

// Start replaces any existing session with a fresh one over traits. With an
// empty trait list the machine drops back to setup and returns ErrNoTraits.
func (m *Machine) Start(ctx context.Context, traits []model.TraitUnit, project model.ProjectMetadata) error {
	if len(traits) == 0 {
		if err := m.Reset(ctx); err != nil {
			return err
		}
		return ErrNoTraits
	}

	units := make([]model.TraitUnit, len(traits))
	copy(units, traits)
	s := &Session{
		id:        ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String(),
		traits:    units,
		selection: selection.New(),
		results:   make(map[string]model.TrainingResult),
		project:   project,
	}
	if err := m.commit(ctx, s); err != nil {
		return err
	}
	m.logger.Info("training started", "session_id", s.id, "traits", len(units))
	return nil
}

// Resume restores the session held by the store. It reports false when
// there is nothing to resume.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	if m.store == nil {
		return false, nil
	}
	p, err := m.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		return false, nil
	}
	s, err := sessionFromProgress(p)
	if err != nil {
		return false, err
	}
	m.session = s
	m.logger.Debug("session resumed", "session_id", s.id, "cursor", s.cursor, "traits", len(s.traits))
	return true, nil
}

// Reset discards the session and any stored progress.
func (m *Machine) Reset(ctx context.Context) error {
	if m.store != nil {
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}
	}
	m.session = nil
	return nil
}

// Stage reports the current stage.
func (m *Machine) Stage() model.Stage {
	if m.session == nil {
		return model.StageSetup
	}
	return m.session.Stage()
}

// Session returns the active session, or nil in the setup stage.
func (m *Machine) Session() *Session {
	return m.session
}

// Current returns the trait under training.
func (m *Machine) Current() (model.TraitUnit, bool) {
	if m.session == nil {
		return model.TraitUnit{}, false
	}
	return m.session.Current()
}

// Toggle flips tokenID in the current selection and reports whether it is
// now selected. Token ids are not checked against the image corpus.
func (m *Machine) Toggle(ctx context.Context, tokenID int) (bool, error) {
	if m.Stage() != model.StageTraining {
		return false, ErrNotTraining
	}
	next := m.session.clone()
	selected := next.selection.Toggle(tokenID)
	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	return selected, nil
}

// Save records the current selection as the result for the current trait,
// then advances. It fails with ErrEmptySelection when nothing is selected.
func (m *Machine) Save(ctx context.Context) (model.TrainingResult, error) {
	cur, ok := m.Current()
	if !ok {
		return model.TrainingResult{}, ErrNotTraining
	}
	if m.session.selection.Len() == 0 {
		return model.TrainingResult{}, ErrEmptySelection
	}

	next := m.session.clone()
	res := model.TrainingResult{
		Type:     cur.Type,
		Value:    cur.Value,
		Examples: next.selection.IDs(),
	}
	next.results[cur.Key] = res
	next.advance()
	if err := m.commit(ctx, next); err != nil {
		return model.TrainingResult{}, err
	}

	m.logger.Info("trait saved", "key", cur.Key, "examples", len(res.Examples), "cursor", next.cursor)
	return res, nil
}

// Skip advances past the current trait without recording a result.
func (m *Machine) Skip(ctx context.Context) (model.TraitUnit, error) {
	cur, ok := m.Current()
	if !ok {
		return model.TraitUnit{}, ErrNotTraining
	}

	next := m.session.clone()
	next.advance()
	if err := m.commit(ctx, next); err != nil {
		return model.TraitUnit{}, err
	}

	m.logger.Info("trait skipped", "key", cur.Key, "cursor", next.cursor)
	return cur, nil
}

// Export assembles the export document from the session as it stands. It is
// valid in training and completed, and does not change any state.
func (m *Machine) Export() (model.ExportDocument, error) {
	if m.session == nil {
		return model.ExportDocument{}, ErrNoSession
	}
	return export.Assemble(m.session, m.now()), nil
}

// Progress reports how far through the trait list the session is.
func (m *Machine) Progress() Progress {
	if m.session == nil {
		return Progress{}
	}
	return NewProgress(m.session.cursor, len(m.session.traits))
}

// SelectionStatus grades the size of the current selection.
func (m *Machine) SelectionStatus() SelectionStatus {
	n := 0
	if m.session != nil {
		n = m.session.selection.Len()
	}
	return m.cfg.Grade(n)
}

// Stats summarizes the saved results.
func (m *Machine) Stats() Stats {
	if m.session == nil {
		return Stats{}
	}
	return NewStats(m.session.results)
}

func (m *Machine) commit(ctx context.Context, s *Session) error {
	if m.store != nil {
		if err := m.store.Save(ctx, s.progress(m.now())); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
	}
	m.session = s
	return nil
}
