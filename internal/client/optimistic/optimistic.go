// Package optimistic applies list mutations locally before the remote store
// confirms them, then reconciles: the change is kept on success and rolled
// back on failure. One generic sequencer replaces the per-entity copies of
// this logic the console grew over time; entity kinds differ only by the
// small Adapter they plug in.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/seqcode"
)

// Gateway is the remote CRUD collaborator for one entity kind.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, rec T) (T, error)
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Entry is one committed change reported to the audit sink.
type Entry struct {
	LoggedAt    string `json:"logged_at"` // wall clock at call time, YYYY-MM-DD HH:MM
	ActorTeam   string `json:"actor_team"`
	ActorName   string `json:"actor_name"`
	Action      string `json:"action"`
	TargetCode  string `json:"target_code"`
	Description string `json:"description"`
	BeforeValue string `json:"before_value,omitempty"`
	AfterValue  string `json:"after_value,omitempty"`
	FieldLabel  string `json:"field_label,omitempty"`
	EntityTitle string `json:"entity_title,omitempty"`
}

// Sink accepts audit entries. Audit is a pure side-channel: the sequencer
// never rolls back or fails a mutation because a sink write failed.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// FieldChange names one field whose value differs between the original and
// the edited record.
type FieldChange struct {
	Label  string
	Before string
	After  string
}

// Adapter is the per-entity plug: accessors, validation, the code prefix and
// the field-by-field diff used for audit granularity.
type Adapter[T any] struct {
	Prefix  string
	ID      func(T) string
	SetID   func(*T, string)
	Code    func(T) string
	SetCode func(*T, string)
	Title   func(T) string

	// Validate checks required fields before any state change or network
	// call. Optional.
	Validate func(T) error

	// Diff lists the fields whose values differ, in display order. Each
	// change becomes its own audit entry.
	Diff func(before, after T) []FieldChange

	// Action labels recorded in the audit trail.
	CreateAction string
	UpdateAction string
	DeleteAction string
}

// Actor identifies the session user stamped on audit entries.
type Actor struct {
	Team string
	Name string
}

// ErrCancelled is returned when the user declines the batch-delete
// confirmation. No mutation has happened and the selection is kept.
var ErrCancelled = errors.New("optimistic: cancelled by user")

// Sequencer owns the local list cache for one view and keeps it consistent
// with the remote store across optimistic mutations.
type Sequencer[T any] struct {
	gw      Gateway[T]
	sink    Sink
	adapter Adapter[T]
	actor   Actor

	cache    []T
	selected map[string]bool

	now func() time.Time
}

// New wires a sequencer. sink may be nil when no audit trail is attached.
func New[T any](gw Gateway[T], sink Sink, adapter Adapter[T], actor Actor) *Sequencer[T] {
	if adapter.CreateAction == "" {
		adapter.CreateAction = "등록"
	}
	if adapter.UpdateAction == "" {
		adapter.UpdateAction = "수정"
	}
	if adapter.DeleteAction == "" {
		adapter.DeleteAction = "삭제"
	}
	return &Sequencer[T]{
		gw:       gw,
		sink:     sink,
		adapter:  adapter,
		actor:    actor,
		selected: make(map[string]bool),
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Sequencer[T]) WithClock(now func() time.Time) *Sequencer[T] {
	s.now = now
	return s
}

// Load replaces the cache with a fresh remote snapshot.
func (s *Sequencer[T]) Load(ctx context.Context) error {
	items, err := s.gw.List(ctx)
	if err != nil {
		return err
	}
	s.cache = items
	return nil
}

// Snapshot returns the current cache contents, newest insertion first.
func (s *Sequencer[T]) Snapshot() []T {
	out := make([]T, len(s.cache))
	copy(out, s.cache)
	return out
}

// SetSnapshot replaces the cache wholesale, e.g. when a parent view already
// holds the records.
func (s *Sequencer[T]) SetSnapshot(records []T) {
	s.cache = append([]T(nil), records...)
}

// Create validates rec, assigns it a candidate code and a temporary id,
// shows it in the cache immediately, then persists it. On success the
// temporary record is swapped for the server-issued one; on failure it is
// removed again.
func (s *Sequencer[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if s.adapter.Validate != nil {
		if err := s.adapter.Validate(rec); err != nil {
			return zero, err
		}
	}

	code, err := seqcode.Next(ctx, s.adapter.Prefix, s.now(), s.cacheCodes(), s.gw.CodeExists)
	if err != nil {
		return zero, err
	}
	s.adapter.SetCode(&rec, code)

	tempID := fmt.Sprintf("tmp-%d", s.now().UnixNano())
	s.adapter.SetID(&rec, tempID)
	s.cache = append([]T{rec}, s.cache...)

	// The wire record carries no identifier; the server issues the durable
	// one.
	wire := rec
	s.adapter.SetID(&wire, "")

	created, err := s.gw.Create(ctx, wire)
	if err != nil {
		s.removeFromCache(tempID)
		return zero, fmt.Errorf("create %s: %w", code, err)
	}

	s.replaceInCache(tempID, created)
	s.audit(ctx, Entry{
		Action:      s.adapter.CreateAction,
		TargetCode:  s.adapter.Code(created),
		Description: s.adapter.Title(created),
		EntityTitle: s.adapter.Title(created),
	})
	return created, nil
}

// Update applies the edited record to the cache immediately, persists it,
// and on success appends one audit entry per changed field. On failure the
// pre-edit snapshot is restored.
func (s *Sequencer[T]) Update(ctx context.Context, edited T) (T, error) {
	var zero T
	if s.adapter.Validate != nil {
		if err := s.adapter.Validate(edited); err != nil {
			return zero, err
		}
	}

	id := s.adapter.ID(edited)
	original, ok := s.findInCache(id)
	if !ok {
		return zero, fmt.Errorf("update: record %s not in cache", id)
	}

	changes := s.adapter.Diff(original, edited)
	s.replaceInCache(id, edited)

	updated, err := s.gw.Update(ctx, id, edited)
	if err != nil {
		s.replaceInCache(id, original)
		return zero, fmt.Errorf("update %s: %w", s.adapter.Code(original), err)
	}
	s.replaceInCache(id, updated)

	for _, ch := range changes {
		s.audit(ctx, Entry{
			Action:      s.adapter.UpdateAction,
			TargetCode:  s.adapter.Code(updated),
			Description: fmt.Sprintf("%s: %s → %s", ch.Label, ch.Before, ch.After),
			BeforeValue: ch.Before,
			AfterValue:  ch.After,
			FieldLabel:  ch.Label,
			EntityTitle: s.adapter.Title(updated),
		})
	}
	return updated, nil
}

// Select marks a record for batch deletion.
func (s *Sequencer[T]) Select(id string) { s.selected[id] = true }

// Deselect unmarks a record.
func (s *Sequencer[T]) Deselect(id string) { delete(s.selected, id) }

// SelectedCount reports how many records are marked.
func (s *Sequencer[T]) SelectedCount() int { return len(s.selected) }

// BatchResult classifies a batch-delete outcome.
type BatchResult int

const (
	BatchAllSucceeded BatchResult = iota
	BatchPartial
	BatchAllFailed
)

// Outcome tallies a batch delete. Partial success is an expected outcome,
// not an error state.
type Outcome struct {
	Succeeded int
	Failed    int
}

// Result maps the tallies onto the three reportable variants.
func (o Outcome) Result() BatchResult {
	switch {
	case o.Failed == 0:
		return BatchAllSucceeded
	case o.Succeeded == 0:
		return BatchAllFailed
	default:
		return BatchPartial
	}
}

// Message renders the user-facing summary for the outcome.
func (o Outcome) Message() string {
	switch o.Result() {
	case BatchAllSucceeded:
		return fmt.Sprintf("%d건 삭제 완료", o.Succeeded)
	case BatchAllFailed:
		return fmt.Sprintf("삭제 실패 (%d건)", o.Failed)
	default:
		return fmt.Sprintf("%d건 삭제, %d건 실패", o.Succeeded, o.Failed)
	}
}

// BatchDelete deletes the selected records. confirm gates the whole batch;
// declining leaves cache and selection untouched. Deletes run independently;
// all are started before any is awaited. Only the records whose delete
// succeeded leave the cache. The selection is cleared once the batch has run,
// whatever the outcome.
func (s *Sequencer[T]) BatchDelete(ctx context.Context, confirm func(count int) bool) (Outcome, error) {
	if len(s.selected) == 0 {
		return Outcome{}, nil
	}
	if confirm != nil && !confirm(len(s.selected)) {
		return Outcome{}, ErrCancelled
	}

	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = s.gw.Delete(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var outcome Outcome
	for i, id := range ids {
		if errs[i] != nil {
			outcome.Failed++
			continue
		}
		outcome.Succeeded++
		if rec, ok := s.findInCache(id); ok {
			s.audit(ctx, Entry{
				Action:      s.adapter.DeleteAction,
				TargetCode:  s.adapter.Code(rec),
				Description: s.adapter.Title(rec),
				EntityTitle: s.adapter.Title(rec),
			})
		}
		s.removeFromCache(id)
	}

	s.selected = make(map[string]bool)
	return outcome, nil
}

// audit stamps and forwards one entry. Sink failures are swallowed: the data
// change has already committed and must stand.
func (s *Sequencer[T]) audit(ctx context.Context, e Entry) {
	if s.sink == nil {
		return
	}
	e.LoggedAt = s.now().Format("2006-01-02 15:04")
	e.ActorTeam = s.actor.Team
	e.ActorName = s.actor.Name
	_ = s.sink.Record(ctx, e)
}

func (s *Sequencer[T]) cacheCodes() []string {
	codes := make([]string, 0, len(s.cache))
	for _, rec := range s.cache {
		codes = append(codes, s.adapter.Code(rec))
	}
	return codes
}

func (s *Sequencer[T]) findInCache(id string) (T, bool) {
	for _, rec := range s.cache {
		if s.adapter.ID(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (s *Sequencer[T]) replaceInCache(id string, rec T) {
	for i := range s.cache {
		if s.adapter.ID(s.cache[i]) == id {
			s.cache[i] = rec
			return
		}
	}
}

func (s *Sequencer[T]) removeFromCache(id string) {
	for i := range s.cache {
		if s.adapter.ID(s.cache[i]) == id {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			return
		}
	}
}
