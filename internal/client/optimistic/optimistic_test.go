package optimistic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type task struct {
	ID       string
	Code     string
	Title    string
	Status   string
	Assignee string
}

func taskAdapter() Adapter[task] {
	return Adapter[task]{
		Prefix:  "TASK",
		ID:      func(t task) string { return t.ID },
		SetID:   func(t *task, id string) { t.ID = id },
		Code:    func(t task) string { return t.Code },
		SetCode: func(t *task, c string) { t.Code = c },
		Title:   func(t task) string { return t.Title },
		Validate: func(t task) error {
			if t.Title == "" {
				return errors.New("title is required")
			}
			return nil
		},
		Diff: func(before, after task) []FieldChange {
			var out []FieldChange
			if before.Title != after.Title {
				out = append(out, FieldChange{Label: "제목", Before: before.Title, After: after.Title})
			}
			if before.Status != after.Status {
				out = append(out, FieldChange{Label: "상태", Before: before.Status, After: after.Status})
			}
			if before.Assignee != after.Assignee {
				out = append(out, FieldChange{Label: "담당자", Before: before.Assignee, After: after.Assignee})
			}
			return out
		},
	}
}

// stubGateway is an in-memory mutation gateway with per-operation failure
// switches.
type stubGateway struct {
	listed     []task
	taken      map[string]bool
	createErr  error
	updateErr  error
	deleteErr  map[string]error
	calls      int
	nextID     int
	lastCreate task
}

func newStubGateway() *stubGateway {
	return &stubGateway{taken: map[string]bool{}, deleteErr: map[string]error{}}
}

func (g *stubGateway) List(context.Context) ([]task, error) { return g.listed, nil }

func (g *stubGateway) Create(_ context.Context, rec task) (task, error) {
	g.calls++
	g.lastCreate = rec
	if g.createErr != nil {
		return task{}, g.createErr
	}
	g.nextID++
	rec.ID = fmt.Sprintf("srv-%d", g.nextID)
	return rec, nil
}

func (g *stubGateway) Update(_ context.Context, _ string, rec task) (task, error) {
	g.calls++
	if g.updateErr != nil {
		return task{}, g.updateErr
	}
	return rec, nil
}

func (g *stubGateway) Delete(_ context.Context, id string) error {
	g.calls++
	return g.deleteErr[id]
}

func (g *stubGateway) CodeExists(_ context.Context, code string) (bool, error) {
	return g.taken[code], nil
}

type memSink struct {
	entries []Entry
	err     error
}

func (s *memSink) Record(_ context.Context, e Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC) }
}

func seeded(gw *stubGateway, sink Sink) *Sequencer[task] {
	s := New[task](gw, sink, taskAdapter(), Actor{Team: "개발팀", Name: "김서준"})
	s.SetSnapshot([]task{
		{ID: "1", Code: "TASK-25-001", Title: "one", Status: "pending"},
		{ID: "2", Code: "TASK-25-002", Title: "two", Status: "pending"},
	})
	return s
}

func TestCreateReplacesTempRecordWithServerRecord(t *testing.T) {
	gw := newStubGateway()
	sink := &memSink{}
	s := seeded(gw, sink).WithClock(fixedClock())

	created, err := s.Create(context.Background(), task{Title: "new task", Status: "pending"})
	require.NoError(t, err)

	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, "TASK-25-003", created.Code)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "srv-1", snap[0].ID, "server record replaces the optimistic one at the head")

	// The wire record must not carry the temporary identifier.
	assert.Empty(t, gw.lastCreate.ID)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "등록", sink.entries[0].Action)
	assert.Equal(t, "TASK-25-003", sink.entries[0].TargetCode)
	assert.Equal(t, "2025-06-02 09:30", sink.entries[0].LoggedAt)
	assert.Equal(t, "김서준", sink.entries[0].ActorName)
}

func TestCreateValidationFailureMakesNoStateChangeAndNoCall(t *testing.T) {
	gw := newStubGateway()
	s := seeded(gw, nil)
	before := s.Snapshot()

	_, err := s.Create(context.Background(), task{Title: ""})
	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, gw.calls)
}

func TestCreateRollsBackOptimisticInsertOnGatewayFailure(t *testing.T) {
	gw := newStubGateway()
	gw.createErr = errors.New("backend down")
	s := seeded(gw, nil)
	before := s.Snapshot()

	_, err := s.Create(context.Background(), task{Title: "ghost"})
	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot(), "no ghost record may survive a failed create")
}

// Pre-seeding a colliding code simulates a concurrent session: the generator
// must skip 003 and commit 004.
func TestCreateRetriesPastBackendCollision(t *testing.T) {
	gw := newStubGateway()
	gw.taken["TASK-25-003"] = true
	s := seeded(gw, nil).WithClock(fixedClock())

	created, err := s.Create(context.Background(), task{Title: "raced"})
	require.NoError(t, err)
	assert.Equal(t, "TASK-25-004", created.Code)
}

func TestUpdateEmitsOneAuditEntryPerChangedField(t *testing.T) {
	gw := newStubGateway()
	sink := &memSink{}
	s := seeded(gw, sink).WithClock(fixedClock())

	edited := task{ID: "1", Code: "TASK-25-001", Title: "one", Status: "done", Assignee: "이하늘"}
	_, err := s.Update(context.Background(), edited)
	require.NoError(t, err)

	require.Len(t, sink.entries, 2, "one entry per changed field, none for untouched fields")

	assert.Equal(t, "상태", sink.entries[0].FieldLabel)
	assert.Equal(t, "pending", sink.entries[0].BeforeValue)
	assert.Equal(t, "done", sink.entries[0].AfterValue)

	assert.Equal(t, "담당자", sink.entries[1].FieldLabel)
	assert.Equal(t, "", sink.entries[1].BeforeValue)
	assert.Equal(t, "이하늘", sink.entries[1].AfterValue)
}

func TestUpdateRestoresSnapshotOnGatewayFailure(t *testing.T) {
	gw := newStubGateway()
	gw.updateErr = errors.New("rejected")
	s := seeded(gw, nil)
	before := s.Snapshot()

	edited := task{ID: "2", Code: "TASK-25-002", Title: "renamed", Status: "done"}
	_, err := s.Update(context.Background(), edited)
	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
}

func TestBatchDeletePartialSuccessAccounting(t *testing.T) {
	gw := newStubGateway()
	s := New[task](gw, nil, taskAdapter(), Actor{})

	var snap []task
	for i := 1; i <= 5; i++ {
		snap = append(snap, task{ID: fmt.Sprintf("%d", i), Code: fmt.Sprintf("TASK-25-%03d", i), Title: "t"})
	}
	s.SetSnapshot(snap)

	gw.deleteErr["2"] = errors.New("locked")
	gw.deleteErr["4"] = errors.New("locked")

	for i := 1; i <= 5; i++ {
		s.Select(fmt.Sprintf("%d", i))
	}

	outcome, err := s.BatchDelete(context.Background(), func(n int) bool { return true })
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Failed)
	assert.Equal(t, BatchPartial, outcome.Result())
	assert.Len(t, s.Snapshot(), 2, "only successfully deleted records leave the cache")
	assert.Zero(t, s.SelectedCount(), "selection cleared regardless of outcome")
}

func TestBatchDeleteDeclinedLeavesEverythingUntouched(t *testing.T) {
	gw := newStubGateway()
	s := seeded(gw, nil)
	s.Select("1")
	before := s.Snapshot()

	_, err := s.BatchDelete(context.Background(), func(int) bool { return false })
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, s.SelectedCount())
	assert.Zero(t, gw.calls)
}

func TestBatchDeleteOutcomeMessages(t *testing.T) {
	assert.Equal(t, BatchAllSucceeded, Outcome{Succeeded: 3}.Result())
	assert.Equal(t, BatchAllFailed, Outcome{Failed: 2}.Result())
	assert.NotEqual(t, Outcome{Succeeded: 3}.Message(), Outcome{Succeeded: 1, Failed: 2}.Message())
}

// A failing audit sink must never block or revert the data change.
func TestSinkFailureDoesNotRollBackMutation(t *testing.T) {
	gw := newStubGateway()
	sink := &memSink{err: errors.New("audit store down")}
	s := seeded(gw, sink)

	created, err := s.Create(context.Background(), task{Title: "kept"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, s.Snapshot()[0].ID)
}
