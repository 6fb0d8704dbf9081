package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Seq          int64
	Code         string
	Status       string
	Team         string
	Title        string
	RegisteredAt time.Time
}

func newRowView() *View[row] {
	return New(
		func(r row) int64 { return r.Seq },
		map[string]func(row) string{
			"status": func(r row) string { return r.Status },
			"team":   func(r row) string { return r.Team },
		},
		func(r row) string { return r.Title },
	)
}

func rows(n int) []row {
	out := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		status := "pending"
		if i%2 == 0 {
			status = "done"
		}
		out = append(out, row{Seq: int64(i), Code: "TASK", Status: status, Team: "dev", Title: "task"})
	}
	return out
}

func TestVisibleSortsDescendingBySeq(t *testing.T) {
	v := newRowView()
	v.SetSource([]row{{Seq: 1}, {Seq: 3}, {Seq: 2}})

	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Items[0].Seq)
	assert.Equal(t, int64(2), page.Items[1].Seq)
	assert.Equal(t, int64(1), page.Items[2].Seq)
}

func TestSeqTiesKeepArrivalOrder(t *testing.T) {
	v := newRowView()
	v.SetSource([]row{{Seq: 1, Title: "first"}, {Seq: 1, Title: "second"}})

	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, "first", page.Items[0].Title)
	assert.Equal(t, "second", page.Items[1].Title)
}

func TestRegisteredAtBreaksSeqTies(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)

	v := newRowView().WithRegisteredAt(func(r row) time.Time { return r.RegisteredAt })
	v.SetSource([]row{
		{Seq: 1, Title: "older", RegisteredAt: older},
		{Seq: 1, Title: "newer", RegisteredAt: newer},
	})

	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, "newer", page.Items[0].Title)
}

func TestFiltersAreConjunctive(t *testing.T) {
	v := newRowView()
	v.SetSource([]row{
		{Seq: 1, Status: "pending", Team: "dev"},
		{Seq: 2, Status: "pending", Team: "ops"},
		{Seq: 3, Status: "done", Team: "dev"},
	})

	v.SetFilter("status", "pending")
	v.SetFilter("team", "dev")

	page, err := v.Visible()
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].Seq)
}

func TestAllSentinelDisablesPredicate(t *testing.T) {
	v := newRowView()
	v.SetSource(rows(4))

	v.SetFilter("status", "done")
	v.SetFilter("status", All)

	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalRows)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	v := newRowView()
	v.SetSource([]row{
		{Seq: 1, Title: "Server rack audit"},
		{Seq: 2, Title: "monitor swap"},
	})

	v.SetSearch("RACK")

	page, err := v.Visible()
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].Seq)
}

func TestEmptyFilteredSetIsSentinel(t *testing.T) {
	v := newRowView()
	v.SetSource(rows(3))
	v.SetFilter("status", "hold")

	_, err := v.Visible()
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	v := newRowView()
	v.SetSource(rows(12))
	require.NoError(t, v.SetPageSize(5))

	v.SetPage(99)
	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, 2, page.Index)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
}

func TestPageSizeOutsideOptionSetRejected(t *testing.T) {
	v := newRowView()
	assert.Error(t, v.SetPageSize(7))
	assert.Error(t, v.SetPageSize(0))
	assert.NoError(t, v.SetPageSize(25))
}

// Changing any predicate while deep in the list must pull the user back to the
// first page, even when the old page would still have rows under the new
// filter.
func TestFilterChangeResetsPage(t *testing.T) {
	v := newRowView()
	v.SetSource(rows(40))
	require.NoError(t, v.SetPageSize(10))

	v.SetPage(3)
	page, err := v.Visible()
	require.NoError(t, err)
	require.Equal(t, 3, page.Index)

	v.SetFilter("team", "dev")
	page, err = v.Visible()
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
}

func TestPageSizeChangeResetsPage(t *testing.T) {
	v := newRowView()
	v.SetSource(rows(40))
	require.NoError(t, v.SetPageSize(10))
	v.SetPage(2)

	require.NoError(t, v.SetPageSize(5))
	page, err := v.Visible()
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
}

// Visible must be pure for unchanged input: two reads with the same state
// yield identical pages and never reorder the cached source.
func TestVisibleIsIdempotent(t *testing.T) {
	src := []row{{Seq: 2}, {Seq: 1}, {Seq: 3}}
	v := newRowView()
	v.SetSource(src)

	first, err := v.Visible()
	require.NoError(t, err)
	second, err := v.Visible()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), src[0].Seq) // source untouched
}
