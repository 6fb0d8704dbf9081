package seqcode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2025 = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func noneExist(context.Context, string) (bool, error) { return false, nil }

func TestNextIncrementsMaxSuffix(t *testing.T) {
	existing := []string{"TASK-25-001", "TASK-25-002"}

	code, err := Next(context.Background(), "TASK", jan2025, existing, noneExist)
	require.NoError(t, err)
	assert.Equal(t, "TASK-25-003", code)
}

func TestNextIgnoresOtherPrefixesAndYears(t *testing.T) {
	existing := []string{
		"TASK-24-009", // last year
		"HW-25-120",   // other prefix
		"TASK-25-00x", // malformed
		"TASK-25-005",
	}

	code, err := Next(context.Background(), "TASK", jan2025, existing, noneExist)
	require.NoError(t, err)
	assert.Equal(t, "TASK-25-006", code)
}

func TestNextStartsAtOneForEmptyCache(t *testing.T) {
	code, err := Next(context.Background(), "CHK", jan2025, nil, noneExist)
	require.NoError(t, err)
	assert.Equal(t, "CHK-25-001", code)
}

// Simulates a concurrent session having committed 003 already: the generator
// must retry past the collision instead of returning a duplicate.
func TestNextRetriesOnRemoteCollision(t *testing.T) {
	existing := []string{"TASK-25-001", "TASK-25-002"}
	var checked []string
	exists := func(_ context.Context, code string) (bool, error) {
		checked = append(checked, code)
		return code == "TASK-25-003", nil
	}

	code, err := Next(context.Background(), "TASK", jan2025, existing, exists)
	require.NoError(t, err)
	assert.Equal(t, "TASK-25-004", code)
	assert.Equal(t, []string{"TASK-25-003", "TASK-25-004"}, checked)
}

func TestNextExhaustsRetryBudget(t *testing.T) {
	allTaken := func(context.Context, string) (bool, error) { return true, nil }

	_, err := Next(context.Background(), "TASK", jan2025, nil, allTaken)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNextPropagatesVerifyError(t *testing.T) {
	boom := errors.New("store unavailable")
	exists := func(context.Context, string) (bool, error) { return false, boom }

	_, err := Next(context.Background(), "TASK", jan2025, nil, exists)
	assert.ErrorIs(t, err, boom)
}

func TestNextWidensPast999(t *testing.T) {
	existing := []string{"KPI-25-999"}

	code, err := Next(context.Background(), "KPI", jan2025, existing, noneExist)
	require.NoError(t, err)
	assert.Equal(t, "KPI-25-1000", code)

	// Widened codes still count toward the max scan.
	code, err = Next(context.Background(), "KPI", jan2025, []string{"KPI-25-999", "KPI-25-1000"}, noneExist)
	require.NoError(t, err)
	assert.Equal(t, "KPI-25-1001", code)
}
