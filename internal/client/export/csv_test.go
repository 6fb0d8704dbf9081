package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hw struct {
	Code     string
	Model    string
	Location string
}

var hwColumns = []Column[hw]{
	{Label: "코드", Value: func(h hw) string { return h.Code }},
	{Label: "모델", Value: func(h hw) string { return h.Model }},
	{Label: "위치", Value: func(h hw) string { return h.Location }},
}

func TestCSVStartsWithBOMAndHeader(t *testing.T) {
	out, err := CSV(hwColumns, []hw{{Code: "HW-25-001", Model: "X1", Location: "Busan"}})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "코드,모델,위치", strings.TrimSpace(lines[0]))
}

// A value containing a comma must stay one column, quoted, not split in two.
func TestCSVQuotesCommaValues(t *testing.T) {
	records := []hw{
		{Code: "HW-25-001", Model: "X1", Location: "Seoul, Korea"},
		{Code: "HW-25-002", Model: "X2", Location: "Busan"},
	}

	out, err := CSV(hwColumns, records)
	require.NoError(t, err)

	assert.Contains(t, string(out), `"Seoul, Korea"`)

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `HW-25-001,X1,"Seoul, Korea"`, strings.TrimSpace(lines[1]))
}

func TestCSVEmptySetStillHasHeader(t *testing.T) {
	out, err := CSV(hwColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, "코드,모델,위치", strings.TrimSpace(string(out[3:])))
}

func TestFilename(t *testing.T) {
	day := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "하드웨어_2025-06-02.csv", Filename("하드웨어", day))
}
