//go:build unit
// +build unit

package core

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDB(t *testing.T) {
	d := &MemoryDB{}
	require.Nil(t, d.Setup(&Conf{}))

	require.Nil(t, d.Append(&Record{Date: date(2025, time.March, 2), XEBScore: 0.2}))
	require.Nil(t, d.Append(&Record{Date: date(2025, time.March, 1), XEBScore: 0.1}))
	require.Nil(t, d.Append(&Record{Date: date(2025, time.March, 3), XEBScore: 0.3}))
	// same day replaces
	require.Nil(t, d.Append(&Record{Date: date(2025, time.March, 2), XEBScore: 0.25}))

	records, err := d.List()
	require.Nil(t, err)
	require.Equal(t, 3, len(records))
	assert.Equal(t, "20250301", records[0].DateKey())
	assert.Equal(t, 0.25, records[1].XEBScore)
	assert.Equal(t, "20250303", records[2].DateKey())

	records[0].XEBScore = 9
	again, err := d.List()
	require.Nil(t, err)
	assert.Equal(t, 0.1, again[0].XEBScore)

	assert.True(t, errors.Is(d.Append(nil), ErrInvalidInput))
}

func TestSortRecords(t *testing.T) {
	records := []*Record{
		{Date: date(2025, time.January, 10)},
		{Date: date(2024, time.December, 30)},
		{Date: date(2025, time.January, 2)},
	}
	SortRecords(records)
	got := []string{}
	for _, r := range records {
		got = append(got, r.DateKey())
	}
	assert.Equal(t, []string{"20241230", "20250102", "20250110"}, got)
}
