package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sporadisk/weekclock/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWeek = timesheet.WeekOf(time.Date(2020, time.February, 24, 0, 0, 0, 0, time.UTC))

func day(d int) time.Time {
	return time.Date(2020, time.February, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "weekclock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreWorkedTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, day(25), 4*time.Hour, "morning"))
	require.NoError(t, store.Add(ctx, day(25), 3*time.Hour+30*time.Minute, "afternoon"))
	require.NoError(t, store.Add(ctx, day(24), 8*time.Hour, ""))
	require.NoError(t, store.Add(ctx, day(21), 6*time.Hour, "previous week"))
	require.NoError(t, store.Add(ctx, day(29), 2*time.Hour, "saturday"))

	records, err := store.WorkedTime(ctx, testWeek)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Date.Equal(day(24)))
	assert.Equal(t, 8*time.Hour, records[0].WorkTime)
	assert.True(t, records[1].Date.Equal(day(25)))
	assert.Equal(t, 7*time.Hour+30*time.Minute, records[1].WorkTime)

	_, err = timesheet.Assemble(testWeek, records)
	require.NoError(t, err)
}

func TestStoreSetGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, day(26))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Add(ctx, day(26), time.Hour, ""))
	require.NoError(t, store.Add(ctx, day(26), time.Hour, ""))
	require.NoError(t, store.Set(ctx, day(26), 6*time.Hour+15*time.Minute, "corrected"))

	worked, err := store.Get(ctx, day(26))
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour+15*time.Minute, worked)

	require.NoError(t, store.Delete(ctx, day(26)))
	assert.ErrorIs(t, store.Delete(ctx, day(26)), ErrNotFound)
}

func TestStoreMalformedDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO work_log (day, minutes, created_at) VALUES ('2020-02-25x', 60, '')`)
	require.NoError(t, err)

	_, err = store.WorkedTime(ctx, testWeek)
	var die *timesheet.DataIntegrityError
	assert.True(t, errors.As(err, &die), "expected a DataIntegrityError, got %v", err)
}
