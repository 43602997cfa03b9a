package lunar

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/lunar"
)

func TestEvents2024(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	events := Events(first, last, lunar.DefaultStep)

	require.Len(t, events, 25, "12 full moons and 13 new moons")
	assert.Equal(t, "new", events[0].Phase)
	assert.Equal(t, 11, events[0].At.Day())
	assert.Equal(t, "full", events[1].Phase)
	assert.Equal(t, 25, events[1].At.Day())
	assert.Equal(t, "new", events[24].Phase)
	assert.Equal(t, 30, events[24].At.Day())

	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].At.Before(events[i].At))
		assert.NotEqual(t, events[i-1].Phase, events[i].Phase, "phases alternate")
	}
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	first, last, err := dateRange("2024-03-01", "2024-03-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, 31, last.Day())
	assert.Equal(t, 23, last.Hour())

	_, _, err = dateRange("2024-04-01", "2024-03-01", time.UTC)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, _, err = dateRange("yesterday", "", time.UTC)
	require.Error(t, err)
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := Command(nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	assert.NotNil(t, cmd.Flags().Lookup("from"))
	assert.NotNil(t, cmd.Flags().Lookup("to"))
	assert.Equal(t, "lunar", cmd.Name())
}
