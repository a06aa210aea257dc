package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30}, got)

	got, err = ParseTimeOfDay(" 23:59 ")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 59}, got)

	for _, bad := range []string{"", "8", "24:00", "12:60", "-1:00", "ab:cd"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "08:05", TimeOfDay{Hour: 8, Minute: 5}.String())
	assert.Equal(t, "20:30", TimeOfDay{Hour: 20, Minute: 30}.String())
}

func TestEncodeTimesOfDayCanonical(t *testing.T) {
	// Unsorted input with a duplicate encodes sorted and de-duplicated.
	raw, err := EncodeTimesOfDay([]TimeOfDay{
		{Hour: 20}, {Hour: 8, Minute: 30}, {Hour: 20}, {Hour: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, `["08:00","08:30","20:00"]`, raw)

	raw, err = EncodeTimesOfDay(nil)
	require.NoError(t, err)
	assert.Equal(t, "", raw)
}

func TestDecodeTimesOfDay(t *testing.T) {
	times, ok := DecodeTimesOfDay(`["08:00","20:00"]`)
	require.True(t, ok)
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 20}}, times)

	// Empty column means "no specific times", not corruption.
	times, ok = DecodeTimesOfDay("")
	assert.True(t, ok)
	assert.Nil(t, times)

	// Corruption reports false so callers fall back to defaults.
	for _, bad := range []string{"not json", `["25:00"]`, `[8,20]`} {
		_, ok := DecodeTimesOfDay(bad)
		assert.False(t, ok, "input %q", bad)
	}
}
