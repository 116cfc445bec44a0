package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_Shape(t *testing.T) {
	ts := Now()
	require.Len(t, ts, 20)
	assert.Equal(t, Len, len(ts))

	assert.Equal(t, byte('-'), ts[4], "year separator")
	assert.Equal(t, byte('-'), ts[7], "month separator")
	assert.Equal(t, byte('T'), ts[10], "date/time separator")
	assert.Equal(t, byte(':'), ts[13], "hour separator")
	assert.Equal(t, byte(':'), ts[16], "minute separator")
	assert.Equal(t, byte('Z'), ts[19], "must end with Z")

	for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9, 11, 12, 14, 15, 17, 18} {
		assert.True(t, ts[i] >= '0' && ts[i] <= '9', "position %d of %s", i, ts)
	}
}

func TestFormat_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2023, 10, 27, 15, 4, 5, 999_000_000, loc)
	assert.Equal(t, "2023-10-27T10:04:05Z", Format(in))
	assert.Equal(t, "x=2023-10-27T10:04:05Z", string(AppendFormat([]byte("x="), in)))
}

func TestParse_RoundTrip(t *testing.T) {
	in := time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)
	got, err := Parse(Format(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(got))

	_, err = Parse("not a timestamp")
	assert.Error(t, err)
}
