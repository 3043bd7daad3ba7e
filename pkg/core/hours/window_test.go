package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow_Valid(t *testing.T) {
	start, end, err := ParseWindow("08:00-17:00")
	require.NoError(t, err)
	assert.Equal(t, "08:00", start.Format("15:04"))
	assert.Equal(t, "17:00", end.Format("15:04"))
}

func TestParseWindow_Malformed(t *testing.T) {
	cases := []string{"", "08:00", "8am-5pm", "17:00-08:00", "08:00-08:00", "08:00--17:00"}
	for _, window := range cases {
		_, _, err := ParseWindow(window)
		assert.ErrorIs(t, err, ErrBadWindow, "window %q", window)
	}
}

func TestElapsed(t *testing.T) {
	gross, err := Elapsed("08:00-17:00")
	require.NoError(t, err)
	assert.Equal(t, 9.0, gross)

	gross, err = Elapsed("13:00-16:30")
	require.NoError(t, err)
	assert.Equal(t, 3.5, gross)
}

func TestShortenStart(t *testing.T) {
	shortened, err := ShortenStart("13:00-21:00", 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "14:30-21:00", shortened)
}

func TestShortenEnd(t *testing.T) {
	shortened, err := ShortenEnd("08:00-17:00", 3*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "08:00-14:00", shortened)
}

func TestShorten_PastBoundaryFails(t *testing.T) {
	_, err := ShortenEnd("08:00-10:00", 3*time.Hour)
	assert.ErrorIs(t, err, ErrBadWindow)

	_, err = ShortenStart("08:00-10:00", 2*time.Hour)
	assert.ErrorIs(t, err, ErrBadWindow)
}
