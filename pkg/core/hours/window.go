package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadWindow marks an unparseable time-window string. Callers must be able
// to tell "no hours" from "bad data", so window parse failures are errors
// rather than zero values.
var ErrBadWindow = errors.New("unparseable time window")

// ParseWindow parses a "HH:MM-HH:MM" window into its two boundaries, expressed
// as clock times on a zero date. The end must be after the start.
func ParseWindow(window string) (start, end time.Time, err error) {
	parts := strings.SplitN(window, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadWindow, window)
	}
	start, err = time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadWindow, window)
	}
	end, err = time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadWindow, window)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadWindow, window)
	}
	return start, end, nil
}

// Elapsed returns the gross hours spanned by a window.
func Elapsed(window string) (float64, error) {
	start, end, err := ParseWindow(window)
	if err != nil {
		return 0, err
	}
	return end.Sub(start).Hours(), nil
}

// ShortenStart delays the window's start by d.
func ShortenStart(window string, d time.Duration) (string, error) {
	start, end, err := ParseWindow(window)
	if err != nil {
		return "", err
	}
	start = start.Add(d)
	if !end.After(start) {
		return "", fmt.Errorf("%w: %q shortened past its end", ErrBadWindow, window)
	}
	return formatWindow(start, end), nil
}

// ShortenEnd advances the window's end by d.
func ShortenEnd(window string, d time.Duration) (string, error) {
	start, end, err := ParseWindow(window)
	if err != nil {
		return "", err
	}
	end = end.Add(-d)
	if !end.After(start) {
		return "", fmt.Errorf("%w: %q shortened past its start", ErrBadWindow, window)
	}
	return formatWindow(start, end), nil
}

func formatWindow(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}
