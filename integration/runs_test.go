package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4hrenh9it/go-testrail/config"
)

type staticRuns struct {
	runs  []Run
	err   error
	calls int
}

func (s *staticRuns) GetRuns(context.Context, int) ([]Run, error) {
	s.calls++
	return s.runs, s.err
}

func TestFindRun(t *testing.T) {
	rl := &staticRuns{runs: []Run{
		{ID: 1, Name: "Nightly"},
		{ID: 2, Name: " Nightly Build "},
		{ID: 3, Name: "NIGHTLY BUILD"},
	}}

	run, found, err := FindRun(context.Background(), rl, 7, "nightly build")
	require.NoError(t, err)
	assert.True(t, found)
	// first listed match wins
	assert.Equal(t, 2, run.ID)

	_, found, err = FindRun(context.Background(), rl, 7, "weekly")
	require.NoError(t, err)
	assert.False(t, found)

	// no caching between lookups
	assert.Equal(t, 2, rl.calls)
}

func TestFindRun_Error(t *testing.T) {
	boom := errors.New("boom")
	_, found, err := FindRun(context.Background(), &staticRuns{err: boom}, 7, "x")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestRunName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	p := config.FromMap(map[string]string{
		config.DefaultPrefix:  "API Tests",
		config.DateTimeFormat: "dd/MM/yyyy HH:mm",
	}, nil)

	assert.Equal(t, "CI - 4521", RunName(p, env(map[string]string{
		config.BuildNumber:     "4521",
		config.BuildDefinition: "CI",
	}), now))
	assert.Equal(t, "API Tests 05/03/2024 14:07", RunName(p, env(nil), now))
	assert.Equal(t, "Automated Run 2024-03-05 14:07:09", RunName(config.FromMap(nil, nil), env(nil), now))
}

func TestJavaLayout(t *testing.T) {
	tests := map[string]string{
		"yyyy-MM-dd HH:mm:ss": "2006-01-02 15:04:05",
		"dd/MM/yy hh:mm a":    "02/01/06 03:04 PM",
		"yyyyMMdd'T'HHmmss":   "20060102T150405",
		"EEE, d MMM yyyy":     "Mon, 2 Jan 2006",
		"EEEE MMMM":           "Monday January",
		"HH:mm:ss.SSS Z":      "15:04:05.000 -0700",
		"'at' h 'o''clock'":   "at 3 o'clock",
		"''yy''":              "'06'",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, JavaLayout(in), in)
	}
}
