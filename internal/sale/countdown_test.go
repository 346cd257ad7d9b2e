package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	saleStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	saleEnd   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantPhase  Phase
		wantRemain int64
	}{
		{"well before start", saleStart.Add(-90 * time.Minute), PhaseNotStarted, 5400},
		{"one second before start", saleStart.Add(-time.Second), PhaseNotStarted, 1},
		{"exactly at start", saleStart, PhaseActive, 7200},
		{"mid sale", saleStart.Add(30 * time.Minute), PhaseActive, 5400},
		{"exactly at end", saleEnd, PhaseActive, 0},
		{"after end", saleEnd.Add(time.Minute), PhaseEnded, EndedRemaining},
		{"long after end", saleEnd.Add(48 * time.Hour), PhaseEnded, EndedRemaining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, remain := Evaluate(tt.now, saleStart, saleEnd)
			assert.Equal(t, tt.wantPhase, phase)
			assert.Equal(t, tt.wantRemain, remain)
		})
	}
}

func TestEvaluateFloorsSubSecond(t *testing.T) {
	// 1.9s before start still reports a single whole second.
	phase, remain := Evaluate(saleStart.Add(-1900*time.Millisecond), saleStart, saleEnd)
	assert.Equal(t, PhaseNotStarted, phase)
	assert.Equal(t, int64(1), remain)
}

func TestSplitRemaining(t *testing.T) {
	r := SplitRemaining(2*86400 + 3*3600 + 4*60 + 5)
	assert.Equal(t, Remaining{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}, r)
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{-1, "Ended"},
		{0, "00h 00m 00s"},
		{59, "00h 00m 59s"},
		{3661, "01h 01m 01s"},
		{86399, "23h 59m 59s"},
		{86400, "1d 00h 00m 00s"},
		{90061, "1d 01h 01m 01s"},
		{10*86400 + 3725, "10d 01h 02m 05s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Not Started", PhaseNotStarted.String())
	assert.Equal(t, "Active", PhaseActive.String())
	assert.Equal(t, "Ended", PhaseEnded.String())
}
