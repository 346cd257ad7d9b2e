// Package sale implements the client-side flash-sale core: the
// countdown evaluator that derives the sale phase from the goods'
// window, and the purchase flow controller that sequences captcha,
// verification, and purchase submission against backend response codes.
package sale

import (
	"fmt"
	"time"
)

// Phase is the derived status of a flash-sale window. It is a pure
// function of wall-clock time against the fixed window; it never
// regresses unless the system clock itself moves backward.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseActive
	PhaseEnded
)

// String returns the display name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "Not Started"
	case PhaseActive:
		return "Active"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// EndedRemaining is the sentinel remaining-seconds value once the
// window has closed. The display layer renders it as "Ended".
const EndedRemaining int64 = -1

// Evaluate derives the sale phase and whole remaining seconds from now
// and the goods' window. Before the window it counts down to the start,
// during it to the end, after it the sentinel.
func Evaluate(now, start, end time.Time) (Phase, int64) {
	switch {
	case now.Before(start):
		return PhaseNotStarted, int64(start.Sub(now) / time.Second)
	case now.After(end):
		return PhaseEnded, EndedRemaining
	default:
		return PhaseActive, int64(end.Sub(now) / time.Second)
	}
}

// Remaining is a seconds value decomposed for display.
type Remaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// SplitRemaining decomposes a non-negative seconds value.
func SplitRemaining(s int64) Remaining {
	return Remaining{
		Days:    s / 86400,
		Hours:   (s % 86400) / 3600,
		Minutes: (s % 3600) / 60,
		Seconds: s % 60,
	}
}

// FormatRemaining renders a remaining-seconds value as "1d 02h 03m 04s",
// omitting the day field when zero. Negative input means the sale ended.
func FormatRemaining(s int64) string {
	if s < 0 {
		return "Ended"
	}
	r := SplitRemaining(s)
	if r.Days > 0 {
		return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%02dh %02dm %02ds", r.Hours, r.Minutes, r.Seconds)
}
