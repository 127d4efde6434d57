package Progress

import (
	"math"
)

// MathTimeRatio converts math points into expected minutes.
const MathTimeRatio = 2

// ExpectedDailyReadingPercent spreads a week's reading rate over 7 days as a
// percent of the current book. Defined only when both inputs are present and
// the word count is positive; values above 100 are valid (fast readers).
func ExpectedDailyReadingPercent(rate, wordCount *int) *float64 {
	if rate == nil || wordCount == nil || *wordCount <= 0 {
		return nil
	}
	percent := 100.0 * float64(*rate) / float64(*wordCount) / 7.0
	return &percent
}

// ExpectedWeeklyReadingPercent is the full-week variant of the same quantity.
func ExpectedWeeklyReadingPercent(rate, wordCount *int) *float64 {
	if rate == nil || wordCount == nil || *wordCount <= 0 {
		return nil
	}
	percent := 100.0 * float64(*rate) / float64(*wordCount)
	return &percent
}

// ExpectedMathTime is the fixed points-to-minutes conversion.
func ExpectedMathTime(points int) int {
	return points * MathTimeRatio
}

// RoundHalfUp rounds to the nearest integer with halves going up. Used only
// at presentation time; persisted values keep full precision.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// DailyReadingDelta computes the day-over-day reading delta from the running
// accumulated percent and book title. A new book restarts the count, so its
// delta is the raw accumulated value; within the same book the delta never
// goes negative, which absorbs manual corrections that lower the accumulated
// value. This single rule serves both the weekly scan and the submit path.
func DailyReadingDelta(accumulated *float64, title *string, prevAccumulated *float64, prevTitle *string) float64 {
	if accumulated == nil {
		return 0
	}
	switch {
	case title != nil && (prevTitle == nil || *title != *prevTitle):
		return *accumulated
	case prevAccumulated != nil:
		return math.Max(0, *accumulated-*prevAccumulated)
	default:
		return *accumulated
	}
}
