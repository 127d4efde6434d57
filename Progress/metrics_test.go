package Progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedDailyReadingPercent(t *testing.T) {
	percent := ExpectedDailyReadingPercent(intPtr(35000), intPtr(50000))
	require.NotNil(t, percent)
	assert.Equal(t, 10.0, *percent)

	// No clamping: fast readers exceed 100
	percent = ExpectedDailyReadingPercent(intPtr(70000), intPtr(5000))
	require.NotNil(t, percent)
	assert.Equal(t, 200.0, *percent)

	assert.Nil(t, ExpectedDailyReadingPercent(nil, intPtr(50000)))
	assert.Nil(t, ExpectedDailyReadingPercent(intPtr(35000), nil))
	assert.Nil(t, ExpectedDailyReadingPercent(intPtr(35000), intPtr(0)))
}

func TestExpectedWeeklyReadingPercent(t *testing.T) {
	percent := ExpectedWeeklyReadingPercent(intPtr(35000), intPtr(50000))
	require.NotNil(t, percent)
	assert.Equal(t, 70.0, *percent)

	assert.Nil(t, ExpectedWeeklyReadingPercent(intPtr(35000), intPtr(0)))
}

func TestExpectedMathTime(t *testing.T) {
	assert.Equal(t, 60, ExpectedMathTime(30))
	assert.Equal(t, 0, ExpectedMathTime(0))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, RoundHalfUp(2.5))
	assert.Equal(t, 2, RoundHalfUp(2.4))
	assert.Equal(t, 11, RoundHalfUp(10.5))
	assert.Equal(t, 10, RoundHalfUp(10.0))
}

func TestDailyReadingDeltaSameBook(t *testing.T) {
	delta := DailyReadingDelta(floatPtr(25), strPtr("Matilda"), floatPtr(10), strPtr("Matilda"))
	assert.Equal(t, 15.0, delta)
}

func TestDailyReadingDeltaNeverNegative(t *testing.T) {
	// Manual correction lowered the accumulated value
	delta := DailyReadingDelta(floatPtr(5), strPtr("Matilda"), floatPtr(10), strPtr("Matilda"))
	assert.Equal(t, 0.0, delta)
}

func TestDailyReadingDeltaBookChangeResets(t *testing.T) {
	delta := DailyReadingDelta(floatPtr(5), strPtr("The Hobbit"), floatPtr(90), strPtr("Matilda"))
	assert.Equal(t, 5.0, delta)

	// First book ever counts the same way
	delta = DailyReadingDelta(floatPtr(5), strPtr("The Hobbit"), floatPtr(90), nil)
	assert.Equal(t, 5.0, delta)
}

func TestDailyReadingDeltaNoHistory(t *testing.T) {
	delta := DailyReadingDelta(floatPtr(8), nil, nil, nil)
	assert.Equal(t, 8.0, delta)

	assert.Equal(t, 0.0, DailyReadingDelta(nil, strPtr("Matilda"), floatPtr(10), strPtr("Matilda")))
}
