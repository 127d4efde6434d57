package Progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tracker/Models"
)

func TestResolveEffectiveLocalValueWins(t *testing.T) {
	e := newTestEngine(t)
	insertReport(t, e, "2025-03-03", func(r *Models.DailyReport) {
		r.WordCount = intPtr(40000)
	})
	insertReport(t, e, "2025-03-04", func(r *Models.DailyReport) {
		r.WordCount = intPtr(60000)
	})

	value, err := e.ResolveEffective(testStudent, "2025-03-04", Models.SlugWordCount)
	require.NoError(t, err)
	assert.Equal(t, 60000, value)
}

func TestResolveEffectiveCarriesForward(t *testing.T) {
	e := newTestEngine(t)
	insertReport(t, e, "2025-03-01", func(r *Models.DailyReport) {
		r.WordCount = intPtr(50000)
		r.BookTitle = strPtr("The Hobbit")
	})

	value, err := e.ResolveEffective(testStudent, "2025-03-05", Models.SlugWordCount)
	require.NoError(t, err)
	assert.Equal(t, 50000, value)

	title, err := e.ResolveEffective(testStudent, "2025-03-05", Models.SlugBookTitle)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", title)
}

func TestCarryForwardNeverReadsFuture(t *testing.T) {
	e := newTestEngine(t)
	insertReport(t, e, "2025-03-10", func(r *Models.DailyReport) {
		r.WordCount = intPtr(50000)
		r.ExpectedWeeklyReadingRate = intPtr(42000)
	})

	for _, slug := range CarryForwardSlugs {
		value, sourceDate, err := e.LastExplicit(testStudent, "2025-03-05", slug)
		require.NoError(t, err)
		assert.Nil(t, value, "slug %s resolved a future value", slug)
		assert.Empty(t, sourceDate)
	}

	value, err := e.ResolveEffective(testStudent, "2025-03-05", Models.SlugWordCount)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestNonAllowListedSlugsNeverCarryForward(t *testing.T) {
	e := newTestEngine(t)
	insertReport(t, e, "2025-03-03", func(r *Models.DailyReport) {
		r.ActualMathPoints = intPtr(12)
		r.MathTime = intPtr(45)
	})

	value, err := e.ResolveEffective(testStudent, "2025-03-04", Models.SlugActualMathPoints)
	require.NoError(t, err)
	assert.Nil(t, value)

	exists, fields, err := e.ResolveDay(testStudent, "2025-03-04")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, fields[Models.SlugActualMathPoints])
	assert.Nil(t, fields[Models.SlugMathTime])
}

func TestResolveDayCarriesOnlyAllowListed(t *testing.T) {
	e := newTestEngine(t)
	insertReport(t, e, "2025-03-03", func(r *Models.DailyReport) {
		r.BookTitle = strPtr("Matilda")
		r.WordCount = intPtr(40000)
		r.ExpectedWeeklyReadingRate = intPtr(35000)
		r.ActualMathPoints = intPtr(10)
		r.AccumulatedReadingPercent = floatPtr(20)
	})

	exists, fields, err := e.ResolveDay(testStudent, "2025-03-06")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "Matilda", fields[Models.SlugBookTitle])
	assert.Equal(t, 40000, fields[Models.SlugWordCount])
	assert.Equal(t, 35000, fields[Models.SlugExpectedWeeklyReadingRate])
	assert.Nil(t, fields[Models.SlugActualMathPoints])
	assert.Nil(t, fields[Models.SlugAccumulatedReadingPercent])
}

func TestResolveDayCoercesCustomNumbers(t *testing.T) {
	e := newTestEngine(t)
	addCustomDefinition(t, e, "piano_minutes", "Piano (mins)", Models.FieldTypeNumber)
	addCustomDefinition(t, e, "science_score", "Science", Models.FieldTypeNumber)

	insertReport(t, e, "2025-03-03", func(r *Models.DailyReport) {
		r.SetField("piano_minutes", "12.5")
		r.SetField("science_score", "not a number")
	})

	exists, fields, err := e.ResolveDay(testStudent, "2025-03-03")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 12.5, fields["piano_minutes"])
	assert.Nil(t, fields["science_score"])
}

func TestResolveDayInvalidDate(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.ResolveDay(testStudent, "03/05/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCoerceNumeric(t *testing.T) {
	assert.Equal(t, 42, CoerceNumeric("42"))
	assert.Equal(t, 12.5, CoerceNumeric("12.5"))
	assert.Equal(t, 7, CoerceNumeric(7))
	assert.Equal(t, 7, CoerceNumeric(7.0))
	assert.Equal(t, 7.25, CoerceNumeric(7.25))
	assert.Nil(t, CoerceNumeric("seven"))
	assert.Nil(t, CoerceNumeric("1.2.3"))
}
