package Progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tracker/Models"
)

func TestSubmitDayInvalidDate(t *testing.T) {
	e := newTestEngine(t)
	err := e.SubmitDay(testStudent, "05-03-2025", map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSubmitDayRejectsNonNumericValue(t *testing.T) {
	e := newTestEngine(t)
	err := e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugActualMathPoints: "twelve",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, Models.SlugActualMathPoints, validationErr.Slug)

	// Nothing was written
	var count int64
	e.DB.Model(&Models.DailyReport{}).Where("user_id = ?", testStudent).Count(&count)
	assert.Zero(t, count)
}

// The end-to-end carry-forward scenario: day 2 inherits the word count, the
// default rate stays applicable, and the delta is the difference of the
// accumulated percents.
func TestSubmitDayCarryForwardScenario(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugWordCount:                 "50000",
		Models.SlugAccumulatedReadingPercent: "10",
	}))

	day1 := loadReport(t, e, "2025-03-03")
	require.NotNil(t, day1.WordCount)
	assert.Equal(t, 50000, *day1.WordCount)
	require.NotNil(t, day1.ExpectedWeeklyReadingRate)
	assert.Equal(t, testDefaultRate, *day1.ExpectedWeeklyReadingRate)
	require.NotNil(t, day1.DailyReadingPercent)
	assert.Equal(t, 10.0, *day1.DailyReadingPercent)

	require.NoError(t, e.SubmitDay(testStudent, "2025-03-04", map[string]interface{}{
		Models.SlugAccumulatedReadingPercent: "25",
	}))

	day2 := loadReport(t, e, "2025-03-04")
	require.NotNil(t, day2.WordCount)
	assert.Equal(t, 50000, *day2.WordCount)
	require.NotNil(t, day2.ExpectedDailyReadingPercent)
	assert.Equal(t, 10.0, *day2.ExpectedDailyReadingPercent)
	require.NotNil(t, day2.DailyReadingPercent)
	assert.Equal(t, 15.0, *day2.DailyReadingPercent)
}

func TestSubmitDayIdempotentResubmission(t *testing.T) {
	e := newTestEngine(t)
	payload := map[string]interface{}{
		Models.SlugWordCount:                 "50000",
		Models.SlugAccumulatedReadingPercent: "10",
		Models.SlugActualMathPoints:          "12",
		Models.SlugBookTitle:                 "Matilda",
	}

	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", payload))
	first := loadReport(t, e, "2025-03-03")

	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", payload))
	second := loadReport(t, e, "2025-03-03")

	var count int64
	e.DB.Model(&Models.DailyReport{}).Where("user_id = ?", testStudent).Count(&count)
	assert.EqualValues(t, 1, count)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, *first.DailyReadingPercent, *second.DailyReadingPercent)
	assert.Equal(t, *first.AccumulatedWeeklyReadingPercent, *second.AccumulatedWeeklyReadingPercent)
	assert.Equal(t, *first.WordCount, *second.WordCount)
	assert.Equal(t, *first.BookTitle, *second.BookTitle)
}

func TestSubmitDayWordCountNeverDefaultsToZero(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugAccumulatedReadingPercent: "10",
	}))

	report := loadReport(t, e, "2025-03-03")
	assert.Nil(t, report.WordCount)
	assert.Nil(t, report.ExpectedWeeklyReadingPercent)
	assert.Nil(t, report.ExpectedDailyReadingPercent)
}

func TestSubmitDayKeepsExplicitRate(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugExpectedWeeklyReadingRate: "42000",
		Models.SlugWordCount:                 "42000",
	}))

	report := loadReport(t, e, "2025-03-03")
	require.NotNil(t, report.ExpectedWeeklyReadingRate)
	assert.Equal(t, 42000, *report.ExpectedWeeklyReadingRate)
	require.NotNil(t, report.ExpectedWeeklyReadingPercent)
	assert.Equal(t, 100.0, *report.ExpectedWeeklyReadingPercent)

	// Later days inherit the explicit rate, not the default
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-04", map[string]interface{}{}))
	next := loadReport(t, e, "2025-03-04")
	require.NotNil(t, next.ExpectedWeeklyReadingRate)
	assert.Equal(t, 42000, *next.ExpectedWeeklyReadingRate)
}

func TestSubmitDayBookChangeResetsDelta(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "90",
	}))
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-04", map[string]interface{}{
		Models.SlugBookTitle:                 "The Hobbit",
		Models.SlugAccumulatedReadingPercent: "5",
	}))

	report := loadReport(t, e, "2025-03-04")
	require.NotNil(t, report.DailyReadingPercent)
	assert.Equal(t, 5.0, *report.DailyReadingPercent)
}

func TestSubmitDayDeltaNeverNegativeSameBook(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "30",
	}))
	// Manual correction downward
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-04", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "20",
	}))

	report := loadReport(t, e, "2025-03-04")
	require.NotNil(t, report.DailyReadingPercent)
	assert.Equal(t, 0.0, *report.DailyReadingPercent)
}

func TestSubmitDayWeeklyAccumulationResetsOnMonday(t *testing.T) {
	e := newTestEngine(t)
	// Wednesday and Thursday of the prior week
	require.NoError(t, e.SubmitDay(testStudent, "2025-02-26", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "10",
	}))
	require.NoError(t, e.SubmitDay(testStudent, "2025-02-27", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "25",
	}))

	thursday := loadReport(t, e, "2025-02-27")
	require.NotNil(t, thursday.AccumulatedWeeklyReadingPercent)
	assert.Equal(t, 25.0, *thursday.AccumulatedWeeklyReadingPercent)

	// Monday of the next week starts a fresh weekly count
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		Models.SlugBookTitle:                 "Matilda",
		Models.SlugAccumulatedReadingPercent: "30",
	}))
	monday := loadReport(t, e, "2025-03-03")
	require.NotNil(t, monday.AccumulatedWeeklyReadingPercent)
	assert.Equal(t, 5.0, *monday.AccumulatedWeeklyReadingPercent)
	require.NotNil(t, monday.DailyReadingPercent)
	assert.Equal(t, 5.0, *monday.DailyReadingPercent)
}

func TestSubmitDayStoresCustomFields(t *testing.T) {
	e := newTestEngine(t)
	addCustomDefinition(t, e, "journal", "Journal", Models.FieldTypeText)
	addCustomDefinition(t, e, "piano_minutes", "Piano (mins)", Models.FieldTypeNumber)

	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		"journal":       "three sentences about dragons",
		"piano_minutes": "25",
	}))

	report := loadReport(t, e, "2025-03-03")
	assert.Equal(t, "three sentences about dragons", report.FieldValue("journal"))
	assert.Equal(t, 25, CoerceNumeric(report.FieldValue("piano_minutes")))

	// Custom fields are daily events: resubmitting without them clears them
	require.NoError(t, e.SubmitDay(testStudent, "2025-03-03", map[string]interface{}{
		"journal": "rewritten entry",
	}))
	report = loadReport(t, e, "2025-03-03")
	assert.Equal(t, "rewritten entry", report.FieldValue("journal"))
	assert.Nil(t, report.FieldValue("piano_minutes"))
}
