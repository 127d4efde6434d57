package Progress

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"Tracker/Models"

	"gorm.io/gorm"
)

// DayProgress is one Monday-Sunday row of the weekly view. The expected
// reading percent is presented rounded half-up; the actual delta stays
// unrounded so the weekly total can be rounded once at the end.
type DayProgress struct {
	Date                        string  `json:"date"`
	Day                         string  `json:"day"`
	ExpectedMathPoints          int     `json:"expected_math_points"`
	ActualMathPoints            int     `json:"actual_math_points"`
	MathTime                    int     `json:"math_time"`
	ExpectedMathTime            int     `json:"expected_math_time"`
	DailyReadingPercent         float64 `json:"daily_reading_percent"`
	ExpectedDailyReadingPercent int     `json:"expected_daily_reading_percent"`
}

type WeeklySummary struct {
	TotalActualMathPoints       int `json:"total_actual_math_points"`
	TotalExpectedMathPoints     int `json:"total_expected_math_points"`
	TotalActualReadingPercent   int `json:"total_actual_reading_percent"`
	TotalExpectedReadingPercent int `json:"total_expected_reading_percent"`
}

// TextTaskData carries per-slug labels, the Mon..Sun completion matrix and
// the weekly plan values for the student's custom text tasks.
type TextTaskData struct {
	Labels     map[string]string            `json:"labels"`
	Completion map[string]map[string]bool   `json:"completion"`
	Plan       map[string]map[string]string `json:"plan"`
}

type WeeklyProgressSummary struct {
	DailyData []DayProgress `json:"dailyData"`
	Summary   WeeklySummary `json:"summary"`
	TextTasks TextTaskData  `json:"textTasks"`
}

type planRow struct {
	DayOfWeek string
	Slug      string
	Value     string
}

// WeeklyProgress aggregates the Monday-Sunday week containing date into a
// single summary: per-day rows, weekly totals and the text-task completion
// matrix. The summary is recomputed from storage on every call.
func (e *Engine) WeeklyProgress(ownerID uint, date string) (*WeeklyProgressSummary, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	monday := MondayOf(day)
	sunday := monday.AddDate(0, 0, 6)
	dayBeforeMonday := monday.AddDate(0, 0, -1)

	// Custom text tasks in scope for this student
	var textDefs []Models.TaskDefinition
	err = e.DB.
		Where("student_id = ? AND field_type = ? AND is_default = ? AND is_active = ?",
			ownerID, Models.FieldTypeText, false, true).
		Order("created_at ASC").
		Find(&textDefs).Error
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(textDefs))
	textSlugs := make([]string, 0, len(textDefs))
	for _, def := range textDefs {
		labels[def.Slug] = def.Label
		textSlugs = append(textSlugs, def.Slug)
	}

	mathPlan, textPlan, err := e.loadWeeklyPlan(ownerID, textSlugs)
	if err != nil {
		return nil, err
	}

	// All report rows inside the week, keyed by date
	var weekReports []Models.DailyReport
	err = e.DB.
		Where("user_id = ? AND date BETWEEN ? AND ?",
			ownerID, monday.Format(DateLayout), sunday.Format(DateLayout)).
		Order("date ASC").
		Find(&weekReports).Error
	if err != nil {
		return nil, err
	}
	reportsByDate := make(map[string]*Models.DailyReport, len(weekReports))
	for i := range weekReports {
		reportsByDate[weekReports[i].Date] = &weekReports[i]
	}

	// Carry-in context: the most recent report before the week supplies the
	// starting accumulated percent, title, rate and word count.
	var prevRead *float64
	var prevTitle *string
	var rate, wordCount *int

	var contextRow Models.DailyReport
	err = e.DB.
		Where("user_id = ? AND date <= ?", ownerID, dayBeforeMonday.Format(DateLayout)).
		Order("date DESC").
		First(&contextRow).Error
	switch {
	case err == nil:
		prevRead = contextRow.AccumulatedReadingPercent
		prevTitle = contextRow.BookTitle
		rate = contextRow.ExpectedWeeklyReadingRate
		wordCount = contextRow.WordCount
	case errors.Is(err, gorm.ErrRecordNotFound):
		zero := 0.0
		prevRead = &zero
	default:
		return nil, err
	}
	if rate == nil {
		everSet, err := e.rateEverSet(ownerID)
		if err != nil {
			return nil, err
		}
		if !everSet {
			fallback := e.DefaultRate
			rate = &fallback
		}
	}

	completion := make(map[string]map[string]bool, len(textSlugs))
	for _, slug := range textSlugs {
		completion[slug] = map[string]bool{
			"Mon": false, "Tue": false, "Wed": false, "Thu": false,
			"Fri": false, "Sat": false, "Sun": false,
		}
	}

	summary := WeeklySummary{}
	totalActualReading := 0.0
	totalExpectedReading := 0
	dailyData := make([]DayProgress, 0, 7)

	for i := 0; i < 7; i++ {
		current := monday.AddDate(0, 0, i)
		dateKey := current.Format(DateLayout)
		weekdayFull := current.Weekday().String()
		weekdayShort := weekdayFull[:3]

		report := reportsByDate[dateKey]

		actualPoints := 0
		mathTime := 0
		var title *string
		accumulated := prevRead
		if report != nil {
			if report.ActualMathPoints != nil {
				actualPoints = *report.ActualMathPoints
			}
			if report.MathTime != nil {
				mathTime = *report.MathTime
			}
			if report.AccumulatedReadingPercent != nil {
				accumulated = report.AccumulatedReadingPercent
			}
			title = report.BookTitle

			// Explicit rate or word count becomes the running value for the
			// rest of the scan
			if report.ExpectedWeeklyReadingRate != nil {
				rate = report.ExpectedWeeklyReadingRate
			}
			if report.WordCount != nil {
				wordCount = report.WordCount
			}
		}

		expectedReading := 0
		if percent := ExpectedDailyReadingPercent(rate, wordCount); percent != nil {
			expectedReading = RoundHalfUp(*percent)
		}

		expectedPoints := mathPlan[weekdayFull]
		delta := DailyReadingDelta(accumulated, title, prevRead, prevTitle)

		prevRead = accumulated
		prevTitle = title

		for _, slug := range textSlugs {
			if report == nil {
				continue
			}
			value := report.FieldValue(slug)
			if value != nil && strings.TrimSpace(fmt.Sprintf("%v", value)) != "" {
				completion[slug][weekdayShort] = true
			}
		}

		summary.TotalActualMathPoints += actualPoints
		summary.TotalExpectedMathPoints += expectedPoints
		totalActualReading += delta
		totalExpectedReading += expectedReading

		dailyData = append(dailyData, DayProgress{
			Date:                        dateKey,
			Day:                         weekdayShort,
			ExpectedMathPoints:          expectedPoints,
			ActualMathPoints:            actualPoints,
			MathTime:                    mathTime,
			ExpectedMathTime:            ExpectedMathTime(expectedPoints),
			DailyReadingPercent:         delta,
			ExpectedDailyReadingPercent: expectedReading,
		})
	}

	// The two reading totals are rounded once, here at the very end
	summary.TotalActualReadingPercent = int(math.Round(totalActualReading))
	summary.TotalExpectedReadingPercent = totalExpectedReading

	plan := make(map[string]map[string]string, len(textSlugs))
	for _, slug := range textSlugs {
		plan[slug] = textPlan[slug]
	}

	return &WeeklyProgressSummary{
		DailyData: dailyData,
		Summary:   summary,
		TextTasks: TextTaskData{
			Labels:     labels,
			Completion: completion,
			Plan:       plan,
		},
	}, nil
}

// loadWeeklyPlan loads the plan entries for expected_math_points and the
// given text slugs. Missing or unparsable math values default to 0; text
// values are stored trimmed, the empty string meaning "not planned".
func (e *Engine) loadWeeklyPlan(ownerID uint, textSlugs []string) (map[string]int, map[string]map[string]string, error) {
	mathPlan := make(map[string]int)
	textPlan := make(map[string]map[string]string, len(textSlugs))
	for _, slug := range textSlugs {
		textPlan[slug] = make(map[string]string)
	}

	slugs := append([]string{Models.SlugExpectedMathPoints}, textSlugs...)

	var rows []planRow
	err := e.DB.
		Table("task_entries").
		Select("task_entries.day_of_week, task_definitions.slug, task_entries.value").
		Joins("JOIN task_definitions ON task_definitions.id = task_entries.task_def_id").
		Where("task_entries.student_id = ? AND task_definitions.slug IN ?", ownerID, slugs).
		Where("task_entries.deleted_at IS NULL AND task_definitions.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	for _, row := range rows {
		if row.Slug == Models.SlugExpectedMathPoints {
			points, err := strconv.Atoi(strings.TrimSpace(row.Value))
			if err != nil {
				points = 0
			}
			mathPlan[row.DayOfWeek] = points
			continue
		}
		if _, ok := textPlan[row.Slug]; !ok {
			textPlan[row.Slug] = make(map[string]string)
		}
		textPlan[row.Slug][row.DayOfWeek] = strings.TrimSpace(row.Value)
	}
	return mathPlan, textPlan, nil
}

// rateEverSet reports whether any report of the student ever recorded an
// explicit weekly reading rate.
func (e *Engine) rateEverSet(ownerID uint) (bool, error) {
	var count int64
	err := e.DB.Model(&Models.DailyReport{}).
		Where("user_id = ? AND expected_weekly_reading_rate IS NOT NULL", ownerID).
		Count(&count).Error
	return count > 0, err
}
