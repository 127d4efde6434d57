package Progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Tracker/Models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitDay reconciles a day's raw submitted fields into one stored report:
// effective rate/word-count/title via carry-forward, derived reading metrics,
// then a full-row replace keyed on (student, date). The whole read-compute-
// write sequence runs under the student's lock so concurrent submissions
// cannot interleave.
func (e *Engine) SubmitDay(ownerID uint, date string, payload map[string]interface{}) error {
	day, err := ParseDate(date)
	if err != nil {
		return err
	}

	lock := e.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	var definitions []Models.TaskDefinition
	err = e.DB.
		Where("student_id = ? AND (is_active = ? OR is_default = ?)", ownerID, true, true).
		Order("is_default DESC, created_at ASC").
		Find(&definitions).Error
	if err != nil {
		return err
	}

	// Reject non-numeric values for numeric fields up front, before anything
	// is derived or written
	for _, def := range definitions {
		if !def.IsNumeric() {
			continue
		}
		raw, ok := payloadString(payload, def.Slug)
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return &ValidationError{Slug: def.Slug}
		}
	}

	// Effective word count: payload, else carried forward, else absent.
	// Never defaulted to zero; zero words is not the same as unknown.
	wordCount := payloadInt(payload, Models.SlugWordCount)
	if wordCount == nil {
		carried, _, err := e.LastExplicit(ownerID, date, Models.SlugWordCount)
		if err != nil {
			return err
		}
		wordCount = toInt(carried)
	}

	// Effective rate: payload, else carried, else the configured default when
	// no rate was ever recorded for this student
	rate := payloadInt(payload, Models.SlugExpectedWeeklyReadingRate)
	if rate == nil {
		carried, _, err := e.LastExplicit(ownerID, date, Models.SlugExpectedWeeklyReadingRate)
		if err != nil {
			return err
		}
		rate = toInt(carried)
	}
	if rate == nil {
		everSet, err := e.rateEverSet(ownerID)
		if err != nil {
			return err
		}
		if !everSet {
			fallback := e.DefaultRate
			rate = &fallback
		}
	}

	expectedWeekly := ExpectedWeeklyReadingPercent(rate, wordCount)

	// Payload-supplied expected daily percent wins over the derived one
	expectedDaily := payloadFloat(payload, Models.SlugExpectedDailyReadingPercent)
	if expectedDaily == nil && expectedWeekly != nil {
		derived := *expectedWeekly / 7.0
		expectedDaily = &derived
	}

	accumulated := payloadFloat(payload, Models.SlugAccumulatedReadingPercent)
	if accumulated == nil {
		carried, _, err := e.LastExplicit(ownerID, date, Models.SlugAccumulatedReadingPercent)
		if err != nil {
			return err
		}
		accumulated = toFloat(carried)
	}
	if accumulated == nil {
		zero := 0.0
		accumulated = &zero
	}

	var title *string
	if raw, ok := payloadString(payload, Models.SlugBookTitle); ok {
		title = &raw
	} else {
		carried, _, err := e.LastExplicit(ownerID, date, Models.SlugBookTitle)
		if err != nil {
			return err
		}
		if carried != nil {
			s := fmt.Sprintf("%v", carried)
			title = &s
		}
	}

	// Previous-day context for the delta, same title-aware rule the weekly
	// scan uses
	prevAccumulated, prevTitle, err := e.previousContext(ownerID, day.AddDate(0, 0, -1).Format(DateLayout))
	if err != nil {
		return err
	}
	delta := DailyReadingDelta(accumulated, title, prevAccumulated, prevTitle)

	// Weekly accumulation: stored deltas since Monday plus today's
	monday := MondayOf(day)
	weeklySum, err := e.readingDeltaSum(ownerID, monday.Format(DateLayout), day.AddDate(0, 0, -1).Format(DateLayout))
	if err != nil {
		return err
	}
	accumulatedWeekly := weeklySum + delta

	report := Models.DailyReport{
		UserID:                          ownerID,
		Date:                            date,
		BookTitle:                       title,
		WordCount:                       wordCount,
		ExpectedWeeklyReadingRate:       rate,
		ExpectedWeeklyReadingPercent:    expectedWeekly,
		ExpectedDailyReadingPercent:     expectedDaily,
		AccumulatedReadingPercent:       accumulated,
		DailyReadingPercent:             &delta,
		AccumulatedWeeklyReadingPercent: &accumulatedWeekly,
		ExpectedMathPoints:              payloadIntDefault(payload, Models.SlugExpectedMathPoints),
		ActualMathPoints:                payloadIntDefault(payload, Models.SlugActualMathPoints),
		MathTime:                        payloadIntDefault(payload, Models.SlugMathTime),
	}

	// Custom fields keep only what this submission carries; they are daily
	// events and never inherit yesterday's values
	for _, def := range definitions {
		if def.IsDefault {
			continue
		}
		raw, ok := payloadString(payload, def.Slug)
		if !ok {
			continue
		}
		if def.IsNumeric() {
			report.SetField(def.Slug, CoerceNumeric(raw))
		} else {
			report.SetField(def.Slug, raw)
		}
	}

	return e.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			UpdateAll: true,
		}).Create(&report).Error
	})
}

// previousContext loads the accumulated percent and title from the most
// recent report at or before date.
func (e *Engine) previousContext(ownerID uint, date string) (*float64, *string, error) {
	var row Models.DailyReport
	err := e.DB.
		Where("user_id = ? AND date <= ?", ownerID, date).
		Order("date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return row.AccumulatedReadingPercent, row.BookTitle, nil
}

// readingDeltaSum sums the stored daily reading deltas between from and to,
// inclusive.
func (e *Engine) readingDeltaSum(ownerID uint, from, to string) (float64, error) {
	var sum float64
	err := e.DB.Model(&Models.DailyReport{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", ownerID, from, to).
		Select("COALESCE(SUM(daily_reading_percent), 0)").
		Scan(&sum).Error
	return sum, err
}

func payloadString(payload map[string]interface{}, slug string) (string, bool) {
	value, ok := payload[slug]
	if !ok || value == nil {
		return "", false
	}
	raw := strings.TrimSpace(fmt.Sprintf("%v", value))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func payloadInt(payload map[string]interface{}, slug string) *int {
	raw, ok := payloadString(payload, slug)
	if !ok {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// payloadIntDefault is payloadInt with the absent case collapsing to 0, for
// the math fields that reset every day.
func payloadIntDefault(payload map[string]interface{}, slug string) *int {
	if n := payloadInt(payload, slug); n != nil {
		return n
	}
	zero := 0
	return &zero
}

func payloadFloat(payload map[string]interface{}, slug string) *float64 {
	raw, ok := payloadString(payload, slug)
	if !ok {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return &f
	}
	return nil
}

func toInt(value interface{}) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func toFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}
