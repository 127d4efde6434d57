package Progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Tracker/Models"

	"gorm.io/gorm"
)

// CarryForwardSlugs are the accumulating-state fields that inherit their most
// recent explicit value when a day has none. Everything else is a daily event
// and resets to absent each day.
var CarryForwardSlugs = []string{
	Models.SlugBookTitle,
	Models.SlugWordCount,
	Models.SlugExpectedWeeklyReadingRate,
}

// columnSlugs are the default slugs backed by real daily_reports columns,
// i.e. the only ones LastExplicit is allowed to interpolate into SQL.
var columnSlugs = map[string]bool{
	Models.SlugExpectedMathPoints:              true,
	Models.SlugActualMathPoints:                true,
	Models.SlugMathTime:                        true,
	Models.SlugBookTitle:                       true,
	Models.SlugWordCount:                       true,
	Models.SlugExpectedDailyReadingPercent:     true,
	Models.SlugAccumulatedReadingPercent:       true,
	Models.SlugExpectedWeeklyReadingPercent:    true,
	Models.SlugExpectedWeeklyReadingRate:       true,
	Models.SlugDailyReadingPercent:             true,
	Models.SlugAccumulatedWeeklyReadingPercent: true,
}

func IsCarryForward(slug string) bool {
	for _, s := range CarryForwardSlugs {
		if s == slug {
			return true
		}
	}
	return false
}

// LastExplicit returns the most recent explicitly recorded value for slug at
// or before date, with the date it was recorded on. Both are zero when no
// explicit value exists. A value whose source date turns out to be after the
// requested date is discarded rather than returned.
func (e *Engine) LastExplicit(ownerID uint, date, slug string) (interface{}, string, error) {
	if !columnSlugs[slug] {
		return nil, "", nil
	}

	var row Models.DailyReport
	err := e.DB.
		Where("user_id = ? AND "+slug+" IS NOT NULL AND date <= ?", ownerID, date).
		Order("date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	// ISO dates compare lexicographically; never hand out a future value
	if row.Date > date {
		return nil, "", nil
	}
	return row.FieldValue(slug), row.Date, nil
}

// ResolveEffective resolves the effective value of one field on one date:
// the day's explicit value when present, otherwise the carried-forward value
// for allow-listed slugs, otherwise absent (nil).
func (e *Engine) ResolveEffective(ownerID uint, date, slug string) (interface{}, error) {
	var row Models.DailyReport
	err := e.DB.Where("user_id = ? AND date = ?", ownerID, date).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		if value := row.FieldValue(slug); value != nil {
			return value, nil
		}
	}
	if !IsCarryForward(slug) {
		return nil, nil
	}
	value, _, err := e.LastExplicit(ownerID, date, slug)
	return value, err
}

// ResolveDay resolves effective values for every in-scope field of a student
// on a date. exists reports whether an explicit record was stored for that
// day; the field map is populated either way.
func (e *Engine) ResolveDay(ownerID uint, date string) (bool, map[string]interface{}, error) {
	if _, err := ParseDate(date); err != nil {
		return false, nil, err
	}

	var definitions []Models.TaskDefinition
	err := e.DB.
		Where("student_id = ? AND (is_active = ? OR is_default = ?)", ownerID, true, true).
		Order("is_default DESC, created_at ASC").
		Find(&definitions).Error
	if err != nil {
		return false, nil, err
	}

	var row Models.DailyReport
	exists := true
	err = e.DB.Where("user_id = ? AND date = ?", ownerID, date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		exists = false
	} else if err != nil {
		return false, nil, err
	}

	fields := make(map[string]interface{}, len(definitions))
	for _, def := range definitions {
		var value interface{}
		if exists {
			value = row.FieldValue(def.Slug)
		}
		if value == nil && IsCarryForward(def.Slug) {
			value, _, err = e.LastExplicit(ownerID, date, def.Slug)
			if err != nil {
				return false, nil, err
			}
		}
		if value != nil && def.IsNumeric() {
			value = CoerceNumeric(value)
		}
		fields[def.Slug] = value
	}
	return exists, fields, nil
}

// CoerceNumeric parses a raw value as a float when its string form carries a
// decimal separator and as an integer otherwise. A value that parses as
// neither becomes absent instead of an error.
func CoerceNumeric(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
		return v
	}

	raw := fmt.Sprintf("%v", value)
	if strings.Contains(raw, ".") {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return parsed
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return parsed
}
