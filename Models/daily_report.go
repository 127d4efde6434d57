package Models

import (
	"fmt"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyReport is the single record for a (student, date) pair. Date is a
// calendar day in YYYY-MM-DD form. Nullable columns are pointers: nil means
// "not recorded that day", which is not the same thing as zero.
//
// Custom task fields (slugs created per student) live in the Custom JSON map
// instead of dedicated columns, so adding a definition never needs a schema
// migration.
type DailyReport struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"uniqueIndex:idx_user_date"`
	Date   string `json:"date" gorm:"uniqueIndex:idx_user_date;size:10"`

	BookTitle                       *string  `json:"book_title"`
	WordCount                       *int     `json:"word_count"`
	ExpectedWeeklyReadingRate       *int     `json:"expected_weekly_reading_rate"`
	ExpectedWeeklyReadingPercent    *float64 `json:"expected_weekly_reading_percent"`
	ExpectedDailyReadingPercent     *float64 `json:"expected_daily_reading_percent"`
	AccumulatedReadingPercent       *float64 `json:"accumulated_reading_percent"`
	DailyReadingPercent             *float64 `json:"daily_reading_percent"`
	AccumulatedWeeklyReadingPercent *float64 `json:"accumulated_weekly_reading_percent"`
	ExpectedMathPoints              *int     `json:"expected_math_points"`
	ActualMathPoints                *int     `json:"actual_math_points"`
	MathTime                        *int     `json:"math_time"`

	Custom datatypes.JSONMap `json:"custom"`
}

// FieldValue returns the stored value for slug, nil when the field was not
// recorded. Default slugs map onto columns, everything else is looked up in
// the Custom map.
func (r *DailyReport) FieldValue(slug string) interface{} {
	switch slug {
	case SlugBookTitle:
		return strValue(r.BookTitle)
	case SlugWordCount:
		return intValue(r.WordCount)
	case SlugExpectedWeeklyReadingRate:
		return intValue(r.ExpectedWeeklyReadingRate)
	case SlugExpectedWeeklyReadingPercent:
		return floatValue(r.ExpectedWeeklyReadingPercent)
	case SlugExpectedDailyReadingPercent:
		return floatValue(r.ExpectedDailyReadingPercent)
	case SlugAccumulatedReadingPercent:
		return floatValue(r.AccumulatedReadingPercent)
	case SlugDailyReadingPercent:
		return floatValue(r.DailyReadingPercent)
	case SlugAccumulatedWeeklyReadingPercent:
		return floatValue(r.AccumulatedWeeklyReadingPercent)
	case SlugExpectedMathPoints:
		return intValue(r.ExpectedMathPoints)
	case SlugActualMathPoints:
		return intValue(r.ActualMathPoints)
	case SlugMathTime:
		return intValue(r.MathTime)
	default:
		if r.Custom == nil {
			return nil
		}
		return r.Custom[slug]
	}
}

// SetField stores value under slug, routing default slugs to their columns
// and custom slugs into the Custom map. A nil value clears the field.
func (r *DailyReport) SetField(slug string, value interface{}) {
	switch slug {
	case SlugBookTitle:
		r.BookTitle = toStringPtr(value)
	case SlugWordCount:
		r.WordCount = toIntPtr(value)
	case SlugExpectedWeeklyReadingRate:
		r.ExpectedWeeklyReadingRate = toIntPtr(value)
	case SlugExpectedWeeklyReadingPercent:
		r.ExpectedWeeklyReadingPercent = toFloatPtr(value)
	case SlugExpectedDailyReadingPercent:
		r.ExpectedDailyReadingPercent = toFloatPtr(value)
	case SlugAccumulatedReadingPercent:
		r.AccumulatedReadingPercent = toFloatPtr(value)
	case SlugDailyReadingPercent:
		r.DailyReadingPercent = toFloatPtr(value)
	case SlugAccumulatedWeeklyReadingPercent:
		r.AccumulatedWeeklyReadingPercent = toFloatPtr(value)
	case SlugExpectedMathPoints:
		r.ExpectedMathPoints = toIntPtr(value)
	case SlugActualMathPoints:
		r.ActualMathPoints = toIntPtr(value)
	case SlugMathTime:
		r.MathTime = toIntPtr(value)
	default:
		if value == nil {
			if r.Custom != nil {
				delete(r.Custom, slug)
			}
			return
		}
		if r.Custom == nil {
			r.Custom = datatypes.JSONMap{}
		}
		r.Custom[slug] = value
	}
}

func strValue(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intValue(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatValue(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func toStringPtr(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := fmt.Sprintf("%v", value)
	return &s
}

func toIntPtr(value interface{}) *int {
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
		return nil
	default:
		return nil
	}
}

func toFloatPtr(value interface{}) *float64 {
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
		return nil
	default:
		return nil
	}
}
