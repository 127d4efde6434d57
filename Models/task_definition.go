package Models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Field types a task definition can carry. "percent" behaves like "number"
// everywhere it matters (validation and coercion).
const (
	FieldTypeNumber  = "number"
	FieldTypeText    = "text"
	FieldTypePercent = "percent"
)

// Slugs of the default (system) task definitions every student gets.
const (
	SlugExpectedMathPoints              = "expected_math_points"
	SlugActualMathPoints                = "actual_math_points"
	SlugMathTime                        = "math_time"
	SlugBookTitle                       = "book_title"
	SlugWordCount                       = "word_count"
	SlugExpectedDailyReadingPercent     = "expected_daily_reading_percent"
	SlugAccumulatedReadingPercent       = "accumulated_reading_percent"
	SlugExpectedWeeklyReadingPercent    = "expected_weekly_reading_percent"
	SlugExpectedWeeklyReadingRate       = "expected_weekly_reading_rate"
	SlugDailyReadingPercent             = "daily_reading_percent"
	SlugAccumulatedWeeklyReadingPercent = "accumulated_weekly_reading_percent"
)

// TaskDefinition is one tracked field for a student. Default definitions are
// system owned and cannot be removed; custom ones come and go with the
// student's setup.
type TaskDefinition struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"uniqueIndex:idx_student_slug"`
	Slug      string `json:"slug" gorm:"uniqueIndex:idx_student_slug;size:64"`
	Label     string `json:"label"`
	FieldType string `json:"field_type"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	Readonly  bool   `json:"readonly"`
}

// IsNumeric reports whether values for this definition must parse as numbers.
func (d *TaskDefinition) IsNumeric() bool {
	return d.FieldType == FieldTypeNumber || d.FieldType == FieldTypePercent
}

// DefaultDefinitions returns the system task definitions seeded for a new
// student.
func DefaultDefinitions(studentID uint) []TaskDefinition {
	defaults := []struct {
		slug, label, fieldType string
	}{
		{SlugExpectedMathPoints, "Math (Pts)", FieldTypeNumber},
		{SlugActualMathPoints, "Math (Pts)", FieldTypeNumber},
		{SlugMathTime, "Math Time (mins)", FieldTypeNumber},
		{SlugBookTitle, "Book Title", FieldTypeText},
		{SlugWordCount, "Word Count", FieldTypeNumber},
		{SlugExpectedDailyReadingPercent, "Expected Daily Reading (%)", FieldTypeNumber},
		{SlugAccumulatedReadingPercent, "Reading Progress (%)", FieldTypeNumber},
		{SlugExpectedWeeklyReadingPercent, "Expected Weekly Reading Progress (%)", FieldTypeNumber},
		{SlugExpectedWeeklyReadingRate, "Number of Words Read per Week", FieldTypeNumber},
		{SlugDailyReadingPercent, "Actual Daily Reading Progress (%)", FieldTypeNumber},
		{SlugAccumulatedWeeklyReadingPercent, "Reading Progress (reset each week) (%)", FieldTypeNumber},
	}

	definitions := make([]TaskDefinition, 0, len(defaults))
	for _, def := range defaults {
		definitions = append(definitions, TaskDefinition{
			StudentID: studentID,
			Slug:      def.slug,
			Label:     def.label,
			FieldType: def.fieldType,
			IsDefault: true,
			IsActive:  true,
		})
	}
	return definitions
}

var (
	nonWordPattern    = regexp.MustCompile(`[^\w]+`)
	underscorePattern = regexp.MustCompile(`_+`)
)

// Slugify turns "My New Field" into "my_new_field".
func Slugify(label string) string {
	slug := nonWordPattern.ReplaceAllString(label, "_")
	slug = underscorePattern.ReplaceAllString(slug, "_")
	return strings.ToLower(strings.Trim(slug, "_"))
}
