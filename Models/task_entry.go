package Models

import (
	"gorm.io/gorm"
)

// Weekday names used by the weekly plan, Monday first.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TaskEntry is one weekly plan slot: the expected value for a task on a given
// weekday. The plan is defined once and reused every week.
type TaskEntry struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"index"`
	TaskDefID uint   `json:"task_def_id" gorm:"index"`
	DayOfWeek string `json:"day_of_week" gorm:"size:16"`
	Value     string `json:"value"`
}
