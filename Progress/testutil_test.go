package Progress

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Tracker/Models"
)

const testDefaultRate = 35000

// newTestEngine builds an engine over a fresh in-memory database with the
// default task definitions seeded for student 7.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Models.User{},
		&Models.TaskDefinition{},
		&Models.TaskEntry{},
		&Models.DailyReport{},
	))

	definitions := Models.DefaultDefinitions(testStudent)
	require.NoError(t, db.Create(&definitions).Error)

	return NewEngine(db, testDefaultRate)
}

const testStudent uint = 7

// addCustomDefinition registers a custom task for the test student and
// returns its definition.
func addCustomDefinition(t *testing.T, e *Engine, slug, label, fieldType string) Models.TaskDefinition {
	t.Helper()
	definition := Models.TaskDefinition{
		StudentID: testStudent,
		Slug:      slug,
		Label:     label,
		FieldType: fieldType,
		IsActive:  true,
	}
	require.NoError(t, e.DB.Create(&definition).Error)
	return definition
}

// insertReport stores a raw report row directly, bypassing the submit path.
func insertReport(t *testing.T, e *Engine, date string, mutate func(*Models.DailyReport)) {
	t.Helper()
	report := Models.DailyReport{UserID: testStudent, Date: date}
	if mutate != nil {
		mutate(&report)
	}
	require.NoError(t, e.DB.Create(&report).Error)
}

// loadReport fetches the stored row for a date, failing the test when it
// does not exist.
func loadReport(t *testing.T, e *Engine, date string) Models.DailyReport {
	t.Helper()
	var report Models.DailyReport
	require.NoError(t, e.DB.Where("user_id = ? AND date = ?", testStudent, date).First(&report).Error)
	return report
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
