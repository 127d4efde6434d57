package Controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Tracker/Models"
)

// TaskEntryController manages the weekly plan: one expected value per
// (task, weekday), defined once and reused every week
type TaskEntryController struct {
	DB *gorm.DB
}

func NewTaskEntryController(db *gorm.DB) *TaskEntryController {
	return &TaskEntryController{DB: db}
}

// GetTaskEntries returns the plan as {weekday: {slug: value}} with every
// weekday present
func (t *TaskEntryController) GetTaskEntries(ctx *fiber.Ctx) error {
	studentID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid student ID"})
	}

	var definitions []Models.TaskDefinition
	if err := t.DB.Where("student_id = ?", studentID).Find(&definitions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve task entries",
		})
	}
	slugsByDefID := make(map[uint]string, len(definitions))
	for _, def := range definitions {
		slugsByDefID[def.ID] = def.Slug
	}

	var entries []Models.TaskEntry
	if err := t.DB.Where("student_id = ?", studentID).Find(&entries).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve task entries",
		})
	}

	plan := make(map[string]map[string]string, len(Models.WeekDays))
	for _, day := range Models.WeekDays {
		plan[day] = map[string]string{}
	}
	for _, entry := range entries {
		slug, ok := slugsByDefID[entry.TaskDefID]
		if !ok {
			continue
		}
		if _, ok := plan[entry.DayOfWeek]; !ok {
			continue
		}
		plan[entry.DayOfWeek][slug] = entry.Value
	}

	return ctx.JSON(plan)
}

// UpdateTaskEntries replaces the whole plan for a student. Number and
// percent tasks must carry integer values; the offending slug is named in
// the rejection.
func (t *TaskEntryController) UpdateTaskEntries(ctx *fiber.Ctx) error {
	studentID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid student ID"})
	}

	var payload map[string]map[string]string
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "Invalid request body",
		})
	}

	var definitions []Models.TaskDefinition
	if err := t.DB.Where("student_id = ?", studentID).Find(&definitions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Failed to load task definitions",
		})
	}
	defsBySlug := make(map[string]Models.TaskDefinition, len(definitions))
	for _, def := range definitions {
		defsBySlug[def.Slug] = def
	}

	// Validate before anything is deleted
	for _, tasks := range payload {
		for slug, value := range tasks {
			def, ok := defsBySlug[slug]
			if !ok || value == "" {
				continue
			}
			if def.IsNumeric() {
				if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
					return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"status":  "failure",
						"message": fmt.Sprintf("Task %q requires an integer value.", slug),
					})
				}
			}
		}
	}

	err = t.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&Models.TaskEntry{}).Error; err != nil {
			return err
		}
		for day, tasks := range payload {
			for slug, value := range tasks {
				def, ok := defsBySlug[slug]
				if !ok || value == "" {
					continue
				}
				entry := Models.TaskEntry{
					StudentID: uint(studentID),
					TaskDefID: def.ID,
					DayOfWeek: day,
					Value:     value,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Failed to update task entries",
		})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}
