package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Tracker/Models"
)

// TaskDefinitionController manages the per-student field catalog
type TaskDefinitionController struct {
	DB *gorm.DB
}

func NewTaskDefinitionController(db *gorm.DB) *TaskDefinitionController {
	return &TaskDefinitionController{DB: db}
}

func (t *TaskDefinitionController) studentDefinitions(studentID uint) ([]Models.TaskDefinition, error) {
	var definitions []Models.TaskDefinition
	err := t.DB.
		Where("student_id = ?", studentID).
		Order("is_default DESC, created_at ASC").
		Find(&definitions).Error
	return definitions, err
}

// GetTaskDefinitions lists every definition of a student, defaults first
func (t *TaskDefinitionController) GetTaskDefinitions(ctx *fiber.Ctx) error {
	studentID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid student ID"})
	}

	definitions, err := t.studentDefinitions(uint(studentID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve task definitions",
		})
	}
	return ctx.JSON(definitions)
}

type definitionPayload struct {
	ID        uint   `json:"id"`
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	FieldType string `json:"field_type"`
	IsDefault bool   `json:"is_default"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateTaskDefinitions syncs the custom definitions of a student with the
// incoming set: customs missing from the payload are removed, known ids are
// updated, the rest are inserted. Default definitions are never touched.
// Custom field values live in the reports' JSON column, so no storage
// migration happens here.
func (t *TaskDefinitionController) UpdateTaskDefinitions(ctx *fiber.Ctx) error {
	studentID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid student ID"})
	}

	var payload []definitionPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "Invalid request body",
		})
	}

	err = t.DB.Transaction(func(tx *gorm.DB) error {
		// Drop custom definitions the client no longer sends. Hard delete:
		// the unique (student, slug) index covers soft-deleted rows, which
		// would block re-adding a task with the same name later. Values live
		// in the reports' JSON column, so nothing dangles.
		keepIDs := make([]uint, 0, len(payload))
		for _, def := range payload {
			if def.ID > 0 {
				keepIDs = append(keepIDs, def.ID)
			}
		}
		query := tx.Unscoped().Where("student_id = ? AND is_default = ?", studentID, false)
		if len(keepIDs) > 0 {
			query = query.Where("id NOT IN ?", keepIDs)
		}
		if err := query.Delete(&Models.TaskDefinition{}).Error; err != nil {
			return err
		}

		for _, def := range payload {
			label := def.Label
			fieldType := def.FieldType
			if fieldType == "" {
				fieldType = Models.FieldTypeText
			}
			isActive := true
			if def.IsActive != nil {
				isActive = *def.IsActive
			}

			slug := def.Slug
			if slug == "" && label != "" {
				slug = Models.Slugify(label)
			}
			if slug == "" {
				continue
			}

			if def.ID > 0 {
				err := tx.Model(&Models.TaskDefinition{}).
					Where("id = ? AND student_id = ? AND is_default = ?", def.ID, studentID, false).
					Updates(map[string]interface{}{
						"label":      label,
						"field_type": fieldType,
						"is_active":  isActive,
					}).Error
				if err != nil {
					return err
				}
				continue
			}

			if label == "" {
				continue
			}
			// Skip duplicates instead of tripping the unique index
			var existing int64
			tx.Model(&Models.TaskDefinition{}).
				Where("student_id = ? AND slug = ?", studentID, slug).
				Count(&existing)
			if existing > 0 {
				continue
			}

			definition := Models.TaskDefinition{
				StudentID: uint(studentID),
				Slug:      slug,
				Label:     label,
				FieldType: fieldType,
				IsActive:  isActive,
			}
			if err := tx.Create(&definition).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Failed to update task definitions",
		})
	}

	definitions, err := t.studentDefinitions(uint(studentID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve task definitions",
		})
	}
	return ctx.JSON(definitions)
}

type activeStatusPayload struct {
	IsActive *bool `json:"is_active"`
}

// SetActiveStatus toggles a single definition on or off
func (t *TaskDefinitionController) SetActiveStatus(ctx *fiber.Ctx) error {
	definitionID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid definition ID"})
	}

	var payload activeStatusPayload
	if err := ctx.BodyParser(&payload); err != nil || payload.IsActive == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "failure",
			"message": "Invalid or missing is_active status. Must be true or false.",
		})
	}

	result := t.DB.Model(&Models.TaskDefinition{}).
		Where("id = ?", definitionID).
		Update("is_active", *payload.IsActive)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "An error occurred while updating the task status.",
		})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "failure", "message": "Task definition not found.",
		})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}
