package Controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"Tracker/Progress"
)

// ProgressController serves the weekly progress views
type ProgressController struct {
	Engine *Progress.Engine
}

func NewProgressController(engine *Progress.Engine) *ProgressController {
	return &ProgressController{Engine: engine}
}

// WeeklyProgress aggregates the week containing :date for a student. Bad
// dates are the caller's fault; everything else is reported as an internal
// fault, never swallowed.
func (p *ProgressController) WeeklyProgress(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	date := ctx.Params("date")

	summary, err := p.Engine.WeeklyProgress(uint(userID), date)
	if errors.Is(err, Progress.ErrInvalidDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format. Use YYYY-MM-DD.",
		})
	}
	if err != nil {
		log.Printf("Weekly progress failed for user %d, date %s: %v", userID, date, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An internal server error occurred processing weekly progress.",
		})
	}

	return ctx.JSON(summary)
}
