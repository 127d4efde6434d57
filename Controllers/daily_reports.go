package Controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Tracker/Models"
	"Tracker/Progress"
)

// DailyReportController exposes the resolve and submit paths of the engine
type DailyReportController struct {
	DB     *gorm.DB
	Engine *Progress.Engine
}

func NewDailyReportController(db *gorm.DB, engine *Progress.Engine) *DailyReportController {
	return &DailyReportController{DB: db, Engine: engine}
}

// GetDailyReport resolves effective values for every in-scope field on a
// date. Missing days are not errors: exists is false and carry-forward
// fields still resolve.
func (d *DailyReportController) GetDailyReport(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}
	date := ctx.Params("date")

	exists, fields, err := d.Engine.ResolveDay(uint(userID), date)
	if errors.Is(err, Progress.ErrInvalidDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		log.Printf("ResolveDay failed for user %d, date %s: %v", userID, date, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to resolve daily report",
		})
	}

	return ctx.JSON(fiber.Map{"exists": exists, "report": fields})
}

// UpdateDailyReport runs the submit path for one day
func (d *DailyReportController) UpdateDailyReport(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}
	date := ctx.Params("date")

	var payload map[string]interface{}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "Invalid request body",
		})
	}

	if err := d.submit(ctx, uint(userID), date, payload); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Submit is the legacy single-shot endpoint carrying user_id and date inside
// the body
func (d *DailyReportController) Submit(ctx *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "Invalid request body",
		})
	}

	userID, ok := payloadUint(payload, "user_id")
	date, _ := payload["date"].(string)
	if !ok || date == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "user_id and date are required",
		})
	}
	delete(payload, "user_id")
	delete(payload, "date")

	if err := d.submit(ctx, userID, date, payload); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}

// submit maps engine failures onto the response taxonomy: validation faults
// are the caller's problem, anything else is a storage fault with the detail
// kept in the server log.
func (d *DailyReportController) submit(ctx *fiber.Ctx, userID uint, date string, payload map[string]interface{}) error {
	err := d.Engine.SubmitDay(userID, date, payload)
	if err == nil {
		return nil
	}

	var validationErr *Progress.ValidationError
	switch {
	case errors.Is(err, Progress.ErrInvalidDate):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": err.Error(),
		})
	case errors.As(err, &validationErr):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": validationErr.Error(),
		})
	default:
		log.Printf("SubmitDay failed for user %d, date %s: %v", userID, date, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Database error",
		})
	}
}

// LastKnownData returns the carried-forward reading state at a date
func (d *DailyReportController) LastKnownData(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}
	date := ctx.Params("date")

	slugs := []string{
		Models.SlugBookTitle,
		Models.SlugWordCount,
		Models.SlugAccumulatedReadingPercent,
		Models.SlugExpectedWeeklyReadingRate,
	}
	data := make(map[string]interface{}, len(slugs))
	for _, slug := range slugs {
		value, _, err := d.Engine.LastExplicit(uint(userID), date, slug)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to load last known data",
			})
		}
		data[slug] = value
	}
	return ctx.JSON(data)
}

// PreviousDayData returns the raw stored reading fields of the calendar day
// before date, or an empty object
func (d *DailyReportController) PreviousDayData(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}
	day, err := Progress.ParseDate(ctx.Params("date"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	previous := day.AddDate(0, 0, -1).Format(Progress.DateLayout)

	var report Models.DailyReport
	result := d.DB.Where("user_id = ? AND date = ?", userID, previous).First(&report)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return ctx.JSON(fiber.Map{})
	}
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load previous day data",
		})
	}

	return ctx.JSON(fiber.Map{
		"book_title":                  report.BookTitle,
		"word_count":                  report.WordCount,
		"accumulated_reading_percent": report.AccumulatedReadingPercent,
	})
}

// HasData reports whether a student has any stored reports at all
func (d *DailyReportController) HasData(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var count int64
	if err := d.DB.Model(&Models.DailyReport{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to check user data",
		})
	}
	return ctx.JSON(fiber.Map{"hasData": count > 0})
}

func payloadUint(payload map[string]interface{}, key string) (uint, bool) {
	switch v := payload[key].(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return uint(n), true
		}
	}
	return 0, false
}
