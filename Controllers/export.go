package Controllers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"Tracker/Progress"
)

// ExportController renders weekly progress as a downloadable spreadsheet
type ExportController struct {
	Engine *Progress.Engine
}

func NewExportController(engine *Progress.Engine) *ExportController {
	return &ExportController{Engine: engine}
}

// ExportWeeklyProgress writes the weekly summary to an .xlsx workbook with a
// progress sheet and a task sheet
func (e *ExportController) ExportWeeklyProgress(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	date := ctx.Params("date")

	summary, err := e.Engine.WeeklyProgress(uint(userID), date)
	if errors.Is(err, Progress.ErrInvalidDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format. Use YYYY-MM-DD.",
		})
	}
	if err != nil {
		log.Printf("Weekly progress export failed for user %d, date %s: %v", userID, date, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build weekly progress report",
		})
	}

	file := excelize.NewFile()
	sheetName := "Weekly Progress"
	index, err := file.NewSheet(sheetName)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create workbook",
		})
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := []string{
		"Date", "Day", "Expected Math (Pts)", "Actual Math (Pts)",
		"Math Time (mins)", "Expected Math Time (mins)",
		"Daily Reading (%)", "Expected Daily Reading (%)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		file.SetCellValue(sheetName, cell, header)
	}
	if style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	}); err == nil {
		file.SetRowStyle(sheetName, 1, 1, style)
	}

	for rowIndex, day := range summary.DailyData {
		row := rowIndex + 2
		values := []interface{}{
			day.Date,
			day.Day,
			day.ExpectedMathPoints,
			day.ActualMathPoints,
			day.MathTime,
			day.ExpectedMathTime,
			day.DailyReadingPercent,
			day.ExpectedDailyReadingPercent,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			file.SetCellValue(sheetName, cell, value)
		}
	}

	totalsRow := len(summary.DailyData) + 3
	file.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), "Totals")
	file.SetCellValue(sheetName, fmt.Sprintf("C%d", totalsRow), summary.Summary.TotalExpectedMathPoints)
	file.SetCellValue(sheetName, fmt.Sprintf("D%d", totalsRow), summary.Summary.TotalActualMathPoints)
	file.SetCellValue(sheetName, fmt.Sprintf("G%d", totalsRow), summary.Summary.TotalActualReadingPercent)
	file.SetCellValue(sheetName, fmt.Sprintf("H%d", totalsRow), summary.Summary.TotalExpectedReadingPercent)

	for i := 0; i < len(headers); i++ {
		column := string('A' + rune(i))
		file.SetColWidth(sheetName, column, column, 18)
	}

	// Second sheet: text task completion matrix
	if len(summary.TextTasks.Labels) > 0 {
		taskSheet := "Tasks"
		if _, err := file.NewSheet(taskSheet); err == nil {
			days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
			file.SetCellValue(taskSheet, "A1", "Task")
			for i, day := range days {
				file.SetCellValue(taskSheet, fmt.Sprintf("%c1", 'B'+i), day)
			}
			row := 2
			for slug, label := range summary.TextTasks.Labels {
				file.SetCellValue(taskSheet, fmt.Sprintf("A%d", row), label)
				for i, day := range days {
					done := ""
					if summary.TextTasks.Completion[slug][day] {
						done = "X"
					}
					file.SetCellValue(taskSheet, fmt.Sprintf("%c%d", 'B'+i, row), done)
				}
				row++
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to write workbook",
		})
	}

	filename := fmt.Sprintf("weekly_progress_%d_%s.xlsx", userID, date)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(buffer.Bytes())
}
